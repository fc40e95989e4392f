package domain

// KeyPrefix namespaces all kbopt keys in the shared key-value store.
const KeyPrefix = "kbopt:"
