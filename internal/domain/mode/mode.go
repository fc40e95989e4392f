package mode

// Mode is the optimization strategy.
type Mode string

// Optimization mode constants.
const (
	// Fast keeps minimal content for quick downstream calls.
	Fast Mode = "fast"
	// Balanced trades coverage for size.
	Balanced Mode = "balanced"
	// Comprehensive keeps the maximum relevant content.
	Comprehensive Mode = "comprehensive"
	// Adaptive derives fixed-mode parameters from the candidate pool size
	// at request time; it is never stored as a resolved mode.
	Adaptive Mode = "adaptive"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Fast || m == Balanced || m == Comprehensive || m == Adaptive
}
