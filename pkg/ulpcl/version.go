package ulpcl

// Version and CompilationDate identify this build of the compiler; CompilationDate is stamped
// into release builds, not derived from the machine clock. Grounded on version.hpp.
const (
	Version         = "1.0.0"
	CompilationDate = "29.07.2026"
)
