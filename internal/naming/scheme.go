package naming

// Scheme selects one of the two output naming/invocation conventions.
type Scheme int

const (
	// SchemePlain produces absorption opacity files (dustkappa_*.inp).
	// Supports an optional mantle coating and falls back to built-in
	// optool material identifiers when no local .lnk file matches.
	SchemePlain Scheme = iota

	// SchemeScatMat produces full scattering-matrix files
	// (dustkapscatmat_*.inp) via optool -s. No mantle support; an
	// unresolved input file is a hard failure for the request.
	SchemeScatMat
)

// String returns a short label for log output.
func (s Scheme) String() string {
	if s == SchemeScatMat {
		return "scattering-matrix"
	}
	return "plain"
}

// Prefix returns the filename prefix for the scheme.
func (s Scheme) Prefix() string {
	if s == SchemeScatMat {
		return "dustkapscatmat"
	}
	return "dustkappa"
}

// RawOutputFile returns the filename optool itself writes into its output
// directory for this scheme. The pipeline renames this file.
func (s Scheme) RawOutputFile() string {
	return s.Prefix() + ".inp"
}
