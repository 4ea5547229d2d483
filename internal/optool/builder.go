package optool

import "github.com/astrodust/dustopac/internal/naming"

// Invocation describes one optool run. Input and MantleInput are either .lnk
// file paths or bare built-in material identifiers; optool accepts both.
type Invocation struct {
	Input          string
	Scheme         naming.Scheme
	GrainSize      float64 // microns
	OutputDir      string  // working directory optool writes into
	MantleInput    string  // plain scheme only; empty for no mantle
	MantleFraction float64
}

// BuildArgs constructs the complete optool argument slice. args[0] is the
// binary name, as with the rest of the command. Flag set is fixed:
//
//	optool <input> [-s] -radmc -a <size> -o <dir> [-m <mantle> <fraction>]
//
// -s is emitted only for the scattering-matrix scheme; -m only for the plain
// scheme with a mantle configured.
func BuildArgs(inv Invocation) []string {
	args := make([]string, 0, 12)
	args = append(args, Binary, inv.Input)

	if inv.Scheme == naming.SchemeScatMat {
		args = append(args, "-s")
	}

	args = append(args,
		"-radmc",
		"-a", naming.FormatGrainSize(inv.GrainSize),
		"-o", inv.OutputDir,
	)

	if inv.Scheme == naming.SchemePlain && inv.MantleInput != "" {
		args = append(args, "-m", inv.MantleInput, naming.FormatFraction(inv.MantleFraction))
	}

	return args
}
