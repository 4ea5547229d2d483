// Package nk locates refractive-index (.lnk) input files for optool by
// naming convention. Resolution is advisory: when nothing matches, the
// material identifier is passed through for optool's built-in material set.
package nk

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrDirNotFound is returned when the .lnk search directory does not exist.
var ErrDirNotFound = errors.New("refractive-index directory not found")

// Input is the result of resolving a material identifier.
type Input struct {
	// Path is either a filesystem path to a .lnk file or, when Builtin is
	// set, the bare material identifier for optool's internal database.
	Path string

	// Builtin reports that no local file matched and the identifier is
	// passed to optool unresolved.
	Builtin bool

	// Approximate reports that the match came from a substring search and
	// may not correspond to the requested temperature.
	Approximate bool
}

// Resolve finds the input file for material in dir. temp (Kelvin) narrows the
// search; pass 0 for a temperature-independent request. Resolution order:
//
//  1. <dir>/<material>_<temp>K.lnk (exact, only when temp > 0)
//  2. <dir>/<material>.lnk (exact)
//  3. any *.lnk in dir whose name contains material, case-insensitive
//  4. fall through to optool's built-in material set (not an error)
//
// Only a missing dir is an error. Resolve reads the directory listing and
// stats candidate paths; it never modifies anything.
func Resolve(dir, material string, temp int) (Input, error) {
	if _, err := os.Stat(dir); err != nil {
		return Input{}, fmt.Errorf("%w: %s", ErrDirNotFound, dir)
	}

	if temp > 0 {
		p := filepath.Join(dir, fmt.Sprintf("%s_%dK.lnk", material, temp))
		if fileExists(p) {
			return Input{Path: p}, nil
		}
	}

	p := filepath.Join(dir, material+".lnk")
	if fileExists(p) {
		return Input{Path: p}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return Input{}, fmt.Errorf("reading %s: %w", dir, err)
	}
	needle := strings.ToLower(material)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := strings.ToLower(e.Name())
		if strings.HasSuffix(name, ".lnk") && strings.Contains(name, needle) {
			return Input{
				Path:        filepath.Join(dir, e.Name()),
				Approximate: temp > 0,
			}, nil
		}
	}

	return Input{Path: material, Builtin: true}, nil
}

func fileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}
