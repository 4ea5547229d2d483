// Package material holds the local dust-material database: identifiers with
// bulk densities for the silicate compositions shipped alongside the .lnk
// files. Identifiers absent from the database are assumed to be optool
// built-in materials and carry no local density.
package material

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Bulk densities in g/cm³ for the local compositions.
var builtin = map[string]float64{
	"x035":  2.7, // (0.65)MgO-(0.35)SiO2
	"x040":  2.7, // (0.60)MgO-(0.40)SiO2
	"x050A": 2.7, // (0.50)MgO-(0.50)SiO2 structure A
	"x050B": 2.7, // (0.50)MgO-(0.50)SiO2 structure B
	"E10":   2.8, // Mg(0.9)Fe(0.1)SiO3, Fe3+
	"E10R":  2.8, // Mg(0.9)Fe(0.1)SiO3, Fe2+
	"E20":   2.9, // Mg(0.8)Fe(0.2)SiO3, Fe3+
	"E20R":  2.9, // Mg(0.8)Fe(0.2)SiO3, Fe2+
	"E30":   3.0, // Mg(0.7)Fe(0.3)SiO3, Fe3+
	"E30R":  3.0, // Mg(0.7)Fe(0.3)SiO3, Fe2+
	"E40":   3.1, // Mg(0.6)Fe(0.4)SiO3, Fe3+
	"E40R":  3.1, // Mg(0.6)Fe(0.4)SiO3, Fe2+
}

// Database is an immutable identifier→density lookup, built once at startup.
type Database struct {
	densities map[string]float64
}

// Builtin returns a database holding only the compiled-in compositions.
func Builtin() *Database {
	d := make(map[string]float64, len(builtin))
	for k, v := range builtin {
		d[k] = v
	}
	return &Database{densities: d}
}

// Load returns the built-in database merged with a YAML file mapping
// identifier to density (g/cm³). File entries override built-ins.
func Load(path string) (*Database, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading materials file: %w", err)
	}

	var extra map[string]float64
	if err := yaml.Unmarshal(raw, &extra); err != nil {
		return nil, fmt.Errorf("parsing materials file %s: %w", path, err)
	}

	db := Builtin()
	for id, density := range extra {
		if density <= 0 {
			return nil, fmt.Errorf("materials file %s: %s has non-positive density %v", path, id, density)
		}
		db.densities[id] = density
	}
	return db, nil
}

// Density returns the local density for id, if known.
func (db *Database) Density(id string) (float64, bool) {
	d, ok := db.densities[id]
	return d, ok
}

// IsLocal reports whether id is in the local database. Unknown identifiers
// are not an error; they are tried as optool built-in materials.
func (db *Database) IsLocal(id string) bool {
	_, ok := db.densities[id]
	return ok
}

// LocalIDs returns the known identifiers in sorted order, for help and
// diagnostic output.
func (db *Database) LocalIDs() []string {
	ids := make([]string, 0, len(db.densities))
	for id := range db.densities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
