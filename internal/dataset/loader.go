// Package dataset loads striated-fault measurement files. A dataset is a
// named YAML document listing fault records either as field orientations
// (strike/dip/rake in degrees) or as explicit normal and striation vectors
// in the East-North-Up frame. Two sample datasets ship embedded.
package dataset

import (
	"embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/xaliphostes/stress/internal/fault"
	"github.com/xaliphostes/stress/internal/geom"
)

//go:embed *.yaml
var sampleFS embed.FS

// Record is one fault measurement. The vector form (normal + striation) wins
// over the orientation form when both are present.
type Record struct {
	Label     string    `yaml:"label,omitempty"`
	Strike    float64   `yaml:"strike"`
	Dip       float64   `yaml:"dip"`
	Rake      float64   `yaml:"rake"`
	Sense     string    `yaml:"sense,omitempty"`
	Normal    []float64 `yaml:"normal,omitempty"`
	Striation []float64 `yaml:"striation,omitempty"`
}

// File is a named collection of fault measurements.
type File struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Faults      []Record `yaml:"faults"`
}

// Load reads a dataset from disk.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	return parse(data, path)
}

// LoadEmbedded reads an embedded sample dataset by name.
func LoadEmbedded(name string) (*File, error) {
	data, err := sampleFS.ReadFile(name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("dataset %q not found (available: %s): %w",
			name, strings.Join(List(), ", "), err)
	}
	return parse(data, name)
}

// List returns the names of the embedded sample datasets, sorted.
func List() []string {
	entries, _ := sampleFS.ReadDir(".")
	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".yaml") {
			names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
		}
	}
	sort.Strings(names)
	return names
}

func parse(data []byte, origin string) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse dataset %q: %w", origin, err)
	}
	if f.Name == "" {
		f.Name = origin
	}
	if len(f.Faults) == 0 {
		return nil, fmt.Errorf("dataset %q has no faults", origin)
	}
	return &f, nil
}

// FaultSet validates every record and builds the fault set in file order.
func (f *File) FaultSet() (fault.Set, error) {
	set := make(fault.Set, 0, len(f.Faults))
	for i, r := range f.Faults {
		fl, err := r.build()
		if err != nil {
			return nil, fmt.Errorf("dataset %q fault %d: %w", f.Name, i+1, err)
		}
		set = append(set, fl)
	}
	return set, nil
}

func (r Record) build() (*fault.Fault, error) {
	sense, err := fault.ParseSense(r.Sense)
	if err != nil {
		return nil, err
	}
	var fl *fault.Fault
	if len(r.Normal) > 0 || len(r.Striation) > 0 {
		if len(r.Normal) != 3 || len(r.Striation) != 3 {
			return nil, fmt.Errorf("normal and striation must both have 3 components")
		}
		fl, err = fault.New(
			geom.Vec(r.Normal[0], r.Normal[1], r.Normal[2]),
			geom.Vec(r.Striation[0], r.Striation[1], r.Striation[2]),
			sense)
	} else {
		fl, err = fault.FromOrientation(r.Strike, r.Dip, r.Rake, sense)
	}
	if err != nil {
		return nil, err
	}
	fl.Label = r.Label
	return fl, nil
}
