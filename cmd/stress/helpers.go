package main

import (
	"fmt"

	"github.com/xaliphostes/stress/internal/dataset"
	"github.com/xaliphostes/stress/internal/fault"
	"github.com/xaliphostes/stress/internal/geom"
	"github.com/xaliphostes/stress/internal/invert"
)

// datasetFlags are the flags shared by every command that consumes a fault
// set: a YAML file on disk or an embedded sample by name.
type datasetFlags struct {
	file   string
	sample string
}

// loadSet resolves --dataset / --sample into a named fault set.
func loadSet(df datasetFlags) (string, fault.Set, error) {
	var (
		f   *dataset.File
		err error
	)
	switch {
	case df.file != "" && df.sample != "":
		return "", nil, fmt.Errorf("--dataset and --sample are mutually exclusive")
	case df.file != "":
		f, err = dataset.Load(df.file)
	case df.sample != "":
		f, err = dataset.LoadEmbedded(df.sample)
	default:
		return "", nil, fmt.Errorf("either --dataset or --sample is required")
	}
	if err != nil {
		return "", nil, err
	}
	set, err := f.FaultSet()
	if err != nil {
		return "", nil, err
	}
	return f.Name, set, nil
}

// criterionFlags are the criterion selector flags shared by invert and eval.
type criterionFlags struct {
	criterion      string
	method         string
	cohesion       float64
	frictionAngle  float64 // degrees
	frictionWeight float64
	maxFaults      int
}

func (cf criterionFlags) apply(cfg *invert.RunConfig) {
	cfg.Criterion = invert.CriterionKind(cf.criterion)
	cfg.Method = invert.Method(cf.method)
	cfg.CriterionConfig = invert.CriterionConfig{
		Cohesion:       cf.cohesion,
		FrictionAngle:  geom.Radians(cf.frictionAngle),
		FrictionWeight: cf.frictionWeight,
		MaxFaults:      cf.maxFaults,
	}
}

// loadParams reads search parameters from the given file, or returns the
// defaults when the path is empty.
func loadParams(path string) (invert.Params, error) {
	if path == "" {
		return invert.DefaultParams(), nil
	}
	return invert.LoadParams(path)
}
