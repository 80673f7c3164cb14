// Package stressmcp exposes the inversion engine as MCP tools over stdio.
// Every tool call is a one-shot deterministic computation; the server keeps
// no session state.
package stressmcp

import (
	"context"
	"fmt"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/xaliphostes/stress/internal/dataset"
	"github.com/xaliphostes/stress/internal/display"
	"github.com/xaliphostes/stress/internal/fault"
	"github.com/xaliphostes/stress/internal/geom"
	"github.com/xaliphostes/stress/internal/invert"
	"github.com/xaliphostes/stress/internal/logging"
	"github.com/xaliphostes/stress/internal/mech"
)

// Server wraps the MCP SDK server with the inversion tools registered.
type Server struct {
	MCPServer *sdkmcp.Server

	log *slog.Logger
}

// NewServer creates the stress MCP server.
func NewServer(version string) *Server {
	s := &Server{
		MCPServer: sdkmcp.NewServer(
			&sdkmcp.Implementation{Name: "stress", Version: version},
			nil,
		),
		log: logging.New("stress-mcp"),
	}
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "list_datasets",
		Description: "List the embedded sample fault datasets with descriptions and fault counts.",
	}, s.handleListDatasets)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "run_inversion",
		Description: "Invert a fault set for the reduced stress tensor. Accepts an embedded dataset name or inline fault records.",
	}, s.handleRunInversion)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "evaluate_tensor",
		Description: "Score a fixed stress tensor (sigma1/sigma3 orientations plus stress ratio) against a fault set, with per-fault breakdown.",
	}, s.handleEvaluateTensor)
}

// --- Tool input/output types ---

type listDatasetsInput struct{}

type datasetInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Faults      int    `json:"faults"`
}

type listDatasetsOutput struct {
	Datasets []datasetInfo `json:"datasets"`
}

type faultRecord struct {
	Label  string  `json:"label,omitempty" jsonschema:"optional fault label"`
	Strike float64 `json:"strike" jsonschema:"strike in degrees, clockwise from North"`
	Dip    float64 `json:"dip" jsonschema:"dip in degrees, 0 to 90"`
	Rake   float64 `json:"rake" jsonschema:"rake in degrees, in-plane from the strike direction"`
	Sense  string  `json:"sense,omitempty" jsonschema:"sense of movement: N, I, RL, LL or ND"`
}

// criterionInput is the criterion selector shared by run_inversion and
// evaluate_tensor. The SDK's schema reflection wants flat structs, so both
// input types repeat these fields and convert through it.
type criterionInput struct {
	Criterion        string
	Method           string
	Cohesion         float64
	FrictionAngleDeg float64
	FrictionWeight   float64
	MaxFaults        int
}

type runInversionInput struct {
	Dataset          string        `json:"dataset,omitempty" jsonschema:"embedded sample dataset name; see list_datasets"`
	Faults           []faultRecord `json:"faults,omitempty" jsonschema:"inline fault records, used when dataset is empty"`
	Criterion        string        `json:"criterion,omitempty" jsonschema:"misfit criterion: angular (default), friction or pole-rotation"`
	Method           string        `json:"method,omitempty" jsonschema:"pole search for the pole-rotation criterion: fibonacci-cone (default), conical-grid, regular-grid or monte-carlo"`
	Cohesion         float64       `json:"cohesion,omitempty" jsonschema:"rock cohesion for the friction criterion, normalized units"`
	FrictionAngleDeg float64       `json:"friction_angle_deg,omitempty" jsonschema:"rock friction angle in degrees, required by the friction criterion"`
	FrictionWeight   float64       `json:"friction_weight,omitempty" jsonschema:"weight of the friction penalty (default 1)"`
	MaxFaults        int           `json:"max_faults,omitempty" jsonschema:"score only the best-fitting N faults (0 = all)"`
	Workers          int           `json:"workers,omitempty" jsonschema:"parallel sweep workers (default 1)"`
	EarlyExit        bool          `json:"early_exit,omitempty" jsonschema:"stop the sweep on an exact zero misfit"`
}

func (in runInversionInput) criterion() criterionInput {
	return criterionInput{
		Criterion:        in.Criterion,
		Method:           in.Method,
		Cohesion:         in.Cohesion,
		FrictionAngleDeg: in.FrictionAngleDeg,
		FrictionWeight:   in.FrictionWeight,
		MaxFaults:        in.MaxFaults,
	}
}

type runInversionOutput struct {
	Report  *invert.Report `json:"report"`
	Summary string         `json:"summary"`
}

type evaluateTensorInput struct {
	Dataset          string        `json:"dataset,omitempty" jsonschema:"embedded sample dataset name; see list_datasets"`
	Faults           []faultRecord `json:"faults,omitempty" jsonschema:"inline fault records, used when dataset is empty"`
	Criterion        string        `json:"criterion,omitempty" jsonschema:"misfit criterion: angular (default), friction or pole-rotation"`
	Method           string        `json:"method,omitempty" jsonschema:"pole search for the pole-rotation criterion: fibonacci-cone (default), conical-grid, regular-grid or monte-carlo"`
	Cohesion         float64       `json:"cohesion,omitempty" jsonschema:"rock cohesion for the friction criterion, normalized units"`
	FrictionAngleDeg float64       `json:"friction_angle_deg,omitempty" jsonschema:"rock friction angle in degrees, required by the friction criterion"`
	FrictionWeight   float64       `json:"friction_weight,omitempty" jsonschema:"weight of the friction penalty (default 1)"`
	MaxFaults        int           `json:"max_faults,omitempty" jsonschema:"score only the best-fitting N faults (0 = all)"`
	Sigma1Trend      float64       `json:"sigma1_trend_deg" jsonschema:"trend of the most compressive axis, degrees clockwise from North"`
	Sigma1Plunge     float64       `json:"sigma1_plunge_deg" jsonschema:"plunge of the most compressive axis, degrees below horizontal"`
	Sigma3Trend      float64       `json:"sigma3_trend_deg" jsonschema:"trend of the least compressive axis"`
	Sigma3Plunge     float64       `json:"sigma3_plunge_deg" jsonschema:"plunge of the least compressive axis"`
	StressRatio      float64       `json:"stress_ratio" jsonschema:"stress ratio R = (s2-s3)/(s1-s3), 0 to 1"`
}

func (in evaluateTensorInput) criterion() criterionInput {
	return criterionInput{
		Criterion:        in.Criterion,
		Method:           in.Method,
		Cohesion:         in.Cohesion,
		FrictionAngleDeg: in.FrictionAngleDeg,
		FrictionWeight:   in.FrictionWeight,
		MaxFaults:        in.MaxFaults,
	}
}

type evaluateTensorOutput struct {
	Report  *invert.Report `json:"report"`
	Summary string         `json:"summary"`
}

// --- Tool handlers ---

func (s *Server) handleListDatasets(_ context.Context, _ *sdkmcp.CallToolRequest, _ listDatasetsInput) (*sdkmcp.CallToolResult, listDatasetsOutput, error) {
	var out listDatasetsOutput
	for _, name := range dataset.List() {
		f, err := dataset.LoadEmbedded(name)
		if err != nil {
			return nil, listDatasetsOutput{}, err
		}
		out.Datasets = append(out.Datasets, datasetInfo{
			Name:        f.Name,
			Description: f.Description,
			Faults:      len(f.Faults),
		})
	}
	return nil, out, nil
}

func (s *Server) handleRunInversion(ctx context.Context, _ *sdkmcp.CallToolRequest, input runInversionInput) (*sdkmcp.CallToolResult, runInversionOutput, error) {
	name, set, err := resolveSet(input.Dataset, input.Faults)
	if err != nil {
		return nil, runInversionOutput{}, err
	}

	cfg := invert.DefaultRunConfig()
	cfg.Dataset = name
	cfg.Set = set
	applyCriterion(&cfg, input.criterion())
	if input.Workers > 0 {
		cfg.Params.Workers = input.Workers
	}
	cfg.Params.EarlyExit = input.EarlyExit

	rep, err := invert.Run(ctx, cfg)
	if err != nil {
		return nil, runInversionOutput{}, err
	}
	s.log.Info("run_inversion done", "dataset", name, "faults", len(set), "misfit", rep.Misfit)
	return nil, runInversionOutput{Report: rep, Summary: display.FormatReport(rep)}, nil
}

func (s *Server) handleEvaluateTensor(_ context.Context, _ *sdkmcp.CallToolRequest, input evaluateTensorInput) (*sdkmcp.CallToolResult, evaluateTensorOutput, error) {
	name, set, err := resolveSet(input.Dataset, input.Faults)
	if err != nil {
		return nil, evaluateTensorOutput{}, err
	}
	if input.StressRatio < 0 || input.StressRatio > 1 {
		return nil, evaluateTensorOutput{}, fmt.Errorf("stress_ratio %.4g outside [0, 1]", input.StressRatio)
	}

	sigma1 := geom.FromTrendPlunge(input.Sigma1Trend, input.Sigma1Plunge)
	sigma3 := geom.FromTrendPlunge(input.Sigma3Trend, input.Sigma3Plunge)
	wrot, wtrot, err := mech.FrameFromAxes(sigma1, sigma3)
	if err != nil {
		return nil, evaluateTensorOutput{}, err
	}
	st := mech.TrialTensor(input.StressRatio, wrot, wtrot)

	cfg := invert.DefaultRunConfig()
	cfg.Dataset = name
	cfg.Set = set
	applyCriterion(&cfg, input.criterion())

	rep, err := invert.Evaluate(cfg, st, input.StressRatio)
	if err != nil {
		return nil, evaluateTensorOutput{}, err
	}
	return nil, evaluateTensorOutput{Report: rep, Summary: display.FormatReport(rep)}, nil
}

// resolveSet picks the embedded dataset when a name is given, otherwise
// builds the set from inline records.
func resolveSet(name string, records []faultRecord) (string, fault.Set, error) {
	if name != "" {
		f, err := dataset.LoadEmbedded(name)
		if err != nil {
			return "", nil, err
		}
		set, err := f.FaultSet()
		if err != nil {
			return "", nil, err
		}
		return f.Name, set, nil
	}
	if len(records) == 0 {
		return "", nil, fmt.Errorf("either dataset or faults is required")
	}
	set := make(fault.Set, 0, len(records))
	for i, r := range records {
		sense, err := fault.ParseSense(r.Sense)
		if err != nil {
			return "", nil, fmt.Errorf("fault %d: %w", i+1, err)
		}
		fl, err := fault.FromOrientation(r.Strike, r.Dip, r.Rake, sense)
		if err != nil {
			return "", nil, fmt.Errorf("fault %d: %w", i+1, err)
		}
		fl.Label = r.Label
		set = append(set, fl)
	}
	return "inline", set, nil
}

// applyCriterion copies the selector fields onto the run configuration.
// Unknown criterion or method names surface as configuration errors from
// the runner itself.
func applyCriterion(cfg *invert.RunConfig, in criterionInput) {
	if in.Criterion != "" {
		cfg.Criterion = invert.CriterionKind(in.Criterion)
	}
	if in.Method != "" {
		cfg.Method = invert.Method(in.Method)
	}
	cfg.CriterionConfig.Cohesion = in.Cohesion
	cfg.CriterionConfig.FrictionAngle = geom.Radians(in.FrictionAngleDeg)
	if in.FrictionWeight > 0 {
		cfg.CriterionConfig.FrictionWeight = in.FrictionWeight
	}
	cfg.CriterionConfig.MaxFaults = in.MaxFaults
}
