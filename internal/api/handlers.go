/*
handlers.go - HTTP handlers for the consórcio simulator

ENDPOINTS:

	GET  /healthz                   Liveness probe
	POST /api/projections           Project a plan (optionally transformed)
	POST /api/capital-gain          Resale outcome at a target month
	POST /api/leverage              Rental leverage of the accessed credit
	POST /api/sensitivity           Parameter sweep around a plan
	POST /api/compare               Plan against template/transform variants
	POST /api/optimize              Search ágio, contemplation month or bid for a goal
	GET  /api/simulations           Simulations of the loaded configuration
	GET  /api/simulations/{name}    Run one configured simulation (?format=)
	GET  /api/templates             Built-in comparison templates

ERROR HANDLING:
  - 400: malformed body, invalid plan, unknown variant, month out of range,
    unreachable optimization target
  - 404: unknown simulation
  - 500: anything else

Every request projects from scratch; the loaded configuration is read-only.
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rgehrsitz/consorcio/internal/breakeven"
	"github.com/rgehrsitz/consorcio/internal/calculation"
	"github.com/rgehrsitz/consorcio/internal/compare"
	"github.com/rgehrsitz/consorcio/internal/config"
	"github.com/rgehrsitz/consorcio/internal/domain"
	"github.com/rgehrsitz/consorcio/internal/output"
	"github.com/rgehrsitz/consorcio/internal/transform"
)

// errBadRequest marks request bodies that could not be decoded
var errBadRequest = errors.New("bad request")

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Engine   *calculation.CalculationEngine
	Analyzer *calculation.SensitivityAnalyzer
	Compare  *compare.CompareEngine
	Solver   *breakeven.Solver
	Parser   *config.InputParser

	// Config is the configuration loaded at startup; nil serves no simulations.
	Config *domain.Configuration
}

// NewHandler creates a handler around engine. cfg may be nil.
func NewHandler(engine *calculation.CalculationEngine, cfg *domain.Configuration) *Handler {
	if engine == nil {
		engine = calculation.NewCalculationEngine()
	}
	return &Handler{
		Engine:   engine,
		Analyzer: calculation.NewSensitivityAnalyzer(engine),
		Compare:  compare.NewCompareEngine(engine),
		Solver:   breakeven.NewDefaultSolver(engine),
		Parser:   config.NewInputParser(),
		Config:   cfg,
	}
}

// Healthz reports liveness.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Project runs POST /api/projections.
func (h *Handler) Project(w http.ResponseWriter, r *http.Request) {
	var req ProjectionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, err)
		return
	}

	plan := req.Plan
	for _, entry := range req.Variants {
		transforms, err := h.variantTransforms(entry)
		if err != nil {
			writeFailure(w, err)
			return
		}
		if plan, err = transform.ApplyTransforms(plan, transforms); err != nil {
			writeFailure(w, err)
			return
		}
	}

	name := req.Name
	if name == "" {
		name = "request"
	}
	result, err := h.Engine.RunSimulation(r.Context(), calculation.SimulationInput{
		Name:        name,
		Description: req.Description,
		Parameters:  plan,
	})
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// CapitalGain runs POST /api/capital-gain.
func (h *Handler) CapitalGain(w http.ResponseWriter, r *http.Request) {
	var req CapitalGainRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, err)
		return
	}

	rows, err := calculation.Project(req.Plan)
	if err != nil {
		writeFailure(w, err)
		return
	}
	month := req.TargetMonth
	if month == 0 {
		month = req.Plan.ContemplationMonth
	}
	agio := req.Plan.AgioPercent
	if req.AgioPercent != nil {
		agio = *req.AgioPercent
	}

	gain, err := calculation.CapitalGainAt(rows, month, agio)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gain)
}

// Leverage runs POST /api/leverage.
func (h *Handler) Leverage(w http.ResponseWriter, r *http.Request) {
	var req LeverageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, err)
		return
	}

	rows, err := calculation.Project(req.Plan)
	if err != nil {
		writeFailure(w, err)
		return
	}
	metrics, err := calculation.LeverageAt(rows, req.Leverage)
	if err != nil {
		writeFailure(w, err)
		return
	}
	months, err := calculation.LeverageProjection(rows, req.Leverage)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, LeverageResponse{Metrics: metrics, Months: months})
}

// Sensitivity runs POST /api/sensitivity.
func (h *Handler) Sensitivity(w http.ResponseWriter, r *http.Request) {
	var req SensitivityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, err)
		return
	}
	name := req.Name
	if name == "" {
		name = "request"
	}

	analysis, err := h.Analyzer.Analyze(r.Context(), name, req.Plan, req.Parameters)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

// CompareVariants runs POST /api/compare.
func (h *Handler) CompareVariants(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, err)
		return
	}
	name := req.Name
	if name == "" {
		name = "base"
	}

	set, err := h.Compare.Compare(r.Context(), calculation.SimulationInput{Name: name, Parameters: req.Plan},
		compare.CompareOptions{With: req.With})
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

// Optimize runs POST /api/optimize. Target "all" answers with the
// side-by-side comparison of every target.
func (h *Handler) Optimize(w http.ResponseWriter, r *http.Request) {
	var req OptimizeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, err)
		return
	}
	target, err := breakeven.ParseTarget(string(req.Target))
	if err != nil {
		writeFailure(w, err)
		return
	}
	goal, err := breakeven.ParseGoal(string(req.Goal))
	if err != nil {
		writeFailure(w, err)
		return
	}

	in := calculation.SimulationInput{Name: req.Name, Parameters: req.Plan}
	if in.Name == "" {
		in.Name = "request"
	}

	if target == breakeven.OptimizeAll {
		result, err := h.Solver.OptimizeAllTargets(r.Context(), in, req.Constraints, goal)
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
		return
	}

	result, err := h.Solver.Optimize(r.Context(), breakeven.OptimizationRequest{
		Base:        in,
		Target:      target,
		Goal:        goal,
		Constraints: req.Constraints,
	})
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ListSimulations runs GET /api/simulations.
func (h *Handler) ListSimulations(w http.ResponseWriter, r *http.Request) {
	sims := []SimulationDTO{}
	if h.Config != nil {
		for _, s := range h.Config.Simulations {
			sims = append(sims, SimulationDTO{
				Name:            s.Name,
				Description:     s.Description,
				Administrator:   s.Administrator,
				Product:         s.Product,
				InstallmentType: s.InstallmentType,
			})
		}
	}
	writeJSON(w, http.StatusOK, sims)
}

// GetSimulation runs GET /api/simulations/{name}. The optional format query
// parameter selects any registered output formatter; JSON is the default.
func (h *Handler) GetSimulation(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if h.Config == nil {
		writeFailure(w, fmt.Errorf("%w: %q (no configuration loaded)", config.ErrSimulationNotFound, name))
		return
	}

	in, err := h.Parser.Resolve(h.Config, name)
	if err != nil {
		writeFailure(w, err)
		return
	}
	result, err := h.Engine.RunSimulation(r.Context(), in)
	if err != nil {
		writeFailure(w, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" || output.NormalizeFormatName(format) == "json" {
		writeJSON(w, http.StatusOK, result)
		return
	}

	formatter := output.GetFormatterByName(format)
	if formatter == nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported format: %s", format), nil)
		return
	}
	data, err := formatter.Format(result)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "formatting failed", err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[formatter.Name()])
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ListTemplates runs GET /api/templates.
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates := []TemplateDTO{}
	for _, t := range h.Compare.TemplateRegistry.Templates() {
		templates = append(templates, TemplateDTO{Name: t.Name, Description: t.Description})
	}
	writeJSON(w, http.StatusOK, templates)
}

// variantTransforms resolves a template name or a transform spec
func (h *Handler) variantTransforms(entry string) ([]transform.PlanTransform, error) {
	if t, ok := h.Compare.TemplateRegistry.Get(entry); ok {
		return t.Transforms, nil
	}
	t, err := h.Compare.TransformRegistry.ParseTransformSpec(entry)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", compare.ErrUnknownVariant, entry, err)
	}
	return []transform.PlanTransform{t}, nil
}

var contentTypes = map[string]string{
	"console":      "text/plain; charset=utf-8",
	"console-lite": "text/plain; charset=utf-8",
	"csv":          "text/csv; charset=utf-8",
	"html":         "text/html; charset=utf-8",
	"xlsx":         "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"pdf":          "application/pdf",
}

// =============================================================================
// HELPERS
// =============================================================================

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err)
	}
	return nil
}

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	var beErr *breakeven.BreakEvenError
	switch {
	case errors.Is(err, config.ErrSimulationNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, domain.ErrInvalidParameters),
		errors.Is(err, config.ErrInvalidConfiguration),
		errors.Is(err, calculation.ErrMonthOutOfRange),
		errors.Is(err, compare.ErrUnknownVariant):
		return http.StatusBadRequest
	case errors.As(err, &beErr) && beErr.Cause == nil:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeFailure(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		writeError(w, status, "internal error", err)
		return
	}
	writeError(w, status, err.Error(), nil)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
