package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/consorcio/internal/domain"
	"github.com/shopspring/decimal"
)

// TemplateRegistry manages built-in plan templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Description string
	Transforms  []PlanTransform
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(name)]
	return t, ok
}

// List returns all registered template names, sorted
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Templates returns every registered template sorted by name
func (tr *TemplateRegistry) Templates() []Template {
	out := make([]Template, 0, len(tr.templates))
	for _, name := range tr.List() {
		out = append(out, tr.templates[name])
	}
	return out
}

// CreateBuiltInTemplates creates a template registry with common consórcio strategies
func CreateBuiltInTemplates() *TemplateRegistry {
	registry := NewTemplateRegistry()

	// Contemplation timing
	for _, month := range []int{6, 12, 24, 60} {
		registry.Register(Template{
			Name:        fmt.Sprintf("contemplate_month_%d", month),
			Description: fmt.Sprintf("Contemplated at month %d", month),
			Transforms:  []PlanTransform{&SetContemplation{Month: month}},
		})
	}
	registry.Register(Template{
		Name:        "contemplate_1yr_earlier",
		Description: "Contemplated 12 months earlier",
		Transforms:  []PlanTransform{&ShiftContemplation{Months: -12}},
	})
	registry.Register(Template{
		Name:        "contemplate_1yr_later",
		Description: "Contemplated 12 months later",
		Transforms:  []PlanTransform{&ShiftContemplation{Months: 12}},
	})

	// Embedded bid
	registry.Register(Template{
		Name:        "bid_max",
		Description: "Embedded bid at the administrator's maximum",
		Transforms:  []PlanTransform{&EnableEmbeddedBid{}},
	})
	registry.Register(Template{
		Name:        "bid_25",
		Description: "25% embedded bid",
		Transforms:  []PlanTransform{&EnableEmbeddedBid{Percentage: decimal.NewFromFloat(0.25)}},
	})
	registry.Register(Template{
		Name:        "bid_30",
		Description: "30% embedded bid",
		Transforms:  []PlanTransform{&EnableEmbeddedBid{Percentage: decimal.NewFromFloat(0.30)}},
	})
	registry.Register(Template{
		Name:        "no_bid",
		Description: "No embedded bid",
		Transforms:  []PlanTransform{&DisableEmbeddedBid{}},
	})

	// Installment regime
	registry.Register(Template{
		Name:        "half_installment",
		Description: "Half installment until contemplation",
		Transforms: []PlanTransform{&SpecialRegime{
			ReductionPercent: decimal.NewFromFloat(0.5),
			AppliesTo:        []domain.ReductionTarget{domain.ReduceInstallment},
		}},
	})
	registry.Register(Template{
		Name:        "reduced_30",
		Description: "Whole installment reduced 30% until contemplation",
		Transforms: []PlanTransform{&SpecialRegime{
			ReductionPercent: decimal.NewFromFloat(0.3),
			AppliesTo:        []domain.ReductionTarget{domain.ReduceInstallment, domain.ReduceAdminTax, domain.ReduceReserveFund},
		}},
	})
	registry.Register(Template{
		Name:        "full_installment",
		Description: "Full installment from the start",
		Transforms:  []PlanTransform{&FullRegime{}},
	})

	// Rates
	registry.Register(Template{
		Name:        "index_ipca_4pct",
		Description: "Credit updated yearly at 4% (IPCA-like)",
		Transforms:  []PlanTransform{&SetRate{Rate: RateAnnualUpdate, Value: decimal.NewFromFloat(0.04)}},
	})
	registry.Register(Template{
		Name:        "index_incc_8pct",
		Description: "Credit updated yearly at 8% (INCC-like)",
		Transforms:  []PlanTransform{&SetRate{Rate: RateAnnualUpdate, Value: decimal.NewFromFloat(0.08)}},
	})
	registry.Register(Template{
		Name:        "agio_25",
		Description: "Quota resold at a 25% ágio",
		Transforms:  []PlanTransform{&SetRate{Rate: RateAgio, Value: decimal.NewFromFloat(0.25)}},
	})

	// Combination strategies
	registry.Register(Template{
		Name:        "aggressive",
		Description: "Contemplated at month 12 with a 30% embedded bid",
		Transforms: []PlanTransform{
			&SetContemplation{Month: 12},
			&EnableEmbeddedBid{Percentage: decimal.NewFromFloat(0.30)},
		},
	})
	registry.Register(Template{
		Name:        "conservative",
		Description: "Half installment, no bid, contemplated 12 months later",
		Transforms: []PlanTransform{
			&SpecialRegime{ReductionPercent: decimal.NewFromFloat(0.5)},
			&DisableEmbeddedBid{},
			&ShiftContemplation{Months: 12},
		},
	})

	return registry
}

// ApplyTemplate applies a template to a base plan
func ApplyTemplate(base domain.PlanParameters, template Template) (domain.PlanParameters, error) {
	return ApplyTransforms(base, template.Transforms)
}

// ParseTemplateList splits a comma-separated list of template names and
// transform specs. A bare key=value token continues the parameters of the
// transform spec before it, so "set_rate:rate=agio,value=0.3,bid_25" yields
// two entries.
func ParseTemplateList(templateList string) []string {
	if templateList == "" {
		return nil
	}

	parts := strings.Split(templateList, ",")
	entries := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		if n := len(entries); n > 0 && isParamContinuation(trimmed) && strings.Contains(entries[n-1], ":") {
			entries[n-1] += "," + trimmed
			continue
		}
		entries = append(entries, trimmed)
	}
	return entries
}

func isParamContinuation(token string) bool {
	eq := strings.Index(token, "=")
	colon := strings.Index(token, ":")
	return eq > 0 && (colon < 0 || colon > eq)
}

// GetTemplateHelp returns formatted help text for all templates
func GetTemplateHelp(registry *TemplateRegistry) string {
	if len(registry.templates) == 0 {
		return "No templates registered"
	}

	var sb strings.Builder
	sb.WriteString("Available Templates:\n\n")

	order := []string{"Contemplation", "Embedded Bid", "Installment Regime", "Rates", "Combination Strategies"}
	categories := make(map[string][]Template, len(order))

	for _, template := range registry.Templates() {
		name := template.Name
		switch {
		case strings.HasPrefix(name, "contemplate_"):
			categories["Contemplation"] = append(categories["Contemplation"], template)
		case strings.Contains(name, "bid"):
			categories["Embedded Bid"] = append(categories["Embedded Bid"], template)
		case strings.Contains(name, "installment") || strings.HasPrefix(name, "reduced_"):
			categories["Installment Regime"] = append(categories["Installment Regime"], template)
		case strings.HasPrefix(name, "index_") || strings.HasPrefix(name, "agio_"):
			categories["Rates"] = append(categories["Rates"], template)
		default:
			categories["Combination Strategies"] = append(categories["Combination Strategies"], template)
		}
	}

	for _, category := range order {
		templates := categories[category]
		if len(templates) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("%s:\n", category))
		for _, t := range templates {
			sb.WriteString(fmt.Sprintf("  %-26s %s\n", t.Name, t.Description))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Usage:\n")
	sb.WriteString("  consorcio compare plan.yaml --base casa-60 --with bid_25,contemplate_month_12\n")
	sb.WriteString("  consorcio compare plan.yaml --base casa-60 --with set_rate:rate=annual_update,value=0.045\n")

	return sb.String()
}
