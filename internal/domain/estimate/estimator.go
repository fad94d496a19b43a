package estimate

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/studio-portal/internal/domain"
)

// ProjectType tipo de proyecto que ofrece el estimador.
type ProjectType string

const (
	ProjectLanding   ProjectType = "LANDING"
	ProjectWebsite   ProjectType = "WEBSITE"
	ProjectWebApp    ProjectType = "WEBAPP"
	ProjectEcommerce ProjectType = "ECOMMERCE"
)

type basePrice struct {
	price         int64
	includedPages int
}

var bases = map[ProjectType]basePrice{
	ProjectLanding:   {price: 1500, includedPages: 1},
	ProjectWebsite:   {price: 4000, includedPages: 5},
	ProjectWebApp:    {price: 12000, includedPages: 8},
	ProjectEcommerce: {price: 8000, includedPages: 10},
}

var features = map[string]int64{
	"cms":       1200,
	"auth":      1500,
	"payments":  2000,
	"i18n":      900,
	"seo":       600,
	"analytics": 400,
	"blog":      800,
}

var (
	pricePerExtraPage = decimal.NewFromInt(250)
	rushMultiplier    = decimal.NewFromFloat(1.25)
	rangeMultiplier   = decimal.NewFromFloat(1.30)
	roundingStep      = decimal.NewFromInt(50)
)

// Input respuestas del estimador de costos.
type Input struct {
	ProjectType ProjectType
	Pages       int
	Features    []string
	Rush        bool
}

// Result rango estimado (Low <= High), redondeado hacia arriba a múltiplos de 50.
type Result struct {
	Low  decimal.Decimal
	High decimal.Decimal
}

// Calculate estima el costo del proyecto.
// Low = base + páginas extra + funcionalidades (×1.25 si es urgente); High = Low × 1.30.
func Calculate(in Input) (Result, error) {
	base, ok := bases[ProjectType(strings.ToUpper(string(in.ProjectType)))]
	if !ok {
		return Result{}, fmt.Errorf("tipo de proyecto %q: %w", in.ProjectType, domain.ErrInvalidInput)
	}
	if in.Pages < 0 {
		return Result{}, fmt.Errorf("páginas negativas: %w", domain.ErrInvalidInput)
	}

	total := decimal.NewFromInt(base.price)
	if extra := in.Pages - base.includedPages; extra > 0 {
		total = total.Add(pricePerExtraPage.Mul(decimal.NewFromInt(int64(extra))))
	}

	seen := make(map[string]bool, len(in.Features))
	for _, f := range in.Features {
		key := strings.ToLower(strings.TrimSpace(f))
		price, ok := features[key]
		if !ok {
			return Result{}, fmt.Errorf("funcionalidad %q: %w", f, domain.ErrInvalidInput)
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		total = total.Add(decimal.NewFromInt(price))
	}

	if in.Rush {
		total = total.Mul(rushMultiplier)
	}

	low := roundUp(total)
	return Result{Low: low, High: roundUp(low.Mul(rangeMultiplier))}, nil
}

func roundUp(d decimal.Decimal) decimal.Decimal {
	return d.Div(roundingStep).Ceil().Mul(roundingStep)
}
