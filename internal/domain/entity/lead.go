package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LeadSource embudo por el que llegó el lead.
type LeadSource string

const (
	LeadSourceSurvey     LeadSource = "SURVEY"
	LeadSourceEstimator  LeadSource = "ESTIMATOR"
	LeadSourceStarterKit LeadSource = "STARTER_KIT"
)

// Valid indica si la fuente es conocida.
func (s LeadSource) Valid() bool {
	switch s {
	case LeadSourceSurvey, LeadSourceEstimator, LeadSourceStarterKit:
		return true
	}
	return false
}

// LeadStatus etapa comercial del lead.
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "NEW"
	LeadStatusContacted LeadStatus = "CONTACTED"
	LeadStatusQualified LeadStatus = "QUALIFIED"
	LeadStatusConverted LeadStatus = "CONVERTED"
	LeadStatusLost      LeadStatus = "LOST"
)

// Valid indica si el estado es conocido.
func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusConverted, LeadStatusLost:
		return true
	}
	return false
}

// Lead contacto capturado por la encuesta, el estimador o el starter kit.
// Email está normalizado (minúsculas, sin espacios) y es único.
type Lead struct {
	ID               string
	Email            string
	Name             string
	Company          string
	Phone            string
	Source           LeadSource
	Status           LeadStatus
	Answers          map[string]any
	EstimateLow      decimal.NullDecimal
	EstimateHigh     decimal.NullDecimal
	MarketingConsent bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
