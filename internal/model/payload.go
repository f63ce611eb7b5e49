package model

// ProfilePayload is the structured output of the Profile phase.
type ProfilePayload struct {
	LegalName            string       `json:"legal_name"`
	BrandNames           []string     `json:"brand_names,omitempty"`
	Industry             string       `json:"industry"`
	YearFounded          int          `json:"year_founded,omitempty"`
	Headquarters         string       `json:"headquarters,omitempty"`
	OwnershipStructure   string       `json:"ownership_structure,omitempty"`
	Scale                CompanyScale `json:"scale"`
	BusinessModel        BusinessModel `json:"business_model"`
	StrategicInitiatives []Initiative `json:"strategic_initiatives,omitempty"`
	Sources              []string     `json:"sources,omitempty"`
	Confidence           string       `json:"confidence,omitempty"`
}

// CompanyScale captures headline size metrics.
type CompanyScale struct {
	AnnualRevenue  string   `json:"annual_revenue,omitempty"`
	RevenueNumeric float64  `json:"revenue_numeric,omitempty"`
	Employees      int      `json:"employees,omitempty"`
	Locations      int      `json:"locations,omitempty"`
	Countries      []string `json:"countries,omitempty"`
	Customers      string   `json:"customers,omitempty"`
}

// BusinessModel describes how the subject makes money.
type BusinessModel struct {
	PrimaryRevenueModel string   `json:"primary_revenue_model,omitempty"`
	KeyDifferentiators  []string `json:"key_differentiators,omitempty"`
	CustomerSegments    []string `json:"customer_segments,omitempty"`
}

// Initiative is one announced strategic initiative.
type Initiative struct {
	Initiative  string   `json:"initiative"`
	Timeline    string   `json:"timeline,omitempty"`
	Priority    string   `json:"priority,omitempty"`
	Investment  string   `json:"investment,omitempty"`
	ImpactAreas []string `json:"impact_areas,omitempty"`
}

// UnitsPayload is the structured output of the UnitsAnalysis phase.
type UnitsPayload struct {
	Units []BusinessUnit `json:"business_units"`
}

// BusinessUnit is one major division of the subject.
type BusinessUnit struct {
	ID                    string          `json:"unit_id"`
	Name                  string          `json:"name"`
	Description           string          `json:"description,omitempty"`
	RevenueContribution   string          `json:"revenue_contribution,omitempty"`
	RevenuePercentage     float64         `json:"revenue_percentage,omitempty"`
	AgreementVolume       string          `json:"agreement_volume,omitempty"`
	ComplexityLevel       int             `json:"complexity_level,omitempty"`
	ComplexityNotes       string          `json:"complexity_notes,omitempty"`
	KeyAgreementTypes     []AgreementType `json:"key_agreement_types,omitempty"`
	PrimaryCounterparties []string        `json:"primary_counterparties,omitempty"`
	SystemsUsed           []string        `json:"systems_used,omitempty"`
	PainPoints            []string        `json:"pain_points,omitempty"`
	Sources               []string        `json:"sources,omitempty"`
	Confidence            string          `json:"confidence,omitempty"`
}

// AgreementType describes one category of agreements.
type AgreementType struct {
	Type           string `json:"type"`
	Volume         string `json:"volume,omitempty"`
	AvgValue       string `json:"avg_value,omitempty"`
	AvgTerm        string `json:"avg_term,omitempty"`
	RenewalRate    string `json:"renewal_rate,omitempty"`
	ManagedIn      string `json:"managed_in,omitempty"`
	RenewalPattern string `json:"renewal_pattern,omitempty"`
}

// PrioritiesPayload is the structured output of the PrioritiesAnalysis phase.
type PrioritiesPayload struct {
	Priorities []Priority `json:"priorities"`
}

// Priority is one strategic business priority, with scored executive quotes.
type Priority struct {
	ID                      string            `json:"priority_id"`
	Name                    string            `json:"priority_name"`
	Description             string            `json:"priority_description,omitempty"`
	BusinessImpact          string            `json:"business_impact,omitempty"`
	RelatedInitiatives      []string          `json:"related_initiatives,omitempty"`
	Urgency                 string            `json:"urgency,omitempty"`
	ExecutiveOwner          string            `json:"executive_owner,omitempty"`
	ExecutiveResponsibility string            `json:"executive_responsibility,omitempty"`
	Quotes                  []ScoredClaim     `json:"executive_quotes,omitempty"`
	Evolution               PriorityEvolution `json:"evolution,omitempty"`
	Sources                 []string          `json:"sources,omitempty"`
}

// PriorityEvolution tracks how a priority shifted over the past year.
type PriorityEvolution struct {
	CurrentFocus    string `json:"current_focus,omitempty"`
	PreviousFocus   string `json:"previous_focus,omitempty"`
	ChangeIndicator string `json:"change_indicator,omitempty"`
}

// OpportunityPayload is the structured output of the OpportunityAnalysis
// phase: the agreement landscape organized by business function.
type OpportunityPayload struct {
	Functions []BusinessFunction `json:"functions"`
	Summary   LandscapeSummary   `json:"summary"`
}

// BusinessFunction maps agreements to one business function.
type BusinessFunction struct {
	Name            string          `json:"function_name"`
	Description     string          `json:"description,omitempty"`
	BusinessUnits   []string        `json:"business_units,omitempty"`
	SystemsUsed     []string        `json:"systems_used,omitempty"`
	AgreementTypes  []AgreementType `json:"agreement_types,omitempty"`
	TotalAgreements string          `json:"total_agreements,omitempty"`
	Complexity      int             `json:"complexity,omitempty"`
	PainPoints      []string        `json:"pain_points,omitempty"`
}

// LandscapeSummary totals the agreement landscape.
type LandscapeSummary struct {
	TotalEstimatedAgreements string `json:"total_estimated_agreements,omitempty"`
	TotalFunctions           int    `json:"total_functions,omitempty"`
}

// OptimizationPayload is the structured output of the OptimizationAnalysis
// phase.
type OptimizationPayload struct {
	Opportunities []Opportunity `json:"opportunities"`
}

// Opportunity is one high-value optimization opportunity.
type Opportunity struct {
	ID                  string                  `json:"opportunity_id"`
	Title               string                  `json:"title"`
	UseCaseName         string                  `json:"use_case_name,omitempty"`
	Description         string                  `json:"description,omitempty"`
	BusinessFunction    string                  `json:"business_function,omitempty"`
	AgreementTypes      []string                `json:"agreement_types,omitempty"`
	Capabilities        string                  `json:"capabilities,omitempty"`
	SystemsImpacted     []string                `json:"systems_impacted,omitempty"`
	StrategicAlignment  []string                `json:"strategic_alignment,omitempty"`
	ExecutiveAlignment  ExecutiveAlignment      `json:"executive_alignment,omitempty"`
	CurrentState        ProcessState            `json:"current_state,omitempty"`
	FutureState         ProcessState            `json:"future_state,omitempty"`
	Value               ValueQuantification     `json:"value_quantification,omitempty"`
	Metrics             []Metric                `json:"metrics,omitempty"`
	Implementation      ImplementationPlan      `json:"implementation,omitempty"`
	RecommendedProducts []ProductRecommendation `json:"recommended_products,omitempty"`
	Sources             []string                `json:"sources,omitempty"`
	Confidence          string                  `json:"confidence,omitempty"`
}

// ExecutiveAlignment maps an opportunity to the executive who would champion
// it and the priority it supports.
type ExecutiveAlignment struct {
	PriorityName       string `json:"priority_name,omitempty"`
	ExecutiveChampion  string `json:"executive_champion,omitempty"`
	AlignmentStatement string `json:"alignment_statement,omitempty"`
	SupportingQuote    string `json:"supporting_quote,omitempty"`
}

// ProcessState describes a current or target process.
type ProcessState struct {
	ProcessDescription string   `json:"process_description,omitempty"`
	CycleTime          string   `json:"cycle_time,omitempty"`
	PainPoints         []string `json:"pain_points,omitempty"`
	KeyCapabilities    []string `json:"key_capabilities,omitempty"`
}

// ValueQuantification holds the business case numbers for an opportunity.
type ValueQuantification struct {
	TimeSavings         string `json:"time_savings,omitempty"`
	AgreementsAffected  string `json:"agreements_affected,omitempty"`
	RevenueAcceleration string `json:"revenue_acceleration,omitempty"`
	CostSavings         string `json:"cost_savings,omitempty"`
	TotalAnnualValue    string `json:"total_annual_value,omitempty"`
	ImplementationCost  string `json:"implementation_cost,omitempty"`
	ROIPercentage       string `json:"roi_percentage,omitempty"`
	PaybackPeriod       string `json:"payback_period,omitempty"`
}

// Metric is one presentation metric, financial or efficiency.
type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Type  string `json:"type,omitempty"`
}

// ImplementationPlan describes rollout characteristics.
type ImplementationPlan struct {
	Priority     string   `json:"priority,omitempty"`
	Timeline     string   `json:"timeline,omitempty"`
	Complexity   string   `json:"complexity,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
}

// ProductRecommendation links an opportunity to a catalog product.
type ProductRecommendation struct {
	ProductName         string   `json:"product_name"`
	Category            string   `json:"category,omitempty"`
	WhyRecommended      string   `json:"why_recommended,omitempty"`
	KeyCapabilitiesUsed []string `json:"key_capabilities_used,omitempty"`
}

// SynthesisPayload is the structured output of the ContentSynthesis phase.
type SynthesisPayload struct {
	Matrix           AgreementMatrix   `json:"agreement_matrix"`
	PortfolioSummary PortfolioSummary  `json:"portfolio_summary"`
	PriorityMappings []PriorityMapping `json:"priority_mappings,omitempty"`
	KeyFindings      []string          `json:"key_findings,omitempty"`
}

// AgreementMatrix positions agreement types on volume/complexity axes.
type AgreementMatrix struct {
	AgreementTypes []MatrixEntry  `json:"agreement_types"`
	Metadata       MatrixMetadata `json:"matrix_metadata"`
}

// MatrixEntry is one agreement type on the matrix.
type MatrixEntry struct {
	Type                  string `json:"type"`
	Volume                int    `json:"volume"`
	Complexity            int    `json:"complexity"`
	Classification        string `json:"classification,omitempty"`
	BusinessUnit          string `json:"business_unit,omitempty"`
	Description           string `json:"description,omitempty"`
	EstimatedAnnualVolume string `json:"estimated_annual_volume,omitempty"`
}

// MatrixMetadata summarizes the matrix distribution.
type MatrixMetadata struct {
	TotalTypes            int            `json:"total_types"`
	HighestVolumeType     string         `json:"highest_volume_type,omitempty"`
	HighestComplexityType string         `json:"highest_complexity_type,omitempty"`
	QuadrantDistribution  map[string]int `json:"quadrant_distribution,omitempty"`
}

// PortfolioSummary aggregates value numbers across all opportunities.
type PortfolioSummary struct {
	TotalOpportunities      int    `json:"total_opportunities"`
	TotalAnnualValue        string `json:"total_annual_value"`
	TotalImplementationCost string `json:"total_implementation_cost"`
	PortfolioROI            string `json:"portfolio_roi"`
	PortfolioPayback        string `json:"portfolio_payback"`
	HighPriority            int    `json:"high_priority_opportunities"`
	MediumPriority          int    `json:"medium_priority_opportunities"`
	LowPriority             int    `json:"low_priority_opportunities"`
}

// PriorityMapping pairs a strategic priority with the opportunity that
// addresses it for presentation.
type PriorityMapping struct {
	PriorityID            string `json:"priority_id"`
	PriorityName          string `json:"priority_name"`
	PriorityDescription   string `json:"priority_description,omitempty"`
	CapabilityID          string `json:"capability_id"`
	CapabilityName        string `json:"capability_name"`
	CapabilityDescription string `json:"capability_description,omitempty"`
	BusinessImpact        string `json:"business_impact,omitempty"`
	Urgency               string `json:"urgency,omitempty"`
}
