package research

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/account-intel/internal/model"
	"github.com/sells-group/account-intel/internal/orchestrator"
)

const synthesisSystem = "You are a contract management expert specializing in agreement lifecycle analysis. Provide realistic volume and complexity rankings based on industry standards and company size."

const matrixPrompt = `I'm creating an agreement matrix for %s in the %s industry.

Company Scale:
- Revenue: %s
- Employees: %d

The matrix will use:
- X-axis: Volume (how frequently the agreement type is used/signed) - Scale 1-10
- Y-axis: Complexity (clauses, stakeholders, legal review, customization) - Scale 1-10

Identify the top 20 agreement types most relevant to %s based on their industry, operations, and common practices. Include both internal (within company) and external (with customers, vendors, regulators) agreements.

For EACH agreement type, provide in JSON format:
- type: Agreement type name (e.g., "Non-Disclosure Agreements", "Master Service Agreements")
- volume: Numeric score 1-10 (1=rarely used, 5=moderate, 10=used constantly)
- complexity: Numeric score 1-10 (1=simple template, 5=moderate negotiation, 10=highly complex/customized)
- classification: "Internal" or "External"
- business_unit: Primary owner (e.g., "Legal", "HR", "Sales", "Procurement", "Operations", "IT", "Finance")
- description: Brief 1-sentence description of this agreement type
- estimated_annual_volume: Approximate number per year (e.g., "500+", "2,000+")

Also provide:
- matrix_metadata:
  - total_types: Count of agreement types
  - highest_volume_type: Name of agreement with highest volume
  - highest_complexity_type: Name of agreement with highest complexity
  - quadrant_distribution: Count in each quadrant (high_vol_high_complex, high_vol_low_complex, low_vol_high_complex, low_vol_low_complex)

Base suggestions on what is typical for companies in this industry if exact internal details are unavailable.

Return as valid JSON with structure:
{
  "agreement_types": [...array of 20 agreement type objects...],
  "matrix_metadata": {...}
}`

func (a *Agent) synthesisProducer(subject string) orchestrator.Producer {
	return func(ctx context.Context, pc orchestrator.PhaseContext) (any, error) {
		profile, _ := pc.Deps[model.PhaseProfile].(*model.ProfilePayload)
		priorities, _ := pc.Deps[model.PhasePriorities].(*model.PrioritiesPayload)
		optimization, _ := pc.Deps[model.PhaseOptimization].(*model.OptimizationPayload)
		if profile == nil || priorities == nil || optimization == nil {
			return nil, eris.New("synthesis requires profile, priorities, and optimization outputs")
		}

		pc.Report("building agreement matrix")
		var matrix model.AgreementMatrix
		prompt := fmt.Sprintf(matrixPrompt,
			subject, profile.Industry,
			profile.Scale.AnnualRevenue, profile.Scale.Employees,
			subject,
		)
		usage, err := a.adapter.Extract(ctx, synthesisSystem, prompt, &matrix)
		pc.Stats.Usage = usage
		if err != nil {
			return nil, err
		}
		if len(matrix.AgreementTypes) == 0 {
			return nil, eris.Wrap(orchestrator.ErrMalformedOutput, "no agreement types extracted")
		}
		if matrix.Metadata.TotalTypes == 0 {
			matrix.Metadata.TotalTypes = len(matrix.AgreementTypes)
		}

		pc.Report("computing portfolio summary")
		payload := &model.SynthesisPayload{
			Matrix:           matrix,
			PortfolioSummary: portfolioSummary(optimization.Opportunities),
			PriorityMappings: mapPriorities(priorities.Priorities, optimization.Opportunities),
			KeyFindings: []string{
				fmt.Sprintf("Analysis covers %d agreement types across the organization", len(matrix.AgreementTypes)),
				fmt.Sprintf("%d optimization opportunities identified", len(optimization.Opportunities)),
				"Data sourced from publicly available information",
				"Estimates based on industry benchmarks and company size",
			},
		}
		return payload, nil
	}
}

// mapPriorities pairs priorities with opportunities positionally for
// presentation. Extra entries on either side are dropped.
func mapPriorities(priorities []model.Priority, opportunities []model.Opportunity) []model.PriorityMapping {
	n := min(len(priorities), len(opportunities))
	if n == 0 {
		return nil
	}
	mappings := make([]model.PriorityMapping, 0, n)
	for i := 0; i < n; i++ {
		p, o := priorities[i], opportunities[i]
		name := o.UseCaseName
		if name == "" {
			name = o.Title
		}
		desc := o.Capabilities
		if desc == "" {
			desc = o.Description
		}
		mappings = append(mappings, model.PriorityMapping{
			PriorityID:            p.ID,
			PriorityName:          p.Name,
			PriorityDescription:   p.Description,
			CapabilityID:          o.ID,
			CapabilityName:        name,
			CapabilityDescription: desc,
			BusinessImpact:        p.BusinessImpact,
			Urgency:               p.Urgency,
		})
	}
	return mappings
}

// portfolioSummary rolls the opportunity business cases into portfolio-level
// totals, ROI, and payback.
func portfolioSummary(opportunities []model.Opportunity) model.PortfolioSummary {
	if len(opportunities) == 0 {
		return model.PortfolioSummary{
			TotalAnnualValue:        "$0",
			TotalImplementationCost: "$0",
			PortfolioROI:            "N/A",
			PortfolioPayback:        "N/A",
		}
	}

	var totalValue, totalCost float64
	counts := map[string]int{}
	for _, o := range opportunities {
		totalValue += ParseCurrency(o.Value.TotalAnnualValue)
		totalCost += ParseCurrency(o.Value.ImplementationCost)
		counts[normalizePriority(o.Implementation.Priority)]++
	}

	summary := model.PortfolioSummary{
		TotalOpportunities:      len(opportunities),
		TotalAnnualValue:        FormatCurrency(totalValue),
		TotalImplementationCost: FormatCurrency(totalCost),
		PortfolioROI:            "N/A",
		PortfolioPayback:        "N/A",
		HighPriority:            counts["high"],
		MediumPriority:          counts["medium"],
		LowPriority:             counts["low"],
	}

	if totalCost > 0 {
		roi := (totalValue - totalCost) / totalCost * 100
		summary.PortfolioROI = fmt.Sprintf("%.0f%%", roi)
	}
	if totalValue > 0 {
		paybackMonths := totalCost / (totalValue / 12)
		if paybackMonths < 12 {
			summary.PortfolioPayback = fmt.Sprintf("%.0f months", paybackMonths)
		} else {
			summary.PortfolioPayback = fmt.Sprintf("%.1f years", paybackMonths/12)
		}
	}
	return summary
}

func normalizePriority(p string) string {
	switch strings.ToLower(p) {
	case "high":
		return "high"
	case "low":
		return "low"
	default:
		return "medium"
	}
}
