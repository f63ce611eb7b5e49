package research

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/account-intel/internal/model"
	"github.com/sells-group/account-intel/internal/orchestrator"
)

const optimizationSystem = "You are a business process consultant specializing in contract lifecycle optimization. Provide realistic value estimates based on industry benchmarks. Always return EXACTLY 3 opportunities."

const optimizationPrompt = `Based on this company context:
%s

Identify EXACTLY 3 high-value contract/agreement optimization opportunities.
%s
Each opportunity should be tied to specific business functions, systems, and agreement types.

For each opportunity, provide in JSON format:
- opportunity_id: Unique ID (e.g., "opp_001")
- title: Concise title (e.g., "Sales Contract Cycle Time Reduction")
- use_case_name: Clear use case name for presentation (e.g., "Maximize Value Negotiated", "Accelerate Contract Onboarding")
- description: One sentence description
- business_function: Primary business function that benefits (e.g., "Sales", "Procurement")
- agreement_types: Array of specific agreement types affected
- capabilities: 2-3 sentence description of what this opportunity enables
- systems_impacted: Array of systems that need changes
- strategic_alignment: Array of 2 strategic benefits
- executive_alignment: How this opportunity maps to executive focus:
  - priority_name: Which strategic area this supports
  - executive_champion: Name and title of executive who would champion this
  - alignment_statement: 2-3 sentence explanation of the fit
  - supporting_quote: Supporting executive statement if available
- current_state:
  - process_description: Current process (2-3 sentences)
  - cycle_time: Current timeframe
  - pain_points: Array of 3 specific problems
- future_state:
  - process_description: Improved process
  - target_cycle_time: Target timeframe
  - key_capabilities: Array of 3 required capabilities/tools
- value_quantification:
  - time_savings: Time saved per transaction
  - agreements_affected: Annual volume
  - revenue_acceleration: Revenue impact (if applicable)
  - cost_savings: Cost reduction
  - total_annual_value: Combined annual value
  - implementation_cost: Estimated cost
  - roi_percentage: ROI as percentage
  - payback_period: Payback timeframe
- metrics: Array of 2-4 mixed metrics, each {"label": ..., "value": ..., "type": "financial"|"efficiency"}. Include at least 1 financial and 1 efficiency metric.
- implementation:
  - priority: high/medium/low
  - timeline: Implementation duration
  - complexity: high/medium/low
  - dependencies: Array of prerequisites
%s- sources: Data sources
- confidence: high/medium/low

Focus on opportunities that address the pain points identified in the business functions above.

IMPORTANT: You MUST return EXACTLY 3 opportunities in your response.

Return as valid JSON with the structure {"opportunities": [...]}.`

const productFields = `- recommended_products: Array of 1-3 catalog products that address this opportunity:
  - product_name: Name from catalog
  - category: Category from catalog
  - why_recommended: 1-2 sentence explanation of fit
  - key_capabilities_used: Array of 2-3 capabilities from the product that apply
`

func (a *Agent) optimizationProducer(subject string) orchestrator.Producer {
	return func(ctx context.Context, pc orchestrator.PhaseContext) (any, error) {
		landscape, _ := pc.Deps[model.PhaseOpportunity].(*model.OpportunityPayload)
		if landscape == nil {
			return nil, eris.New("optimization analysis requires the agreement landscape")
		}

		type functionSummary struct {
			Function   string   `json:"function"`
			Systems    []string `json:"systems"`
			Agreements string   `json:"agreements"`
			PainPoints []string `json:"pain_points"`
		}
		summaries := make([]functionSummary, 0, len(landscape.Functions))
		for _, f := range landscape.Functions {
			summaries = append(summaries, functionSummary{
				Function:   f.Name,
				Systems:    f.SystemsUsed,
				Agreements: f.TotalAgreements,
				PainPoints: f.PainPoints,
			})
		}
		functionsJSON, err := json.MarshalIndent(summaries, "", "  ")
		if err != nil {
			return nil, eris.Wrap(err, "marshal function context")
		}

		companyContext := fmt.Sprintf("Company: %s\n\nBusiness Functions & Pain Points:\n%s\n%s",
			subject, string(functionsJSON), a.productContext())

		productNote := ""
		productSpec := ""
		if a.catalog != nil {
			productNote = "\nPRODUCT CONTEXT: Use the Product Catalog above to recommend specific products that address each opportunity.\n"
			productSpec = productFields
		}

		pc.Report("identifying opportunities")
		var payload model.OptimizationPayload
		prompt := fmt.Sprintf(optimizationPrompt, companyContext, productNote, productSpec)
		usage, err := a.adapter.Extract(ctx, optimizationSystem, prompt, &payload)
		pc.Stats.Usage = usage
		if err != nil {
			return nil, err
		}
		if len(payload.Opportunities) == 0 {
			return nil, eris.Wrap(orchestrator.ErrMalformedOutput, "no opportunities extracted")
		}
		return &payload, nil
	}
}

// productContext renders the top catalog products for prompt grounding.
// Empty when no catalog is loaded.
func (a *Agent) productContext() string {
	if a.catalog == nil {
		return ""
	}
	type productSummary struct {
		Name            string   `json:"name"`
		Category        string   `json:"category"`
		ValueStatement  string   `json:"value_statement"`
		KeyCapabilities []string `json:"key_capabilities"`
	}
	top := a.catalog.Top(15)
	summaries := make([]productSummary, 0, len(top))
	for _, p := range top {
		caps := p.KeyCapabilities
		if len(caps) > 3 {
			caps = caps[:3]
		}
		summaries = append(summaries, productSummary{
			Name:            p.Name,
			Category:        p.Category,
			ValueStatement:  p.ValueStatement,
			KeyCapabilities: caps,
		})
	}
	data, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("\nProduct Catalog (for recommendation context):\n")
	b.Write(data)
	b.WriteString("\n")
	return b.String()
}
