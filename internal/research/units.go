package research

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/sells-group/account-intel/internal/model"
	"github.com/sells-group/account-intel/internal/orchestrator"
	"github.com/sells-group/account-intel/pkg/tavily"
)

const unitsSystem = "You are a business analyst specializing in organizational structure and operations. Provide detailed, realistic estimates based on company size and industry."

const unitsPrompt = `Based on the following web search results about %s, analyze their business structure and identify 2-4 major business units or divisions.

WEB SEARCH RESULTS:
%s

Using the above search results, identify the major business units or divisions:

For each business unit, provide in JSON format:
- unit_id: Unique identifier (e.g., "bu_001")
- name: Business unit name
- description: What this unit does (1-2 sentences)
- revenue_contribution: Revenue amount with $ (estimate if needed)
- revenue_percentage: Percentage of total company revenue
- agreement_volume: Estimated number of agreements (e.g., "5,000+")
- complexity_level: 1-5 scale (1=simple, 5=highly complex)
- complexity_notes: Why this complexity rating
- key_agreement_types: Array of 2-4 main agreement types with:
  - type: Agreement type name
  - volume: Estimated count
  - avg_value: Average contract value
  - avg_term: Typical contract duration
  - renewal_rate: Renewal percentage if known
- primary_counterparties: Array of who they contract with
- systems_used: Array of systems/tools for contract management (use common acronyms like CRM, ERP, CLM, CDMS, HCM, SCM, PLM, etc.)
- pain_points: Array of 2-3 likely contract/agreement challenges
- sources: Data sources
- confidence: high/medium/low

Return valid JSON with the structure {"business_units": [...]}.`

func (a *Agent) unitsProducer(subject string) orchestrator.Producer {
	return func(ctx context.Context, pc orchestrator.PhaseContext) (any, error) {
		pc.Report("searching web")
		records, err := a.adapter.Search(ctx,
			fmt.Sprintf("%s business units divisions organizational structure segments revenue breakdown", subject),
			tavily.WithSearchDepth("advanced"),
			tavily.WithMaxResults(5),
		)
		if err != nil {
			return nil, err
		}
		pc.Stats.Sources = len(records)

		pc.Report("extracting units")
		var payload model.UnitsPayload
		prompt := fmt.Sprintf(unitsPrompt, subject, formatSources(records))
		usage, err := a.adapter.Extract(ctx, unitsSystem, prompt, &payload)
		pc.Stats.Usage = usage
		if err != nil {
			return nil, err
		}
		if len(payload.Units) == 0 {
			return nil, eris.Wrap(orchestrator.ErrMalformedOutput, "no business units extracted")
		}
		return &payload, nil
	}
}
