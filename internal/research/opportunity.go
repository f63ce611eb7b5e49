package research

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/sells-group/account-intel/internal/model"
	"github.com/sells-group/account-intel/internal/orchestrator"
)

const opportunitySystem = "You are a contract management expert specializing in organizational analysis. Map agreements to business functions based on typical company structures and the company profile provided."

const opportunityPrompt = `Analyze %s's agreement/contract landscape organized by BUSINESS FUNCTION.

Company Context:
%s

Based on the company profile above, identify AT LEAST 5 major BUSINESS FUNCTIONS (minimum 5, maximum 8). Common functions include: Sales, Marketing, Procurement, HR, Legal, IT, Operations, Finance, Customer Success. Map agreements to each function.

For EACH business function, provide in JSON format:
- function_name: Name of the business function (e.g., "Sales", "Procurement")
- description: 1-2 sentence description of what this function does
- business_units: Array of business unit names that belong to this function
- systems_used: Array of systems/tools this function uses for agreements (use common acronyms like CRM, ERP, CLM, CDMS, HCM, SCM, PLM, etc.)
- agreement_types: Array of 3-5 key agreement types with:
  - type: Agreement type name (e.g., "Customer Master Service Agreement")
  - volume: Estimated count (e.g., "2,000+")
  - avg_value: Average contract value if applicable
  - avg_term: Typical contract duration
  - managed_in: Which system(s) manage this agreement type
  - renewal_pattern: "quarterly"/"annual"/"multi-year"/"evergreen"
- total_agreements: Total agreement count for this function
- complexity: Complexity rating (1-5, where 5 is most complex)
- pain_points: Array of 2-3 typical challenges for this function

Also include a summary:
- total_estimated_agreements: Total across all functions
- total_functions: Count of functions

Return as valid JSON with structure:
{
  "functions": [...array of function objects...],
  "summary": {...}
}`

func (a *Agent) opportunityProducer(subject string) orchestrator.Producer {
	return func(ctx context.Context, pc orchestrator.PhaseContext) (any, error) {
		profile, _ := pc.Deps[model.PhaseProfile].(*model.ProfilePayload)
		if profile == nil {
			return nil, eris.New("opportunity analysis requires the company profile")
		}

		profileContext, err := json.MarshalIndent(map[string]any{
			"industry":              profile.Industry,
			"annual_revenue":        profile.Scale.AnnualRevenue,
			"employees":             profile.Scale.Employees,
			"ownership":             profile.OwnershipStructure,
			"business_model":        profile.BusinessModel,
			"strategic_initiatives": profile.StrategicInitiatives,
		}, "", "  ")
		if err != nil {
			return nil, eris.Wrap(err, "marshal profile context")
		}

		pc.Report("mapping agreement landscape")
		var payload model.OpportunityPayload
		prompt := fmt.Sprintf(opportunityPrompt, subject, string(profileContext))
		usage, err := a.adapter.Extract(ctx, opportunitySystem, prompt, &payload)
		pc.Stats.Usage = usage
		if err != nil {
			return nil, err
		}
		if len(payload.Functions) == 0 {
			return nil, eris.Wrap(orchestrator.ErrMalformedOutput, "no business functions extracted")
		}
		if payload.Summary.TotalFunctions == 0 {
			payload.Summary.TotalFunctions = len(payload.Functions)
		}
		return &payload, nil
	}
}
