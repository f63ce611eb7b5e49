package research

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/sells-group/account-intel/internal/model"
	"github.com/sells-group/account-intel/internal/orchestrator"
	"github.com/sells-group/account-intel/pkg/tavily"
)

const profileSystem = "You are a business research analyst. Provide accurate, structured data about companies using publicly available information. Always return valid JSON."

const profilePrompt = `Based on the following web search results about %s, provide detailed information in JSON format:

WEB SEARCH RESULTS:
%s

Using the above search results, extract and structure the following information:

Required fields:
- legal_name: Official registered company name
- brand_names: Array of brand names used
- industry: Primary industry classification
- year_founded: Year established
- headquarters: City and country location
- ownership_structure: Public/Private/Family-owned/etc
- scale:
  - annual_revenue: Latest annual revenue (with $ symbol)
  - revenue_numeric: Revenue as number
  - employees: Employee count
  - locations: Number of office locations
  - countries: Countries of operation
  - customers: Customer count or description
- business_model:
  - primary_revenue_model: How the company makes money
  - key_differentiators: Array of 3-5 competitive advantages
  - customer_segments: Array of target customer types
- strategic_initiatives: Array of current strategic initiatives with:
  - initiative: Name/description
  - timeline: Expected timeframe
  - priority: high/medium/low
  - investment: Investment amount if known
  - impact_areas: Array of business areas impacted
- sources: Array of data sources used
- confidence: high/medium/low based on data availability

Return ONLY valid JSON. Use the search results and public information. If data is not available, use null.`

func (a *Agent) profileProducer(subject string) orchestrator.Producer {
	return func(ctx context.Context, pc orchestrator.PhaseContext) (any, error) {
		pc.Report("searching web")
		records, err := a.adapter.Search(ctx,
			fmt.Sprintf("%s company profile headquarters revenue employees industry business model", subject),
			tavily.WithSearchDepth("advanced"),
			tavily.WithMaxResults(5),
		)
		if err != nil {
			return nil, err
		}
		pc.Stats.Sources = len(records)

		pc.Report("extracting profile")
		var payload model.ProfilePayload
		prompt := fmt.Sprintf(profilePrompt, subject, formatSources(records))
		usage, err := a.adapter.Extract(ctx, profileSystem, prompt, &payload)
		pc.Stats.Usage = usage
		if err != nil {
			return nil, err
		}
		if payload.LegalName == "" && payload.Industry == "" {
			return nil, eris.Wrap(orchestrator.ErrMalformedOutput, "profile missing identity fields")
		}
		return &payload, nil
	}
}
