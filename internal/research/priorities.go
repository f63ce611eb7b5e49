package research

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/sells-group/account-intel/internal/confidence"
	"github.com/sells-group/account-intel/internal/model"
	"github.com/sells-group/account-intel/internal/orchestrator"
	"github.com/sells-group/account-intel/pkg/tavily"
)

const prioritiesSystem = "You are a strategic business analyst. Analyze company information and identify top strategic priorities that drive business growth."

const prioritiesPrompt = `Based on the following web search results about %s, identify their top 3 strategic business priorities.

WEB SEARCH RESULTS:
%s

Using the above search results, analyze the company's:
- Current strategic initiatives and public announcements
- Recent earnings calls and investor presentations
- Industry trends and competitive positioning
- Business model and growth areas
- Executive leadership focus areas
- How priorities have evolved over the past 12 months

CRITICAL INSTRUCTIONS FOR EXECUTIVE QUOTES:
- Extract direct quotes from named executives (CEO, CFO, COO, etc.)
- ONLY include quotes where you can identify a verifiable source URL from the search results above
- Each quote MUST include: exact quote text, executive name/title, source name, date, and source URL
- If you cannot verify the source URL from the search results, DO NOT include the quote

For each priority, provide in JSON format:
- priority_id: Unique identifier (e.g., "priority_001")
- priority_name: Short, impactful name (2-4 words)
- priority_description: Detailed description of what the company is trying to achieve (15-25 words, specific metrics if available)
- business_impact: Why this priority matters to the business
- related_initiatives: Array of related strategic initiatives or programs
- urgency: high/medium/low
- executive_owner: Name and title of the executive who owns this priority (from search results if available)
- executive_responsibility: Brief description of why this executive owns this priority (10-15 words)
- executive_quotes: Array of direct quotes (ONLY with verified URLs from search results):
  - executive: "Name, Title" (e.g., "Jane Smith, CEO")
  - quote: Exact quote text from the source
  - source: Name of source document/interview
  - date: Date of statement (e.g., "Oct %d", "Q3 %d")
  - url: Full source URL from search results above
- evolution: How this priority has changed over past 12 months:
  - current_focus: What the priority focuses on now
  - previous_focus: What it was 12 months ago, if different
  - change_indicator: "New priority" / "Increased emphasis" / "Shifted focus" / "Consistent focus"
- sources: Array of 2-3 specific sources

Focus on priorities that would benefit from intelligent agreement management and automation.

Return ONLY valid JSON with an array of 3 priorities under the key "priorities".`

// rawQuote is the extraction shape for an executive quote before scoring.
type rawQuote struct {
	Executive string `json:"executive"`
	Quote     string `json:"quote"`
	Source    string `json:"source"`
	Date      string `json:"date"`
	URL       string `json:"url"`
}

type rawPriority struct {
	ID                      string                  `json:"priority_id"`
	Name                    string                  `json:"priority_name"`
	Description             string                  `json:"priority_description"`
	BusinessImpact          string                  `json:"business_impact"`
	RelatedInitiatives      []string                `json:"related_initiatives"`
	Urgency                 string                  `json:"urgency"`
	ExecutiveOwner          string                  `json:"executive_owner"`
	ExecutiveResponsibility string                  `json:"executive_responsibility"`
	Quotes                  []rawQuote              `json:"executive_quotes"`
	Evolution               model.PriorityEvolution `json:"evolution"`
	Sources                 []string                `json:"sources"`
}

func (a *Agent) prioritiesProducer(subject string) orchestrator.Producer {
	return func(ctx context.Context, pc orchestrator.PhaseContext) (any, error) {
		year := a.now().Year()

		pc.Report("searching executive interviews")
		execRecords, err := a.adapter.Search(ctx,
			fmt.Sprintf("%s CEO CFO interview %d %d strategy vision keynote", subject, year-1, year),
			tavily.WithSearchDepth("advanced"),
			tavily.WithMaxResults(7),
		)
		if err != nil {
			return nil, err
		}

		pc.Report("searching earnings transcripts")
		earningsRecords, err := a.adapter.Search(ctx,
			fmt.Sprintf("%s earnings call transcript Q3 Q4 %d strategic priorities initiatives", subject, year-1),
			tavily.WithSearchDepth("advanced"),
			tavily.WithMaxResults(7),
		)
		if err != nil {
			return nil, err
		}

		pc.Report("analyzing evolution")
		historicalRecords, err := a.adapter.Search(ctx,
			fmt.Sprintf("%s strategic initiatives announcements expansion %d %d", subject, year-2, year-1),
			tavily.WithSearchDepth("advanced"),
			tavily.WithMaxResults(6),
		)
		if err != nil {
			return nil, err
		}

		all := append(append(append([]model.SourceRecord{}, execRecords...), earningsRecords...), historicalRecords...)
		pc.Stats.Sources = len(all)

		combined := fmt.Sprintf(`
=== EXECUTIVE INTERVIEWS & STATEMENTS ===
%s

=== EARNINGS CALL TRANSCRIPTS ===
%s

=== HISTORICAL CONTEXT ===
%s`, formatSources(execRecords), formatSources(earningsRecords), formatSources(historicalRecords))

		pc.Report("synthesizing insights")
		var extracted struct {
			Priorities []rawPriority `json:"priorities"`
		}
		prompt := fmt.Sprintf(prioritiesPrompt, subject, combined, year-1, year-1)
		usage, err := a.adapter.Extract(ctx, prioritiesSystem, prompt, &extracted)
		pc.Stats.Usage = usage
		if err != nil {
			return nil, err
		}
		if len(extracted.Priorities) == 0 {
			return nil, eris.Wrap(orchestrator.ErrMalformedOutput, "no priorities extracted")
		}

		pc.Report("scoring quotes")
		payload := &model.PrioritiesPayload{}
		for _, rp := range extracted.Priorities {
			p := model.Priority{
				ID:                      rp.ID,
				Name:                    rp.Name,
				Description:             rp.Description,
				BusinessImpact:          rp.BusinessImpact,
				RelatedInitiatives:      rp.RelatedInitiatives,
				Urgency:                 rp.Urgency,
				ExecutiveOwner:          rp.ExecutiveOwner,
				ExecutiveResponsibility: rp.ExecutiveResponsibility,
				Evolution:               rp.Evolution,
				Sources:                 rp.Sources,
			}
			claims := make([]model.Claim, 0, len(rp.Quotes))
			for _, q := range rp.Quotes {
				claims = append(claims, model.Claim{
					Quote:     q.Quote,
					Speaker:   q.Executive,
					Source:    q.Source,
					SourceURL: q.URL,
					CitedDate: q.Date,
				})
			}
			p.Quotes = confidence.ScoreAll(claims, all, a.now())
			pc.Stats.Claims += len(p.Quotes)
			payload.Priorities = append(payload.Priorities, p)
		}
		return payload, nil
	}
}
