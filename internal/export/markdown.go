// Package export renders completed analyses as markdown reports, XLSX
// workbooks, and Notion database rows.
package export

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/account-intel/internal/model"
)

var titleCaser = cases.Title(language.English)

// Markdown renders a full analysis report. Sections for phases that did not
// run carry their failure note instead of content.
func Markdown(a *model.AnalysisResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s Agreement Landscape\n\n", a.Subject)
	fmt.Fprintf(&b, "Run `%s` | Status: **%s** | Phases succeeded: %d/%d\n\n",
		a.ID, titleCaser.String(strings.ReplaceAll(string(a.RunStatus), "_", " ")),
		a.SucceededCount(), len(a.Phases))

	writeProfileSection(&b, a)
	writeUnitsSection(&b, a)
	writePrioritiesSection(&b, a)
	writeLandscapeSection(&b, a)
	writeOpportunitiesSection(&b, a)
	writeSynthesisSection(&b, a)
	writePhaseAppendix(&b, a)

	return b.String()
}

func writeFailureNote(b *strings.Builder, a *model.AnalysisResult, phase model.PhaseName) {
	if f, ok := a.Failures[phase]; ok && f != nil {
		fmt.Fprintf(b, "_Not available: %s_\n\n", f.Message)
		return
	}
	fmt.Fprintf(b, "_Not available._\n\n")
}

func writeProfileSection(b *strings.Builder, a *model.AnalysisResult) {
	fmt.Fprintf(b, "## Company Profile\n\n")
	p := a.Profile
	if p == nil {
		writeFailureNote(b, a, model.PhaseProfile)
		return
	}

	fmt.Fprintf(b, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(b, "| Legal Name | %s |\n", orNA(p.LegalName))
	fmt.Fprintf(b, "| Industry | %s |\n", orNA(p.Industry))
	fmt.Fprintf(b, "| Headquarters | %s |\n", orNA(p.Headquarters))
	fmt.Fprintf(b, "| Annual Revenue | %s |\n", orNA(p.Scale.AnnualRevenue))
	fmt.Fprintf(b, "| Employees | %s |\n", orNAInt(p.Scale.Employees))
	fmt.Fprintf(b, "| Locations | %s |\n", orNAInt(p.Scale.Locations))
	fmt.Fprintf(b, "| Countries | %s |\n", orNAInt(len(p.Scale.Countries)))
	fmt.Fprintf(b, "| Ownership | %s |\n", orNA(p.OwnershipStructure))
	fmt.Fprintf(b, "\n")

	if len(p.StrategicInitiatives) > 0 {
		fmt.Fprintf(b, "### Strategic Initiatives\n\n")
		for _, init := range p.StrategicInitiatives {
			fmt.Fprintf(b, "- **%s**", init.Initiative)
			if init.Timeline != "" {
				fmt.Fprintf(b, " (%s)", init.Timeline)
			}
			fmt.Fprintf(b, "\n")
		}
		fmt.Fprintf(b, "\n")
	}
}

func writeUnitsSection(b *strings.Builder, a *model.AnalysisResult) {
	fmt.Fprintf(b, "## Business Units\n\n")
	u := a.Units
	if u == nil {
		writeFailureNote(b, a, model.PhaseUnits)
		return
	}

	fmt.Fprintf(b, "| Unit | Revenue | Agreement Volume | Complexity |\n|---|---|---|---|\n")
	for _, unit := range u.Units {
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n",
			unit.Name, orNA(unit.RevenueContribution),
			orNA(unit.AgreementVolume), complexityLabel(unit.ComplexityLevel))
	}
	fmt.Fprintf(b, "\n")
}

func writePrioritiesSection(b *strings.Builder, a *model.AnalysisResult) {
	fmt.Fprintf(b, "## Strategic Priorities\n\n")
	p := a.Priorities
	if p == nil {
		writeFailureNote(b, a, model.PhasePriorities)
		return
	}

	for i, pr := range p.Priorities {
		fmt.Fprintf(b, "### %d. %s\n\n", i+1, pr.Name)
		if pr.Description != "" {
			fmt.Fprintf(b, "%s\n\n", pr.Description)
		}
		if pr.ExecutiveOwner != "" {
			fmt.Fprintf(b, "Executive owner: **%s**\n\n", pr.ExecutiveOwner)
		}
		for _, q := range pr.Quotes {
			fmt.Fprintf(b, "> \"%s\"\n>\n> — %s", q.Claim.Quote, orNA(q.Claim.Speaker))
			if q.Claim.Source != "" {
				fmt.Fprintf(b, ", %s", q.Claim.Source)
			}
			fmt.Fprintf(b, " _(confidence %.2f, %s)_\n\n", q.Confidence.Score, q.Confidence.Tier)
		}
	}
}

func writeLandscapeSection(b *strings.Builder, a *model.AnalysisResult) {
	fmt.Fprintf(b, "## Agreement Landscape by Function\n\n")
	o := a.Opportunity
	if o == nil {
		writeFailureNote(b, a, model.PhaseOpportunity)
		return
	}

	fmt.Fprintf(b, "| Function | Complexity | Total Agreements | Systems |\n|---|---|---|---|\n")
	for _, fn := range o.Functions {
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n",
			fn.Name, complexityLabel(fn.Complexity),
			orNA(fn.TotalAgreements), joinOrNA(fn.SystemsUsed))
	}
	fmt.Fprintf(b, "\n")
	if o.Summary.TotalEstimatedAgreements != "" {
		fmt.Fprintf(b, "Estimated total agreements: **%s** across %d functions.\n\n",
			o.Summary.TotalEstimatedAgreements, o.Summary.TotalFunctions)
	}
}

func writeOpportunitiesSection(b *strings.Builder, a *model.AnalysisResult) {
	fmt.Fprintf(b, "## Optimization Opportunities\n\n")
	o := a.Optimization
	if o == nil {
		writeFailureNote(b, a, model.PhaseOptimization)
		return
	}

	for i, opp := range o.Opportunities {
		name := opp.Title
		if name == "" {
			name = opp.UseCaseName
		}
		fmt.Fprintf(b, "### %d. %s\n\n", i+1, name)
		if opp.Description != "" {
			fmt.Fprintf(b, "%s\n\n", opp.Description)
		}
		fmt.Fprintf(b, "| | |\n|---|---|\n")
		fmt.Fprintf(b, "| Annual Value | %s |\n", orNA(opp.Value.TotalAnnualValue))
		fmt.Fprintf(b, "| Implementation Cost | %s |\n", orNA(opp.Value.ImplementationCost))
		fmt.Fprintf(b, "| ROI | %s |\n", orNA(opp.Value.ROIPercentage))
		fmt.Fprintf(b, "| Payback | %s |\n", orNA(opp.Value.PaybackPeriod))
		fmt.Fprintf(b, "| Priority | %s |\n", orNA(titleCaser.String(opp.Implementation.Priority)))
		fmt.Fprintf(b, "\n")
		for _, rec := range opp.RecommendedProducts {
			fmt.Fprintf(b, "- Recommended: **%s**", rec.ProductName)
			if rec.WhyRecommended != "" {
				fmt.Fprintf(b, " – %s", rec.WhyRecommended)
			}
			fmt.Fprintf(b, "\n")
		}
		if len(opp.RecommendedProducts) > 0 {
			fmt.Fprintf(b, "\n")
		}
	}
}

func writeSynthesisSection(b *strings.Builder, a *model.AnalysisResult) {
	fmt.Fprintf(b, "## Portfolio Summary\n\n")
	s := a.Synthesis
	if s == nil {
		writeFailureNote(b, a, model.PhaseSynthesis)
		return
	}

	ps := s.PortfolioSummary
	fmt.Fprintf(b, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(b, "| Opportunities | %d |\n", ps.TotalOpportunities)
	fmt.Fprintf(b, "| Total Annual Value | %s |\n", orNA(ps.TotalAnnualValue))
	fmt.Fprintf(b, "| Implementation Cost | %s |\n", orNA(ps.TotalImplementationCost))
	fmt.Fprintf(b, "| Portfolio ROI | %s |\n", orNA(ps.PortfolioROI))
	fmt.Fprintf(b, "| Payback | %s |\n", orNA(ps.PortfolioPayback))
	fmt.Fprintf(b, "\n")

	if len(s.Matrix.AgreementTypes) > 0 {
		fmt.Fprintf(b, "### Agreement Matrix\n\n")
		fmt.Fprintf(b, "| Type | Volume | Complexity | Classification |\n|---|---|---|---|\n")
		for _, e := range s.Matrix.AgreementTypes {
			fmt.Fprintf(b, "| %s | %d | %d | %s |\n", e.Type, e.Volume, e.Complexity, orNA(e.Classification))
		}
		fmt.Fprintf(b, "\n")
	}

	if len(s.PriorityMappings) > 0 {
		fmt.Fprintf(b, "### Priorities Mapped to Capabilities\n\n")
		for _, m := range s.PriorityMappings {
			fmt.Fprintf(b, "- **%s** → %s\n", m.PriorityName, m.CapabilityName)
		}
		fmt.Fprintf(b, "\n")
	}

	if len(s.KeyFindings) > 0 {
		fmt.Fprintf(b, "### Key Findings\n\n")
		for _, f := range s.KeyFindings {
			fmt.Fprintf(b, "- %s\n", f)
		}
		fmt.Fprintf(b, "\n")
	}
}

func writePhaseAppendix(b *strings.Builder, a *model.AnalysisResult) {
	fmt.Fprintf(b, "## Run Detail\n\n")
	fmt.Fprintf(b, "| Phase | State | Duration | Sources | Claims |\n|---|---|---|---|---|\n")
	for _, p := range a.Phases {
		fmt.Fprintf(b, "| %s | %s | %dms | %d | %d |\n",
			p.Name, p.State, p.Duration, p.Sources, p.Claims)
	}
	fmt.Fprintf(b, "\nTotal tokens: %d", a.TotalTokens)
	if a.TotalCost > 0 {
		fmt.Fprintf(b, " | Estimated cost: $%.2f", a.TotalCost)
	}
	fmt.Fprintf(b, "\n")
}

func complexityLabel(level int) string {
	switch {
	case level >= 4:
		return "Complex, Negotiated"
	case level > 0:
		return "Moderate Complexity"
	default:
		return "N/A"
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func orNAInt(n int) string {
	if n == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%d", n)
}

func joinOrNA(items []string) string {
	if len(items) == 0 {
		return "N/A"
	}
	return strings.Join(items, ", ")
}
