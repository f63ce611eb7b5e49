package export

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/account-intel/internal/model"
)

// WriteXLSX writes the analysis as a workbook, one sheet per section.
// Sheets for phases that did not produce output are omitted.
func WriteXLSX(a *model.AnalysisResult, path string) error {
	f := xlsx.NewFile()

	if err := addOverviewSheet(f, a); err != nil {
		return err
	}
	if a.Units != nil {
		if err := addUnitsSheet(f, a.Units); err != nil {
			return err
		}
	}
	if a.Priorities != nil {
		if err := addClaimsSheet(f, a.Priorities); err != nil {
			return err
		}
	}
	if a.Opportunity != nil {
		if err := addLandscapeSheet(f, a.Opportunity); err != nil {
			return err
		}
	}
	if a.Optimization != nil {
		if err := addOpportunitiesSheet(f, a.Optimization); err != nil {
			return err
		}
	}
	if a.Synthesis != nil {
		if err := addMatrixSheet(f, &a.Synthesis.Matrix); err != nil {
			return err
		}
	}

	return eris.Wrapf(f.Save(path), "export: save workbook %s", path)
}

func addStringRow(sheet *xlsx.Sheet, values ...string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().Value = v
	}
}

func addOverviewSheet(f *xlsx.File, a *model.AnalysisResult) error {
	sheet, err := f.AddSheet("Overview")
	if err != nil {
		return eris.Wrap(err, "export: add overview sheet")
	}

	addStringRow(sheet, "Field", "Value")
	addStringRow(sheet, "Company", a.Subject)
	addStringRow(sheet, "Run ID", a.ID)
	addStringRow(sheet, "Status", string(a.RunStatus))
	addStringRow(sheet, "Phases Succeeded", fmt.Sprintf("%d/%d", a.SucceededCount(), len(a.Phases)))
	addStringRow(sheet, "Total Tokens", fmt.Sprintf("%d", a.TotalTokens))
	if a.Profile != nil {
		addStringRow(sheet, "Industry", a.Profile.Industry)
		addStringRow(sheet, "Annual Revenue", a.Profile.Scale.AnnualRevenue)
		addStringRow(sheet, "Employees", fmt.Sprintf("%d", a.Profile.Scale.Employees))
	}
	return nil
}

func addUnitsSheet(f *xlsx.File, u *model.UnitsPayload) error {
	sheet, err := f.AddSheet("Business Units")
	if err != nil {
		return eris.Wrap(err, "export: add units sheet")
	}

	addStringRow(sheet, "Unit", "Revenue Contribution", "Agreement Volume", "Complexity", "Systems")
	for _, unit := range u.Units {
		row := sheet.AddRow()
		row.AddCell().Value = unit.Name
		row.AddCell().Value = unit.RevenueContribution
		row.AddCell().Value = unit.AgreementVolume
		row.AddCell().SetInt(unit.ComplexityLevel)
		row.AddCell().Value = joinOrNA(unit.SystemsUsed)
	}
	return nil
}

func addClaimsSheet(f *xlsx.File, p *model.PrioritiesPayload) error {
	sheet, err := f.AddSheet("Executive Quotes")
	if err != nil {
		return eris.Wrap(err, "export: add quotes sheet")
	}

	addStringRow(sheet, "Priority", "Quote", "Speaker", "Source", "Confidence", "Tier")
	for _, pr := range p.Priorities {
		for _, q := range pr.Quotes {
			row := sheet.AddRow()
			row.AddCell().Value = pr.Name
			row.AddCell().Value = q.Claim.Quote
			row.AddCell().Value = q.Claim.Speaker
			row.AddCell().Value = q.Claim.Source
			row.AddCell().SetFloat(q.Confidence.Score)
			row.AddCell().Value = string(q.Confidence.Tier)
		}
	}
	return nil
}

func addLandscapeSheet(f *xlsx.File, o *model.OpportunityPayload) error {
	sheet, err := f.AddSheet("Agreement Landscape")
	if err != nil {
		return eris.Wrap(err, "export: add landscape sheet")
	}

	addStringRow(sheet, "Function", "Total Agreements", "Complexity", "Systems", "Business Units")
	for _, fn := range o.Functions {
		row := sheet.AddRow()
		row.AddCell().Value = fn.Name
		row.AddCell().Value = fn.TotalAgreements
		row.AddCell().SetInt(fn.Complexity)
		row.AddCell().Value = joinOrNA(fn.SystemsUsed)
		row.AddCell().Value = joinOrNA(fn.BusinessUnits)
	}
	return nil
}

func addOpportunitiesSheet(f *xlsx.File, o *model.OptimizationPayload) error {
	sheet, err := f.AddSheet("Opportunities")
	if err != nil {
		return eris.Wrap(err, "export: add opportunities sheet")
	}

	addStringRow(sheet, "Title", "Function", "Annual Value", "Implementation Cost", "ROI", "Payback", "Priority")
	for _, opp := range o.Opportunities {
		row := sheet.AddRow()
		row.AddCell().Value = opp.Title
		row.AddCell().Value = opp.BusinessFunction
		row.AddCell().Value = opp.Value.TotalAnnualValue
		row.AddCell().Value = opp.Value.ImplementationCost
		row.AddCell().Value = opp.Value.ROIPercentage
		row.AddCell().Value = opp.Value.PaybackPeriod
		row.AddCell().Value = opp.Implementation.Priority
	}
	return nil
}

func addMatrixSheet(f *xlsx.File, m *model.AgreementMatrix) error {
	sheet, err := f.AddSheet("Agreement Matrix")
	if err != nil {
		return eris.Wrap(err, "export: add matrix sheet")
	}

	addStringRow(sheet, "Type", "Volume", "Complexity", "Classification", "Business Unit")
	for _, e := range m.AgreementTypes {
		row := sheet.AddRow()
		row.AddCell().Value = e.Type
		row.AddCell().SetInt(e.Volume)
		row.AddCell().SetInt(e.Complexity)
		row.AddCell().Value = e.Classification
		row.AddCell().Value = e.BusinessUnit
	}
	return nil
}
