package export

import (
	"context"
	"fmt"
	"time"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"

	"github.com/sells-group/account-intel/internal/model"
	"github.com/sells-group/account-intel/pkg/notion"
)

// statusLabels maps run statuses to the Status options in the Notion database.
var statusLabels = map[model.RunStatus]string{
	model.RunComplete:       "Complete",
	model.RunPartialSuccess: "Partial",
	model.RunFailed:         "Failed",
}

// PushToNotion upserts one row per subject into the analyses database. An
// existing page for the subject is updated in place, so repeated runs do not
// accumulate duplicates.
func PushToNotion(ctx context.Context, c notion.Client, dbID string, a *model.AnalysisResult) (string, error) {
	pageID, err := notion.FindPageBySubject(ctx, c, dbID, a.Subject)
	if err != nil {
		return "", err
	}

	props := pageProperties(a)
	if pageID != "" {
		page, err := c.UpdatePage(ctx, pageID, &notionapi.PageUpdateRequest{Properties: props})
		if err != nil {
			return "", eris.Wrapf(err, "export: update notion row for %s", a.Subject)
		}
		return string(page.ID), nil
	}

	page, err := c.CreatePage(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(dbID),
		},
		Properties: props,
	})
	if err != nil {
		return "", eris.Wrapf(err, "export: create notion row for %s", a.Subject)
	}
	return string(page.ID), nil
}

func pageProperties(a *model.AnalysisResult) notionapi.Properties {
	completed := notionapi.Date(a.CompletedAt)
	if a.CompletedAt.IsZero() {
		completed = notionapi.Date(time.Now())
	}

	props := notionapi.Properties{
		"Company": notionapi.TitleProperty{
			Title: []notionapi.RichText{richText(a.Subject)},
		},
		"Status": notionapi.StatusProperty{
			Status: notionapi.Status{Name: statusLabels[a.RunStatus]},
		},
		"Run ID": notionapi.RichTextProperty{
			RichText: []notionapi.RichText{richText(a.ID)},
		},
		"Phases Succeeded": notionapi.NumberProperty{
			Number: float64(a.SucceededCount()),
		},
		"Total Tokens": notionapi.NumberProperty{
			Number: float64(a.TotalTokens),
		},
		"Analyzed": notionapi.DateProperty{
			Date: &notionapi.DateObject{Start: &completed},
		},
	}

	if summary := headlineSummary(a); summary != "" {
		props["Summary"] = notionapi.RichTextProperty{
			RichText: []notionapi.RichText{richText(summary)},
		}
	}
	return props
}

// headlineSummary compresses the portfolio numbers into one line for the
// database row. Notion caps rich text at 2000 chars; this stays well under.
func headlineSummary(a *model.AnalysisResult) string {
	if a.Synthesis == nil {
		if f, ok := a.Failures[model.PhaseSynthesis]; ok && f != nil {
			return "Synthesis unavailable: " + truncate(f.Message, 200)
		}
		return ""
	}
	ps := a.Synthesis.PortfolioSummary
	return fmt.Sprintf("%d opportunities | %s annual value | ROI %s | payback %s",
		ps.TotalOpportunities, ps.TotalAnnualValue, ps.PortfolioROI, ps.PortfolioPayback)
}

func richText(s string) notionapi.RichText {
	return notionapi.RichText{
		Type: notionapi.ObjectTypeText,
		Text: &notionapi.Text{Content: s},
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
