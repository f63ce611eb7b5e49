package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/account-intel/internal/export"
	"github.com/sells-group/account-intel/internal/model"
	"github.com/sells-group/account-intel/internal/store"
	"github.com/sells-group/account-intel/pkg/notion"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <format> <id-or-company>",
	Short: "Export an analysis as md, xlsx, or notion",
	Long:  "Exports a stored analysis. The second argument is an analysis id, or a company name to export that company's most recent run.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		format, key := args[0], args[1]

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		a, err := resolveAnalysis(ctx, st, key)
		if err != nil {
			return err
		}

		switch format {
		case "md", "markdown":
			path := exportPath(a, exportOut, ".md")
			if err := os.WriteFile(path, []byte(export.Markdown(a)), 0o644); err != nil {
				return eris.Wrapf(err, "write %s", path)
			}
			fmt.Printf("wrote %s\n", path)
			return nil

		case "xlsx":
			path := exportPath(a, exportOut, ".xlsx")
			if err := export.WriteXLSX(a, path); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil

		case "notion":
			if cfg.Notion.Token == "" || cfg.Notion.AnalysisDB == "" {
				return eris.New("notion export requires ACCOUNTINTEL_NOTION_TOKEN and ACCOUNTINTEL_NOTION_ANALYSIS_DB")
			}
			client := notion.NewClient(cfg.Notion.Token)
			pageID, err := export.PushToNotion(ctx, client, cfg.Notion.AnalysisDB, a)
			if err != nil {
				return err
			}
			zap.L().Info("pushed to notion", zap.String("page", pageID), zap.String("subject", a.Subject))
			return nil

		default:
			return eris.Errorf("unknown export format: %s (want md, xlsx, or notion)", format)
		}
	},
}

// resolveAnalysis looks key up as an analysis id first, then as a company
// name, resolving to that company's latest run.
func resolveAnalysis(ctx context.Context, st store.Store, key string) (*model.AnalysisResult, error) {
	a, err := st.GetAnalysis(ctx, key)
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	return st.LatestBySubject(ctx, key)
}

// exportPath builds the output path, defaulting to the configured export dir
// with a slug of the subject.
func exportPath(a *model.AnalysisResult, override, ext string) string {
	if override != "" {
		return override
	}
	_ = os.MkdirAll(cfg.Export.Dir, 0o755)
	slug := strings.ToLower(strings.ReplaceAll(a.Subject, " ", "-"))
	return filepath.Join(cfg.Export.Dir, slug+ext)
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path (default <export.dir>/<company>.<ext>)")
	rootCmd.AddCommand(exportCmd)
}
