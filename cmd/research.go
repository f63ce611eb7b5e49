package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/account-intel/internal/model"
	"github.com/sells-group/account-intel/internal/orchestrator"
)

var researchJSON bool

var researchCmd = &cobra.Command{
	Use:   "research <company>",
	Short: "Run the full research pipeline for a company",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		subject := strings.Join(args, " ")

		env, err := initResearch(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		obs := orchestrator.ObserverFunc(func(phase model.PhaseName, stage string) {
			fmt.Fprintf(os.Stderr, "  [%s] %s\n", phase, stage)
		})

		result, err := env.Agent.Run(ctx, subject, obs)
		if err != nil {
			return eris.Wrap(err, "research run")
		}

		if err := env.Store.SaveAnalysis(ctx, result); err != nil {
			return eris.Wrap(err, "save analysis")
		}

		zap.L().Info("research complete",
			zap.String("subject", subject),
			zap.String("id", result.ID),
			zap.String("status", string(result.RunStatus)),
			zap.Int("phases_succeeded", result.SucceededCount()),
			zap.Int64("total_tokens", result.TotalTokens),
			zap.Float64("cost_usd", result.TotalCost),
		)

		if researchJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		printRunSummary(result)
		return nil
	},
}

func printRunSummary(result *model.AnalysisResult) {
	fmt.Printf("\n%s — %s (%d/%d phases)\n", result.Subject, result.RunStatus,
		result.SucceededCount(), len(result.Phases))
	for _, p := range result.Phases {
		marker := "+"
		if p.State != model.PhaseSucceeded {
			marker = "x"
		}
		fmt.Printf("  %s %-22s %6dms", marker, p.Name, p.Duration)
		if p.Failure != nil {
			fmt.Printf("  %s", p.Failure.Message)
		}
		fmt.Println()
	}
	fmt.Printf("\nSaved as %s\n", result.ID)
}

func init() {
	researchCmd.Flags().BoolVar(&researchJSON, "json", false, "print full result JSON to stdout")
	rootCmd.AddCommand(researchCmd)
}
