package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/account-intel/internal/model"
	"github.com/sells-group/account-intel/internal/store"
)

var (
	listStatus  string
	listSubject string
	listLimit   int
	claimsLimit int
)

var analysesCmd = &cobra.Command{
	Use:   "analyses",
	Short: "Inspect stored analyses",
}

var analysesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored analyses, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		summaries, err := st.ListAnalyses(ctx, store.AnalysisFilter{
			Status:  model.RunStatus(listStatus),
			Subject: listSubject,
			Limit:   listLimit,
		})
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCOMPANY\tSTATUS\tPHASES\tTOKENS\tCREATED")
		for _, s := range summaries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
				s.ID, s.Subject, s.Status, s.Succeeded, s.TotalTokens,
				s.CreatedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

var analysesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one analysis as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		a, err := st.GetAnalysis(ctx, args[0])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	},
}

var analysesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an analysis and its claims",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.DeleteAnalysis(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("deleted %s\n", args[0])
		return nil
	},
}

var analysesClaimsCmd = &cobra.Command{
	Use:   "claims",
	Short: "Show the highest-confidence executive claims across all analyses",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		claims, err := st.TopClaims(ctx, claimsLimit)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SCORE\tTIER\tCOMPANY\tSPEAKER\tQUOTE")
		for _, c := range claims {
			quote := c.Quote
			if len(quote) > 80 {
				quote = quote[:77] + "..."
			}
			fmt.Fprintf(w, "%.2f\t%s\t%s\t%s\t%s\n", c.Score, c.Tier, c.Subject, c.Speaker, quote)
		}
		return w.Flush()
	},
}

var analysesStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the stored corpus",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		stats, err := st.Stats(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("analyses: %d\nclaims:   %d\n", stats.TotalAnalyses, stats.TotalClaims)
		for status, n := range stats.ByStatus {
			fmt.Printf("  %-16s %d\n", status, n)
		}
		return nil
	},
}

func init() {
	analysesListCmd.Flags().StringVar(&listStatus, "status", "", "filter by run status")
	analysesListCmd.Flags().StringVar(&listSubject, "subject", "", "filter by company name substring")
	analysesListCmd.Flags().IntVar(&listLimit, "limit", 25, "max rows")
	analysesClaimsCmd.Flags().IntVar(&claimsLimit, "limit", 20, "max claims")

	analysesCmd.AddCommand(analysesListCmd, analysesShowCmd, analysesDeleteCmd, analysesClaimsCmd, analysesStatsCmd)
	rootCmd.AddCommand(analysesCmd)
}
