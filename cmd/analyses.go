package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/bizintel/internal/model"
)

var analysesCmd = &cobra.Command{
	Use:   "analyses",
	Short: "Inspect stored business analyses",
	Long:  "Commands for listing and viewing persisted analysis records.",
}

// -- analyses list --

var analysesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored analyses",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		name, _ := cmd.Flags().GetString("name")
		limit, _ := cmd.Flags().GetInt("limit")

		records, err := st.ListAnalyses(ctx, limit)
		if err != nil {
			return eris.Wrap(err, "analyses list")
		}
		records = filterByName(records, name)

		if len(records) == 0 {
			fmt.Fprintln(os.Stderr, "No analyses found.")
			return nil
		}

		formatAnalysesList(os.Stdout, records)
		return nil
	},
}

// -- analyses show --

var analysesShowCmd = &cobra.Command{
	Use:   "show <analysis-id>",
	Short: "Show the full record of one analysis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		rec, err := st.GetAnalysis(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "analyses show")
		}
		if rec == nil {
			return eris.Errorf("analysis %s not found", args[0])
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	},
}

func init() {
	analysesListCmd.Flags().String("name", "", "filter by business name substring")
	analysesListCmd.Flags().Int("limit", 50, "max number of analyses to display")

	analysesCmd.AddCommand(analysesListCmd)
	analysesCmd.AddCommand(analysesShowCmd)
	rootCmd.AddCommand(analysesCmd)
}

// filterByName keeps records whose business name contains the given
// substring, case-insensitively. An empty filter keeps everything.
func filterByName(records []model.AnalysisRecord, name string) []model.AnalysisRecord {
	if name == "" {
		return records
	}
	needle := strings.ToLower(name)
	var out []model.AnalysisRecord
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.BusinessInput.BusinessName), needle) {
			out = append(out, r)
		}
	}
	return out
}

// formatAnalysesList writes a tabular summary of analyses to w.
func formatAnalysesList(out io.Writer, records []model.AnalysisRecord) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tBUSINESS\tWEBSITE\tSEO\tPERF\tDESIGN\tCREATED")
	_, _ = fmt.Fprintln(w, "--\t--------\t-------\t---\t----\t------\t-------")

	for _, r := range records {
		business := r.BusinessInput.BusinessName
		if len(business) > 30 {
			business = business[:27] + "..."
		}

		website := r.BusinessInfo.Website()
		if len(website) > 40 {
			website = website[:37] + "..."
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.1f\t%d\t%s\n",
			truncateID(r.AnalysisID),
			business,
			website,
			r.WebsiteAnalysis.SEOScore,
			r.WebsiteAnalysis.PerformanceScore,
			r.WebsiteAnalysis.DesignQualityScore,
			r.CreatedAt.Format(time.RFC3339),
		)
	}

	_ = w.Flush()
}

func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
