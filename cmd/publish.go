package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/bizintel/internal/publish"
)

var publishCmd = &cobra.Command{
	Use:   "publish <analysis-id>",
	Short: "Push an analysis summary to Notion and/or Salesforce",
	Long:  "Upserts a summary page in the configured Notion database and a Lead in Salesforce. Targets without credentials are skipped; at least one must be configured.",
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
			return eris.Wrap(err, "load analysis")
		}
		if rec == nil {
			return eris.Errorf("analysis %s not found", args[0])
		}

		sfClient, err := initSalesforce()
		if err != nil {
			return err
		}

		targets := publish.Targets{
			Notion:   initNotion(),
			NotionDB: cfg.Notion.AnalysisDB,
			SF:       sfClient,
		}

		res, err := publish.Publish(ctx, targets, rec)
		if err != nil {
			return eris.Wrap(err, "publish analysis")
		}

		zap.L().Info("analysis published",
			zap.String("analysis_id", rec.AnalysisID),
			zap.String("notion_page_id", res.NotionPageID),
			zap.String("salesforce_lead_id", res.SalesforceLeadID),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

func init() {
	rootCmd.AddCommand(publishCmd)
}
