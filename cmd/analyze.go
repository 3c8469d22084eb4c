package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/bizintel/internal/model"
)

var (
	analyzeName        string
	analyzeCount       int
	analyzeCategory    string
	analyzeSubcategory string
	analyzeLocation    string
	analyzeOutreach    bool
	analyzeTechMethod  string
	analyzeSiteMethod  string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run one business analysis and print the record",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		in := model.BusinessInput{
			BusinessName:  analyzeName,
			BusinessCount: analyzeCount,
			AnalysisOptions: &model.AnalysisOptions{
				TechStackMethod:       analyzeTechMethod,
				WebsiteAnalysisMethod: analyzeSiteMethod,
				GenerateOutreach:      analyzeOutreach,
			},
		}
		if analyzeCategory != "" {
			in.BusinessCategory = &analyzeCategory
		}
		if analyzeSubcategory != "" {
			in.BusinessSubcategory = &analyzeSubcategory
		}
		if analyzeLocation != "" {
			in.Location = &analyzeLocation
		}

		rec, err := env.Pipeline.Run(ctx, in)
		if err != nil {
			return eris.Wrap(err, "analysis run")
		}

		zap.L().Info("analysis complete",
			zap.String("analysis_id", rec.AnalysisID),
			zap.Int("seo_score", rec.WebsiteAnalysis.SEOScore),
			zap.Float64("performance_score", rec.WebsiteAnalysis.PerformanceScore),
			zap.Int("design_score", rec.WebsiteAnalysis.DesignQualityScore),
		)

		// Print the full record JSON to stdout
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeName, "name", "", "business name (required)")
	analyzeCmd.Flags().IntVar(&analyzeCount, "count", 1, "number of businesses to discover (1-5)")
	analyzeCmd.Flags().StringVar(&analyzeCategory, "category", "", "business category")
	analyzeCmd.Flags().StringVar(&analyzeSubcategory, "subcategory", "", "business subcategory")
	analyzeCmd.Flags().StringVar(&analyzeLocation, "location", "", "business location")
	analyzeCmd.Flags().BoolVar(&analyzeOutreach, "outreach", false, "generate a personalized outreach draft")
	analyzeCmd.Flags().StringVar(&analyzeTechMethod, "tech-method", model.MethodBoth, "tech stack method (api|custom|both)")
	analyzeCmd.Flags().StringVar(&analyzeSiteMethod, "website-method", model.MethodBoth, "website analysis method (custom|google_apis|both)")
	_ = analyzeCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(analyzeCmd)
}
