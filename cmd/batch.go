package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/bizintel/internal/model"
)

var (
	batchFile        string
	batchLimit       int
	batchConcurrency int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Analyze a batch of businesses from a YAML file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		inputs, err := loadBatchFile(batchFile)
		if err != nil {
			return err
		}

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		concurrency := batchConcurrency
		if concurrency == 0 {
			concurrency = cfg.Batch.MaxConcurrentAnalyses
		}

		return processBatch(ctx, inputs, batchLimit, concurrency, func(ctx context.Context, in model.BusinessInput) (*model.AnalysisRecord, error) {
			return env.Pipeline.Run(ctx, in)
		})
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchFile, "file", "", "YAML file of analysis requests (required)")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max number of businesses to process (0 = all)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "concurrent analyses (default from config)")
	_ = batchCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(batchCmd)
}

// batchRequest is one entry in the batch input file.
type batchRequest struct {
	BusinessName        string `yaml:"business_name"`
	BusinessCount       int    `yaml:"business_count"`
	BusinessCategory    string `yaml:"business_category"`
	BusinessSubcategory string `yaml:"business_subcategory"`
	Location            string `yaml:"location"`
	GenerateOutreach    bool   `yaml:"generate_outreach"`
}

// loadBatchFile parses the YAML request list into pipeline inputs.
func loadBatchFile(path string) ([]model.BusinessInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "read batch file")
	}

	var reqs []batchRequest
	if err := yaml.Unmarshal(data, &reqs); err != nil {
		return nil, eris.Wrap(err, "parse batch file")
	}

	inputs := make([]model.BusinessInput, 0, len(reqs))
	for _, r := range reqs {
		in := model.BusinessInput{
			BusinessName:  strings.TrimSpace(r.BusinessName),
			BusinessCount: r.BusinessCount,
		}
		if r.BusinessCategory != "" {
			c := r.BusinessCategory
			in.BusinessCategory = &c
		}
		if r.BusinessSubcategory != "" {
			s := r.BusinessSubcategory
			in.BusinessSubcategory = &s
		}
		if r.Location != "" {
			l := r.Location
			in.Location = &l
		}
		if r.GenerateOutreach {
			in.AnalysisOptions = &model.AnalysisOptions{GenerateOutreach: true}
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

// analyzeFunc is the callback signature for running one analysis.
type analyzeFunc func(ctx context.Context, in model.BusinessInput) (*model.AnalysisRecord, error)

// processBatch applies limit, then runs analyses concurrently using the given
// function. Individual failures are logged and counted, never fatal.
func processBatch(ctx context.Context, inputs []model.BusinessInput, limit, concurrency int, analyze analyzeFunc) error {
	if len(inputs) == 0 {
		zap.L().Info("no businesses in batch file")
		return nil
	}

	// Apply limit
	if limit > 0 && len(inputs) > limit {
		inputs = inputs[:limit]
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	zap.L().Info("processing batch",
		zap.Int("businesses", len(inputs)),
		zap.Int("concurrency", concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var succeeded, failed atomic.Int64

	for _, in := range inputs {
		g.Go(func() error {
			log := zap.L().With(zap.String("business_name", in.BusinessName))

			rec, err := analyze(gctx, in)
			if err != nil {
				failed.Add(1)
				log.Error("analysis failed", zap.Error(err))
				return nil // don't abort batch on individual failure
			}

			succeeded.Add(1)
			log.Info("analysis complete",
				zap.String("analysis_id", rec.AnalysisID),
				zap.Int("seo_score", rec.WebsiteAnalysis.SEOScore),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "batch processing")
	}

	zap.L().Info("batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return nil
}
