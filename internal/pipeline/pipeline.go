// Package pipeline runs the business analysis: discovery, normalization,
// social profile lookup, technology fingerprinting, website quality scoring,
// intelligence synthesis, and optional outreach drafting, assembled into one
// persisted record.
//
// Stages run sequentially and never abort the run: every external failure
// (search, fetch, model call, parse) degrades that stage's slice of the
// record and the pipeline moves on. The only fatal errors are an invalid
// request and a failed persist.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/bizintel/internal/config"
	"github.com/sells-group/bizintel/internal/cost"
	"github.com/sells-group/bizintel/internal/fetch"
	"github.com/sells-group/bizintel/internal/model"
	"github.com/sells-group/bizintel/internal/scorer"
	"github.com/sells-group/bizintel/internal/store"
	"github.com/sells-group/bizintel/internal/techstack"
	"github.com/sells-group/bizintel/pkg/gemini"
	"github.com/sells-group/bizintel/pkg/google"
)

// Pipeline holds the stage dependencies for running analyses. The search and
// llm clients may be nil when their credentials are not configured; the
// stages then record the corresponding degraded results.
type Pipeline struct {
	cfg     *config.Config
	store   store.Store
	search  google.Client
	llm     gemini.Client
	fetcher *fetch.Fetcher
	tech    *techstack.Fingerprinter
	quality *scorer.Analyzer
	calc    *cost.Calculator
}

// New creates a Pipeline with all dependencies.
func New(cfg *config.Config, st store.Store, searchClient google.Client, llmClient gemini.Client, fetcher *fetch.Fetcher) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		store:   st,
		search:  searchClient,
		llm:     llmClient,
		fetcher: fetcher,
		tech:    techstack.NewFingerprinter(fetcher),
		quality: scorer.NewAnalyzer(fetcher),
		calc:    cost.NewCalculator(pricingRates(cfg.Pricing)),
	}
}

// pricingRates converts configured pricing into calculator rates. Each
// section falls back to the built-in defaults independently, so a config
// that prices only one provider does not zero out the other.
func pricingRates(p config.PricingConfig) cost.Rates {
	rates := cost.DefaultRates()
	if len(p.Gemini) > 0 {
		rates.Gemini = make(map[string]cost.ModelRate, len(p.Gemini))
		for name, mp := range p.Gemini {
			rates.Gemini[name] = cost.ModelRate{Input: mp.Input, Output: mp.Output}
		}
	}
	if p.Search.PerThousand > 0 {
		rates.Search = cost.SearchRate{PerThousand: p.Search.PerThousand}
	}
	return rates
}

// Run executes the full analysis for one request and persists the record.
func (p *Pipeline) Run(ctx context.Context, in model.BusinessInput) (*model.AnalysisRecord, error) {
	if strings.TrimSpace(in.BusinessName) == "" {
		return nil, eris.New("pipeline: business_name is required")
	}
	in.Normalize()
	opts := *in.AnalysisOptions

	analysisID := uuid.New().String()
	log := zap.L().With(
		zap.String("analysis_id", analysisID),
		zap.String("business_name", in.BusinessName),
	)
	log.Info("pipeline: starting analysis",
		zap.Int("business_count", in.BusinessCount),
		zap.String("tech_stack_method", opts.TechStackMethod),
		zap.String("website_analysis_method", opts.WebsiteAnalysisMethod),
		zap.Bool("generate_outreach", opts.GenerateOutreach),
	)

	costs := cost.NewTracker(p.calc)
	started := time.Now()

	log.Info("pipeline: extracting business data")
	discovery := DiscoverBusinesses(ctx, p.search, p.fetcher, p.llm, costs, &in)
	primary := discovery.Primary()

	log.Info("pipeline: discovering linkedin profile")
	linkedin := model.LinkedInProfile{}
	if primary != nil && len(primary.ProcessedData) > 0 {
		linkedin = *FindLinkedInProfile(ctx, p.search, costs, in.BusinessName, primary.Website())
	}

	website := primary.Website()

	log.Info("pipeline: analyzing technology stack", zap.String("website", website))
	tech := p.tech.Analyze(ctx, website, opts.TechStackMethod)

	log.Info("pipeline: analyzing website quality", zap.String("website", website))
	quality := p.quality.Analyze(ctx, website, opts.WebsiteAnalysisMethod)

	log.Info("pipeline: analyzing business intent and signals")
	var processedData map[string]any
	if primary != nil {
		processedData = primary.ProcessedData
	}
	intelligence := SynthesizeIntelligence(ctx, p.llm, costs, processedData, quality)

	outreach := model.OutreachPlaceholder()
	if opts.GenerateOutreach {
		log.Info("pipeline: generating personalized outreach")
		outreach = GenerateOutreach(ctx, p.llm, costs, intelligence, in.BusinessName)
	}

	rec := &model.AnalysisRecord{
		AnalysisID:           analysisID,
		BusinessInput:        in,
		BusinessInfo:         primary,
		AllBusinesses:        *discovery,
		LinkedInProfile:      linkedin,
		TechStack:            *tech,
		WebsiteAnalysis:      *quality,
		BusinessIntelligence: intelligence,
		OutreachMessage:      outreach,
		AnalysisOptions:      opts,
		CreatedAt:            time.Now().UTC(),
		ProcessingTime:       model.ProcessingCompleted,
	}

	if err := p.store.InsertAnalysis(ctx, rec); err != nil {
		return nil, eris.Wrap(err, "pipeline: persist analysis")
	}

	sum := costs.Summary()
	log.Info("pipeline: analysis completed",
		zap.Duration("elapsed", time.Since(started)),
		zap.Int("llm_calls", sum.LLMCalls),
		zap.Int("input_tokens", sum.InputTokens),
		zap.Int("output_tokens", sum.OutputTokens),
		zap.Int("search_queries", sum.SearchQueries),
		zap.Float64("estimated_cost_usd", sum.TotalUSD),
	)

	return rec, nil
}
