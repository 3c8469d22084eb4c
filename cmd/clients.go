package main

import (
	"context"
	"net/http"
	"os"
	"time"

	gosf "github.com/k-capehart/go-salesforce/v3"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/bizintel/internal/fetch"
	"github.com/sells-group/bizintel/internal/pipeline"
	"github.com/sells-group/bizintel/internal/store"
	"github.com/sells-group/bizintel/pkg/gemini"
	"github.com/sells-group/bizintel/pkg/google"
	"github.com/sells-group/bizintel/pkg/notion"
	sfpkg "github.com/sells-group/bizintel/pkg/salesforce"
)

// pipelineEnv holds the store, API clients, and the assembled pipeline used
// by the serve/analyze/batch commands.
type pipelineEnv struct {
	Store    store.Store
	Pipeline *pipeline.Pipeline
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "bizintel.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initSearch builds the Custom Search client. Missing credentials yield a
// nil client; discovery then degrades to SERP scraping and the LinkedIn
// stage reports zero matches.
func initSearch() google.Client {
	if !cfg.Google.Configured() {
		zap.L().Debug("google custom search not configured, structured search disabled")
		return nil
	}

	opts := []google.Option{}
	if cfg.Google.BaseURL != "" {
		opts = append(opts, google.WithBaseURL(cfg.Google.BaseURL))
	}
	if secs := cfg.Pipeline.SearchTimeoutSecs; secs > 0 {
		opts = append(opts, google.WithHTTPClient(&http.Client{Timeout: time.Duration(secs) * time.Second}))
	}
	zap.L().Info("google custom search enabled")
	return google.NewClient(cfg.Google.APIKey, cfg.Google.SearchEngineID, opts...)
}

// initGemini builds the Gemini client. A missing key yields a nil client;
// LLM stages then record their degraded error payloads.
func initGemini() gemini.Client {
	if !cfg.Gemini.Configured() {
		zap.L().Debug("gemini not configured, AI stages will report degraded results")
		return nil
	}

	opts := []gemini.Option{}
	if cfg.Gemini.Model != "" {
		opts = append(opts, gemini.WithModel(cfg.Gemini.Model))
	}
	if cfg.Gemini.BaseURL != "" {
		opts = append(opts, gemini.WithBaseURL(cfg.Gemini.BaseURL))
	}
	if secs := cfg.Pipeline.LLMTimeoutSecs; secs > 0 {
		opts = append(opts, gemini.WithHTTPClient(&http.Client{Timeout: time.Duration(secs) * time.Second}))
	}
	zap.L().Info("gemini enabled", zap.String("model", cfg.Gemini.Model))
	return gemini.NewClient(cfg.Gemini.APIKey, opts...)
}

// initPipeline sets up the store and API clients and builds the analysis
// pipeline. Callers should defer env.Close().
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	fetcher := fetch.New(fetch.Options{
		UserAgent:  cfg.Fetch.UserAgent,
		PerHostRPS: cfg.Fetch.PerHostRPS,
	})

	p := pipeline.New(cfg, st, initSearch(), initGemini(), fetcher)

	return &pipelineEnv{Store: st, Pipeline: p}, nil
}

// initNotion returns nil when no integration token is configured.
func initNotion() notion.Client {
	if cfg.Notion.Token == "" {
		return nil
	}
	return notion.NewClient(cfg.Notion.Token)
}

// initSalesforce returns nil when the JWT client ID is absent; publishing
// treats a nil client as a disabled target.
func initSalesforce() (sfpkg.Client, error) {
	if cfg.Salesforce.ClientID == "" {
		return nil, nil
	}

	pemData, err := os.ReadFile(cfg.Salesforce.KeyPath)
	if err != nil {
		return nil, eris.Wrap(err, "read salesforce JWT private key")
	}

	sf, err := gosf.Init(gosf.Creds{
		Domain:         cfg.Salesforce.LoginURL,
		Username:       cfg.Salesforce.Username,
		ConsumerKey:    cfg.Salesforce.ClientID,
		ConsumerRSAPem: string(pemData),
	})
	if err != nil {
		return nil, eris.Wrap(err, "init salesforce")
	}

	return sfpkg.NewClient(sf), nil
}
