package pipeline

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/sells-group/bizintel/internal/cost"
	"github.com/sells-group/bizintel/internal/fetch"
	"github.com/sells-group/bizintel/internal/model"
	"github.com/sells-group/bizintel/pkg/gemini"
	"github.com/sells-group/bizintel/pkg/google"
)

// serpURL is the result page scraped as the fallback/supplement source.
// A var so tests can point it at a local server.
var serpURL = "https://www.google.com/search?q="

const (
	// maxQueryVariants caps how many query strings discovery builds.
	maxQueryVariants = 5

	// maxSERPSnippets caps how many result snippets are kept per scrape.
	maxSERPSnippets = 5

	// apiResultCount is the page size requested from the structured search.
	apiResultCount = 10
)

// DiscoverBusinesses runs the discovery stage. A request for one business
// takes the direct profile-extraction path; larger counts fan the name out
// into query variants and collect one bundle per variant until the count is
// met. Every per-source failure is soft: the bundle's halves stay empty and
// the pipeline continues.
func DiscoverBusinesses(ctx context.Context, search google.Client, fetcher *fetch.Fetcher, llm gemini.Client, costs *cost.Tracker, in *model.BusinessInput) *model.DiscoveryResult {
	if in.BusinessCount > 1 {
		return discoverMultiple(ctx, search, fetcher, llm, costs, in)
	}

	bundle := extractBusinessProfile(ctx, search, fetcher, llm, costs, in.BusinessName, in.LocationText())
	return &model.DiscoveryResult{
		TotalFound:     1,
		RequestedCount: 1,
		Businesses:     []model.BusinessBundle{*bundle},
		MainBusiness:   bundle,
	}
}

func discoverMultiple(ctx context.Context, search google.Client, fetcher *fetch.Fetcher, llm gemini.Client, costs *cost.Tracker, in *model.BusinessInput) *model.DiscoveryResult {
	queries := buildSearchQueries(in.BusinessName, in.CategoryText(), in.LocationText(), in.BusinessCount)

	businesses := []model.BusinessBundle{}
	for _, query := range queries {
		bundle := extractBusinessProfile(ctx, search, fetcher, llm, costs, query, in.LocationText())
		if len(bundle.ProcessedData) == 0 {
			continue
		}
		businesses = append(businesses, *bundle)
		if len(businesses) >= in.BusinessCount {
			break
		}
	}

	return &model.DiscoveryResult{
		TotalFound:        len(businesses),
		RequestedCount:    in.BusinessCount,
		Businesses:        businesses,
		SearchQueriesUsed: queries[:len(businesses)],
	}
}

// buildSearchQueries composes up to five query variants from the name,
// category, and location. Variants that need a missing category/location
// collapse to the base query (or the plain name for the nearby variant), so
// duplicates are possible and deliberately kept.
func buildSearchQueries(name, category, location string, count int) []string {
	base := name
	if category != "" {
		base += " " + category
	}
	if location != "" {
		base += " " + location
	}

	nearby, best, services := name, base, base
	if category != "" && location != "" {
		nearby = fmt.Sprintf("%s near %s", category, location)
		best = fmt.Sprintf("best %s %s", category, location)
		services = fmt.Sprintf("%s services %s", category, location)
	}

	queries := []string{
		base,
		nearby,
		name + " competitors",
		best,
		services,
	}
	return queries[:min(count, maxQueryVariants)]
}

// extractBusinessProfile gathers raw data for one query from both sources
// (structured search when configured, result-page scrape always) and
// normalizes the combined bundle through the LLM.
func extractBusinessProfile(ctx context.Context, search google.Client, fetcher *fetch.Fetcher, llm gemini.Client, costs *cost.Tracker, query, location string) *model.BusinessBundle {
	searchQuery := fmt.Sprintf("%s %s contact email website phone", query, location)

	apiResults := model.APIResults{}
	if search != nil {
		resp, err := search.CustomSearch(ctx, searchQuery, apiResultCount)
		if err != nil {
			zap.L().Warn("discovery: structured search failed", zap.String("query", searchQuery), zap.Error(err))
		} else {
			costs.AddSearches(1)
			items := make([]model.SearchItem, 0, len(resp.Items))
			for _, it := range resp.Items {
				items = append(items, model.SearchItem(it))
			}
			apiResults = model.APIResults{Source: model.SourceGoogleAPI, Results: items}
		}
	}

	scraped := scrapeSearchSnippets(ctx, fetcher, searchQuery, query)

	return &model.BusinessBundle{
		APIResults:     apiResults,
		ScrapedResults: scraped,
		ProcessedData:  NormalizeBusinessData(ctx, llm, costs, apiResults, scraped, query),
	}
}

// scrapeSearchSnippets fetches the search engine's result page directly and
// pulls the first span of each result block. Failures leave the result empty.
func scrapeSearchSnippets(ctx context.Context, fetcher *fetch.Fetcher, searchQuery, businessName string) model.ScrapedResults {
	res, err := fetcher.Get(ctx, serpURL+url.QueryEscape(searchQuery))
	if err != nil {
		zap.L().Warn("discovery: result page scrape failed", zap.Error(err))
		return model.ScrapedResults{}
	}
	if !res.OK() {
		zap.L().Warn("discovery: result page scrape failed", zap.Int("status", res.StatusCode))
		return model.ScrapedResults{}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.Body))
	if err != nil {
		zap.L().Warn("discovery: result page parse failed", zap.Error(err))
		return model.ScrapedResults{}
	}

	scraped := model.ScrapedResults{
		Source:       model.SourceCustomScraping,
		BusinessName: businessName,
	}
	doc.Find("div.g").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= maxSERPSnippets {
			return false
		}
		if span := s.Find("span").First(); span.Length() > 0 {
			scraped.SearchSnippets = append(scraped.SearchSnippets, span.Text())
		}
		return true
	})
	return scraped
}
