// Package scorer grades business websites on SEO, design quality, and
// marketing instrumentation. All checks are static markup heuristics;
// there is no rendering and no external scoring API.
package scorer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/sells-group/bizintel/internal/fetch"
	"github.com/sells-group/bizintel/internal/model"
)

const fetchTimeout = 15 * time.Second

// Analyzer scores website quality from a single page fetch.
type Analyzer struct {
	fetcher *fetch.Fetcher
}

// NewAnalyzer creates an Analyzer using the given fetcher.
func NewAnalyzer(f *fetch.Fetcher) *Analyzer {
	return &Analyzer{fetcher: f}
}

// Analyze fetches the page and computes all quality scores. Failures
// land on the error field; the returned analysis always carries the
// full score shape. The google_apis method is a declared extension
// point and performs no analysis.
func (a *Analyzer) Analyze(ctx context.Context, websiteURL, method string) *model.WebsiteAnalysis {
	analysis := model.NewWebsiteAnalysis(method)

	if websiteURL == "" {
		analysis.Error = "No website URL provided"
		return analysis
	}

	if method == model.MethodCustom || method == model.MethodBoth {
		a.analyzeCustom(ctx, websiteURL, analysis)
	}

	return analysis
}

func (a *Analyzer) analyzeCustom(ctx context.Context, websiteURL string, analysis *model.WebsiteAnalysis) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	res, err := a.fetcher.Get(ctx, websiteURL)
	if err != nil {
		analysis.Error = "Analysis failed: " + err.Error()
		return
	}
	if !res.OK() {
		analysis.Error = fmt.Sprintf("Analysis failed: HTTP %d", res.StatusCode)
		return
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.Body))
	if err != nil {
		analysis.Error = "Analysis failed: " + err.Error()
		return
	}

	lower := strings.ToLower(res.Body)

	analysis.SEOFactors, analysis.SEOScore = analyzeSEO(doc, lower)

	// Design factor detail feeds logs and tests; only the score is kept.
	_, analysis.DesignQualityScore = analyzeDesign(doc, lower)

	analysis.ConversionTracking = detectConversionTracking(res.Body)
	analysis.EmailMarketing = detectEmailMarketing(lower)
	analysis.AdvertisingDetected = detectAdvertising(res.Body)
}
