// Package techstack fingerprints the technologies behind a business
// website. Detection is substring matching over the page markup plus a
// look at the server response header; no headless browser, no external
// detection API.
package techstack

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sells-group/bizintel/internal/fetch"
	"github.com/sells-group/bizintel/internal/model"
)

const (
	fetchTimeout = 10 * time.Second

	htmlConfidence   = 0.8
	headerConfidence = 0.9
)

type signature struct {
	name     string
	patterns []string
}

// signatures is ordered so repeated runs of the same page produce an
// identical report. Matching is first-pattern-wins per technology
// against the lower-cased markup.
var signatures = []signature{
	{"wordpress", []string{"wp-content", "wp-includes", "wordpress"}},
	{"shopify", []string{"shopify", "cdn.shopify.com"}},
	{"wix", []string{"wix.com", "wixstatic.com"}},
	{"squarespace", []string{"squarespace", "sqsp.net"}},
	{"google_analytics", []string{"google-analytics.com", "gtag", "ga("}},
	{"facebook_pixel", []string{"facebook.com/tr", "fbq("}},
	{"google_ads", []string{"googleadservices.com", "google-ads"}},
	{"mailchimp", []string{"mailchimp.com", "mc.us"}},
	{"hubspot", []string{"hubspot.com", "hs-analytics"}},
	{"cloudflare", []string{"cloudflare.com", "__cfduid"}},
	{"stripe", []string{"stripe.com", "js.stripe.com"}},
	{"paypal", []string{"paypal.com", "paypalobjects.com"}},
	{"hotjar", []string{"hotjar.com", "static.hotjar.com"}},
	{"intercom", []string{"intercom.io", "widget.intercom.io"}},
}

// categoryTable maps technologies to report categories. Scanned in
// order, first hit wins; cloudflare lands in hosting even though it
// also appears under security.
var categoryTable = []struct {
	category string
	members  []string
}{
	{model.CategoryCMS, []string{"wordpress", "drupal", "joomla", "shopify", "wix", "squarespace"}},
	{model.CategoryAnalytics, []string{"google_analytics", "adobe_analytics", "mixpanel", "hotjar"}},
	{model.CategoryAdvertising, []string{"google_ads", "facebook_pixel", "bing_ads"}},
	{model.CategorySEOTools, []string{"yoast", "rankmath", "semrush"}},
	{model.CategoryAutomation, []string{"mailchimp", "hubspot", "marketo", "intercom"}},
	{model.CategoryHosting, []string{"nginx", "apache", "cloudflare"}},
	{model.CategorySecurity, []string{"ssl", "cloudflare"}},
}

func categorize(tech string) string {
	for _, row := range categoryTable {
		for _, m := range row.members {
			if m == tech {
				return row.category
			}
		}
	}
	return model.CategoryOther
}

// Fingerprinter analyzes website technology stacks.
type Fingerprinter struct {
	fetcher *fetch.Fetcher
}

// NewFingerprinter creates a Fingerprinter using the given fetcher.
func NewFingerprinter(f *fetch.Fetcher) *Fingerprinter {
	return &Fingerprinter{fetcher: f}
}

// Analyze fingerprints the site at websiteURL. Failures are recorded
// on the report's error field rather than returned; callers always get
// a usable report. The api method is a declared extension point and
// performs no detection.
func (fp *Fingerprinter) Analyze(ctx context.Context, websiteURL, method string) *model.TechStackReport {
	report := model.NewTechStackReport(method)

	if websiteURL == "" {
		report.Error = "No website URL provided"
		return report
	}

	if method == model.MethodCustom || method == model.MethodBoth {
		fp.analyzeCustom(ctx, websiteURL, report)
	}

	return report
}

func (fp *Fingerprinter) analyzeCustom(ctx context.Context, websiteURL string, report *model.TechStackReport) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	res, err := fp.fetcher.Get(ctx, websiteURL)
	if err != nil {
		report.Error = "Custom analysis failed: " + err.Error()
		return
	}
	if !res.OK() {
		report.Error = fmt.Sprintf("Custom analysis failed: HTTP %d", res.StatusCode)
		return
	}

	lower := strings.ToLower(res.Body)
	for _, sig := range signatures {
		for _, p := range sig.patterns {
			if strings.Contains(lower, p) {
				report.Add(categorize(sig.name), model.TechDetection{
					Name:            sig.name,
					Confidence:      htmlConfidence,
					DetectionMethod: model.DetectionHTML,
				})
				break
			}
		}
	}

	server := strings.ToLower(res.Header.Get("Server"))
	if strings.Contains(server, "nginx") {
		report.Add(model.CategoryHosting, model.TechDetection{
			Name:            "nginx",
			Confidence:      headerConfidence,
			DetectionMethod: model.DetectionHeaders,
		})
	} else if strings.Contains(server, "apache") {
		report.Add(model.CategoryHosting, model.TechDetection{
			Name:            "apache",
			Confidence:      headerConfidence,
			DetectionMethod: model.DetectionHeaders,
		})
	}

	report.RecalculateConfidence()
}
