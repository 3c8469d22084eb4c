package model

// Source tags recorded on raw search bundles.
const (
	SourceGoogleAPI      = "google_api"
	SourceCustomScraping = "custom_scraping"
)

// SearchItem is one structured search hit.
type SearchItem struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// APIResults holds the structured-search half of a raw bundle. The zero
// value marshals as an empty object, which is how a failed or unconfigured
// search is recorded.
type APIResults struct {
	Source  string       `json:"source,omitempty"`
	Results []SearchItem `json:"results,omitempty"`
}

// ScrapedResults holds the page-scrape half of a raw bundle.
type ScrapedResults struct {
	Source         string   `json:"source,omitempty"`
	BusinessName   string   `json:"business_name,omitempty"`
	SearchSnippets []string `json:"search_snippets,omitempty"`
}

// BusinessBundle is the per-business discovery output: both raw source
// halves plus the LLM-normalized record built from them. ProcessedData is
// LLM passthrough (schema by prompt contract), so it stays a map.
type BusinessBundle struct {
	APIResults     APIResults     `json:"api_results"`
	ScrapedResults ScrapedResults `json:"scraped_results"`
	ProcessedData  map[string]any `json:"processed_data"`
}

// Website returns the normalized record's website, or "" when missing or
// null. Downstream stages key off this value.
func (b *BusinessBundle) Website() string {
	if b == nil || b.ProcessedData == nil {
		return ""
	}
	if w, ok := b.ProcessedData["website"].(string); ok {
		return w
	}
	return ""
}

// DiscoveryResult is the full output of the discovery stage. The single-
// business path sets MainBusiness; the multi-business path sets
// SearchQueriesUsed, trimmed to the number of businesses found.
type DiscoveryResult struct {
	TotalFound        int              `json:"total_found"`
	RequestedCount    int              `json:"requested_count"`
	Businesses        []BusinessBundle `json:"businesses"`
	SearchQueriesUsed []string         `json:"search_queries_used,omitempty"`
	MainBusiness      *BusinessBundle  `json:"main_business,omitempty"`
}

// Primary returns the business the downstream stages analyze: the first
// discovered bundle, falling back to the single-path main business.
func (d *DiscoveryResult) Primary() *BusinessBundle {
	if d == nil {
		return nil
	}
	if len(d.Businesses) > 0 {
		return &d.Businesses[0]
	}
	return d.MainBusiness
}

// ProfileMatch is one social-network profile hit.
type ProfileMatch struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// LinkedInProfile is the social profile finder's output.
type LinkedInProfile struct {
	LinkedInProfiles  []ProfileMatch `json:"linkedin_profiles"`
	SearchQueriesUsed []string       `json:"search_queries_used"`
	TotalFound        int            `json:"total_found"`
}
