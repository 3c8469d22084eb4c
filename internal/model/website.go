package model

// TitleTag describes the page title and whether its length is in the
// optimal range [30, 60].
type TitleTag struct {
	Content string `json:"content"`
	Length  int    `json:"length"`
	Optimal bool   `json:"optimal"`
}

// MetaDescription describes the meta description and whether its length is
// in the optimal range [120, 160].
type MetaDescription struct {
	Content string `json:"content"`
	Length  int    `json:"length"`
	Optimal bool   `json:"optimal"`
}

// SEOFactors holds the markup signals behind the SEO score. It is embedded
// in WebsiteAnalysis and left nil when the page was never fetched, so its
// keys only appear in the record after a successful fetch.
type SEOFactors struct {
	TitleTag         *TitleTag        `json:"title_tag"`
	MetaDescription  *MetaDescription `json:"meta_description"`
	H1Tags           []string         `json:"h1_tags"`
	H2Tags           []string         `json:"h2_tags"`
	ImagesWithoutAlt int              `json:"images_without_alt"`
	InternalLinks    int              `json:"internal_links"`
	ExternalLinks    int              `json:"external_links"`
	SchemaMarkup     bool             `json:"schema_markup"`
}

// DesignFactors holds the signals behind the design quality score. Only the
// score itself is persisted; the factors feed logs and tests.
type DesignFactors struct {
	HasResponsiveMeta bool
	CSSFilesCount     int
	JSFilesCount      int
	InlineStyles      int
	ModernCSS         bool
	AltTags           int
	AriaLabels        int
	SemanticHTML      bool
}

// ConversionTracking reports which tracking tools the page embeds.
type ConversionTracking struct {
	GoogleAnalytics         bool `json:"google_analytics"`
	FacebookPixel           bool `json:"facebook_pixel"`
	GoogleAdsConversion     bool `json:"google_ads_conversion"`
	Hotjar                  bool `json:"hotjar"`
	Mixpanel                bool `json:"mixpanel"`
	Amplitude               bool `json:"amplitude"`
	TotalTrackingTools      int  `json:"total_tracking_tools"`
	ConversionTrackingScore int  `json:"conversion_tracking_score"`
}

// EmailMarketing reports detected email automation tools.
type EmailMarketing struct {
	ToolsDetected        []string `json:"tools_detected"`
	TotalTools           int      `json:"total_tools"`
	EmailAutomationScore int      `json:"email_automation_score"`
}

// AdvertisingDetected reports detected advertising platforms.
type AdvertisingDetected struct {
	ActivePlatforms          []string `json:"active_platforms"`
	TotalPlatforms           int      `json:"total_platforms"`
	AdvertisingPresenceScore int      `json:"advertising_presence_score"`
}

// WebsiteAnalysis is the website quality analyzer's output. Scores are
// always present; the embedded SEO factor detail appears only when the page
// was fetched. PerformanceScore has no wired implementation and stays 0.
type WebsiteAnalysis struct {
	*SEOFactors
	SEOScore            int                 `json:"seo_score"`
	PerformanceScore    float64             `json:"performance_score"`
	DesignQualityScore  int                 `json:"design_quality_score"`
	ConversionTracking  ConversionTracking  `json:"conversion_tracking"`
	EmailMarketing      EmailMarketing      `json:"email_marketing"`
	AdvertisingDetected AdvertisingDetected `json:"advertising_detected"`
	Recommendations     []string            `json:"recommendations"`
	AnalysisMethod      string              `json:"analysis_method"`
	Error               string              `json:"error,omitempty"`
}

// NewWebsiteAnalysis returns an analysis with stable empty collections.
func NewWebsiteAnalysis(method string) *WebsiteAnalysis {
	return &WebsiteAnalysis{
		EmailMarketing:      EmailMarketing{ToolsDetected: []string{}},
		AdvertisingDetected: AdvertisingDetected{ActivePlatforms: []string{}},
		Recommendations:     []string{},
		AnalysisMethod:      method,
	}
}
