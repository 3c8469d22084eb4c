package model

// Technology categories. Every detection lands in exactly one bucket;
// CategoryOther catches technologies with no category mapping.
const (
	CategoryCMS         = "cms"
	CategoryAnalytics   = "analytics"
	CategoryAdvertising = "advertising"
	CategorySEOTools    = "seo_tools"
	CategoryAutomation  = "automation"
	CategoryHosting     = "hosting"
	CategorySecurity    = "security"
	CategoryOther       = "other"
)

// Detection methods recorded on tech stack entries.
const (
	DetectionHTML    = "html_analysis"
	DetectionHeaders = "headers"
)

// TechDetection is a single detected technology.
type TechDetection struct {
	Name            string  `json:"name"`
	Confidence      float64 `json:"confidence"`
	DetectionMethod string  `json:"detection_method"`
}

// TechStackReport groups detections by category. All category lists are
// always present (empty, not null) so the persisted shape is stable.
type TechStackReport struct {
	CMS             []TechDetection `json:"cms"`
	Analytics       []TechDetection `json:"analytics"`
	Advertising     []TechDetection `json:"advertising"`
	SEOTools        []TechDetection `json:"seo_tools"`
	Automation      []TechDetection `json:"automation"`
	Hosting         []TechDetection `json:"hosting"`
	Security        []TechDetection `json:"security"`
	Other           []TechDetection `json:"other"`
	ConfidenceScore float64         `json:"confidence_score"`
	AnalysisMethod  string          `json:"analysis_method"`
	Error           string          `json:"error,omitempty"`
}

// NewTechStackReport returns a report with every category initialized empty.
func NewTechStackReport(method string) *TechStackReport {
	return &TechStackReport{
		CMS:            []TechDetection{},
		Analytics:      []TechDetection{},
		Advertising:    []TechDetection{},
		SEOTools:       []TechDetection{},
		Automation:     []TechDetection{},
		Hosting:        []TechDetection{},
		Security:       []TechDetection{},
		Other:          []TechDetection{},
		AnalysisMethod: method,
	}
}

// bucket returns the category's list, defaulting to Other for unknown names.
func (r *TechStackReport) bucket(category string) *[]TechDetection {
	switch category {
	case CategoryCMS:
		return &r.CMS
	case CategoryAnalytics:
		return &r.Analytics
	case CategoryAdvertising:
		return &r.Advertising
	case CategorySEOTools:
		return &r.SEOTools
	case CategoryAutomation:
		return &r.Automation
	case CategoryHosting:
		return &r.Hosting
	case CategorySecurity:
		return &r.Security
	default:
		return &r.Other
	}
}

// Add appends a detection under the given category.
func (r *TechStackReport) Add(category string, d TechDetection) {
	b := r.bucket(category)
	*b = append(*b, d)
}

// Detections returns every recorded entry across all categories.
func (r *TechStackReport) Detections() []TechDetection {
	var all []TechDetection
	for _, list := range [][]TechDetection{
		r.CMS, r.Analytics, r.Advertising, r.SEOTools,
		r.Automation, r.Hosting, r.Security, r.Other,
	} {
		all = append(all, list...)
	}
	return all
}

// RecalculateConfidence sets the aggregate score to the mean of all entry
// confidences, clamped to 1.0, or 0.0 when nothing was detected.
func (r *TechStackReport) RecalculateConfidence() {
	entries := r.Detections()
	if len(entries) == 0 {
		r.ConfidenceScore = 0.0
		return
	}
	var sum float64
	for _, e := range entries {
		sum += e.Confidence
	}
	score := sum / float64(len(entries))
	if score > 1.0 {
		score = 1.0
	}
	r.ConfidenceScore = score
}
