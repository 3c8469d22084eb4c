// Package model defines the request, stage-output, and persisted record types
// shared by the pipeline, store, and HTTP server.
package model

// Analysis method values accepted by AnalysisOptions.
const (
	MethodAPI        = "api"
	MethodCustom     = "custom"
	MethodBoth       = "both"
	MethodGoogleAPIs = "google_apis"
)

// maxBusinessCount caps how many businesses a single analysis will discover.
const maxBusinessCount = 5

// AnalysisOptions selects which detection branches run and whether an
// outreach draft is generated.
type AnalysisOptions struct {
	TechStackMethod       string `json:"tech_stack_method"`
	WebsiteAnalysisMethod string `json:"website_analysis_method"`
	GenerateOutreach      bool   `json:"generate_outreach"`
}

// Normalize fills unset method fields with their defaults. Unknown method
// values are kept as-is; stages treat them as "no branch executes".
func (o *AnalysisOptions) Normalize() {
	if o.TechStackMethod == "" {
		o.TechStackMethod = MethodBoth
	}
	if o.WebsiteAnalysisMethod == "" {
		o.WebsiteAnalysisMethod = MethodBoth
	}
}

// BusinessInput is the analysis request body. Optional fields marshal as
// null when absent, matching the persisted record shape.
type BusinessInput struct {
	BusinessName        string           `json:"business_name"`
	BusinessCount       int              `json:"business_count"`
	BusinessCategory    *string          `json:"business_category"`
	BusinessSubcategory *string          `json:"business_subcategory"`
	Location            *string          `json:"location"`
	AnalysisOptions     *AnalysisOptions `json:"analysis_options"`
}

// Normalize clamps the requested count to [1, 5] and installs default
// analysis options when none were supplied.
func (in *BusinessInput) Normalize() {
	if in.BusinessCount < 1 {
		in.BusinessCount = 1
	}
	if in.BusinessCount > maxBusinessCount {
		in.BusinessCount = maxBusinessCount
	}
	if in.AnalysisOptions == nil {
		in.AnalysisOptions = &AnalysisOptions{}
	}
	in.AnalysisOptions.Normalize()
}

// CategoryText returns the category or "" when absent.
func (in *BusinessInput) CategoryText() string {
	if in.BusinessCategory == nil {
		return ""
	}
	return *in.BusinessCategory
}

// LocationText returns the location or "" when absent.
func (in *BusinessInput) LocationText() string {
	if in.Location == nil {
		return ""
	}
	return *in.Location
}
