package model

import "time"

// OutreachNotRequested is the placeholder stored when the caller did not
// ask for an outreach draft. Callers expect exactly this object, never an
// empty one or null.
const OutreachNotRequested = "Outreach generation was not requested"

// ProcessingCompleted is the terminal processing_time marker on records.
const ProcessingCompleted = "completed"

// AnalysisRecord is the persisted aggregate of one pipeline run. It is
// written exactly once and never mutated; there is no update or delete.
type AnalysisRecord struct {
	AnalysisID           string           `json:"analysis_id"`
	BusinessInput        BusinessInput    `json:"business_input"`
	BusinessInfo         *BusinessBundle  `json:"business_info"`
	AllBusinesses        DiscoveryResult  `json:"all_businesses"`
	LinkedInProfile      LinkedInProfile  `json:"linkedin_profile"`
	TechStack            TechStackReport  `json:"tech_stack"`
	WebsiteAnalysis      WebsiteAnalysis  `json:"website_analysis"`
	BusinessIntelligence map[string]any   `json:"business_intelligence"`
	OutreachMessage      map[string]any   `json:"outreach_message"`
	AnalysisOptions      AnalysisOptions  `json:"analysis_options"`
	CreatedAt            time.Time        `json:"created_at"`
	ProcessingTime       string           `json:"processing_time"`
}

// OutreachPlaceholder builds the not-requested outreach marker.
func OutreachPlaceholder() map[string]any {
	return map[string]any{"note": OutreachNotRequested}
}
