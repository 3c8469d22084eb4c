// Package publish pushes stored analysis records to external systems: a
// Notion database page and a Salesforce Lead. Targets are independent and
// optional; each is skipped when its client is not configured.
package publish

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/bizintel/internal/model"
	"github.com/sells-group/bizintel/pkg/notion"
	"github.com/sells-group/bizintel/pkg/salesforce"
)

// Result holds the outcome of publishing one analysis.
type Result struct {
	NotionPageID      string `json:"notion_page_id,omitempty"`
	NotionCreated     bool   `json:"notion_created,omitempty"`
	SalesforceLeadID  string `json:"salesforce_lead_id,omitempty"`
	SalesforceCreated bool   `json:"salesforce_created,omitempty"`
}

// Targets bundles the destination clients. A nil client (or empty Notion
// database ID) disables that target.
type Targets struct {
	Notion   notion.Client
	NotionDB string
	SF       salesforce.Client
}

// Configured reports whether at least one target would receive the record.
func (t Targets) Configured() bool {
	return (t.Notion != nil && t.NotionDB != "") || t.SF != nil
}

// Publish upserts the record into every configured target. The targets are
// independent, so they run concurrently; a failure in one does not stop the
// other, and the partial Result is returned alongside the error.
func Publish(ctx context.Context, targets Targets, rec *model.AnalysisRecord) (*Result, error) {
	if rec == nil {
		return nil, eris.New("publish: nil record")
	}
	if !targets.Configured() {
		return nil, eris.New("publish: no targets configured")
	}

	res := &Result{}
	g, gCtx := errgroup.WithContext(ctx)

	if targets.Notion != nil && targets.NotionDB != "" {
		g.Go(func() error {
			pageID, created, err := upsertNotionPage(gCtx, targets.Notion, targets.NotionDB, rec)
			if err != nil {
				zap.L().Error("publish: notion upsert failed",
					zap.String("analysis_id", rec.AnalysisID),
					zap.Error(err),
				)
				return err
			}
			res.NotionPageID = pageID
			res.NotionCreated = created
			return nil
		})
	}

	if targets.SF != nil {
		g.Go(func() error {
			leadID, created, err := upsertLead(gCtx, targets.SF, rec)
			if err != nil {
				zap.L().Error("publish: salesforce upsert failed",
					zap.String("analysis_id", rec.AnalysisID),
					zap.Error(err),
				)
				return err
			}
			res.SalesforceLeadID = leadID
			res.SalesforceCreated = created
			return nil
		})
	}

	err := g.Wait()
	return res, err
}

// upsertNotionPage finds the page carrying this analysis ID and updates it,
// or creates a fresh page in the database when none exists.
func upsertNotionPage(ctx context.Context, client notion.Client, dbID string, rec *model.AnalysisRecord) (string, bool, error) {
	existing, err := findAnalysisPage(ctx, client, dbID, rec.AnalysisID)
	if err != nil {
		return "", false, err
	}

	props := notionProperties(rec)

	if existing != "" {
		if _, err := client.UpdatePage(ctx, existing, &notionapi.PageUpdateRequest{Properties: props}); err != nil {
			return "", false, eris.Wrap(err, fmt.Sprintf("publish: update notion page %s", existing))
		}
		return existing, false, nil
	}

	page, err := client.CreatePage(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(dbID),
		},
		Properties: props,
	})
	if err != nil {
		return "", false, eris.Wrap(err, "publish: create notion page")
	}
	return string(page.ID), true, nil
}

// findAnalysisPage looks up the database page whose Analysis ID property
// matches the given ID. Returns "" when no page matches.
func findAnalysisPage(ctx context.Context, client notion.Client, dbID, analysisID string) (string, error) {
	resp, err := client.QueryDatabase(ctx, dbID, &notionapi.DatabaseQueryRequest{
		Filter: notionapi.PropertyFilter{
			Property: "Analysis ID",
			RichText: &notionapi.TextFilterCondition{
				Equals: analysisID,
			},
		},
		PageSize: 1,
	})
	if err != nil {
		return "", eris.Wrap(err, "publish: find analysis page")
	}
	if len(resp.Results) == 0 {
		return "", nil
	}
	return string(resp.Results[0].ID), nil
}

// notionProperties maps an analysis record onto the summary database schema.
func notionProperties(rec *model.AnalysisRecord) notionapi.Properties {
	analyzed := notionapi.Date(rec.CreatedAt)

	props := notionapi.Properties{
		"Name": notionapi.TitleProperty{
			Title: []notionapi.RichText{
				{Text: &notionapi.Text{Content: rec.BusinessInput.BusinessName}},
			},
		},
		"Analysis ID": notionapi.RichTextProperty{
			RichText: []notionapi.RichText{
				{Text: &notionapi.Text{Content: rec.AnalysisID}},
			},
		},
		"SEO Score": notionapi.NumberProperty{
			Number: float64(rec.WebsiteAnalysis.SEOScore),
		},
		"Performance Score": notionapi.NumberProperty{
			Number: rec.WebsiteAnalysis.PerformanceScore,
		},
		"Design Score": notionapi.NumberProperty{
			Number: float64(rec.WebsiteAnalysis.DesignQualityScore),
		},
		"Tech Confidence": notionapi.NumberProperty{
			Number: rec.TechStack.ConfidenceScore,
		},
		"Status": notionapi.StatusProperty{
			Status: notionapi.Status{Name: "Analyzed"},
		},
		"Analyzed At": notionapi.DateProperty{
			Date: &notionapi.DateObject{Start: &analyzed},
		},
	}

	if website := rec.BusinessInfo.Website(); website != "" {
		props["Website"] = notionapi.URLProperty{URL: website}
	}

	return props
}

// upsertLead matches an existing Lead by website, falling back to company
// name, and updates it; otherwise a new Lead is created.
func upsertLead(ctx context.Context, client salesforce.Client, rec *model.AnalysisRecord) (string, bool, error) {
	var existing *salesforce.Lead
	var err error

	if website := rec.BusinessInfo.Website(); website != "" {
		existing, err = salesforce.FindLeadByWebsite(ctx, client, website)
		if err != nil {
			return "", false, err
		}
	}
	if existing == nil {
		existing, err = salesforce.FindLeadByCompany(ctx, client, rec.BusinessInput.BusinessName)
		if err != nil {
			return "", false, err
		}
	}

	fields := leadFields(rec)

	if existing != nil {
		if err := salesforce.UpdateLead(ctx, client, existing.ID, fields); err != nil {
			return "", false, err
		}
		return existing.ID, false, nil
	}

	// Lead creation requires a LastName; analyses carry no contact person.
	fields["LastName"] = "Unknown"
	fields["LeadSource"] = "Business Intelligence"

	id, err := salesforce.CreateLead(ctx, client, fields)
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

// leadFields maps an analysis record onto Lead fields. Identity fields that
// would clobber manually curated values (LastName, LeadSource) are added
// only on create.
func leadFields(rec *model.AnalysisRecord) map[string]any {
	fields := map[string]any{
		"Company": rec.BusinessInput.BusinessName,
		"Description": fmt.Sprintf(
			"Automated analysis %s: SEO %d/100, performance %.1f/100, design quality %d/100.",
			rec.AnalysisID,
			rec.WebsiteAnalysis.SEOScore,
			rec.WebsiteAnalysis.PerformanceScore,
			rec.WebsiteAnalysis.DesignQualityScore,
		),
	}

	if website := rec.BusinessInfo.Website(); website != "" {
		fields["Website"] = website
	}
	if rec.BusinessInfo != nil {
		if phone, ok := rec.BusinessInfo.ProcessedData["phone"].(string); ok && phone != "" {
			fields["Phone"] = phone
		}
		if email, ok := rec.BusinessInfo.ProcessedData["email"].(string); ok && email != "" {
			fields["Email"] = email
		}
	}
	if cat := rec.BusinessInput.BusinessCategory; cat != nil && *cat != "" {
		fields["Industry"] = *cat
	}

	return fields
}
