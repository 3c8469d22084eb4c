package pipeline

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/bizintel/internal/cost"
	"github.com/sells-group/bizintel/internal/model"
	"github.com/sells-group/bizintel/pkg/google"
)

// companyProfilePath identifies LinkedIn company-page links among hits.
const companyProfilePath = "linkedin.com/company"

// socialResultCount is the page size for profile searches.
const socialResultCount = 5

// FindLinkedInProfile locates LinkedIn company pages via boolean
// site-restricted queries. Only the structured search runs here — there is
// no scrape fallback — and a failed or unconfigured search just skips that
// query. The returned query list always carries every query built, found or
// not, so callers can see what was asked.
func FindLinkedInProfile(ctx context.Context, search google.Client, costs *cost.Tracker, businessName, website string) *model.LinkedInProfile {
	queries := []string{
		fmt.Sprintf(`site:linkedin.com/company "%s"`, businessName),
		fmt.Sprintf(`site:linkedin.com "%s" company`, businessName),
		fmt.Sprintf(`%s linkedin company profile`, businessName),
	}
	if website != "" {
		queries = append(queries, fmt.Sprintf(`site:linkedin.com/company "%s"`, extractDomain(website)))
	}

	profiles := []model.ProfileMatch{}
	for _, query := range queries {
		if search == nil {
			continue
		}
		resp, err := search.CustomSearch(ctx, query, socialResultCount)
		if err != nil {
			zap.L().Warn("social: linkedin search failed", zap.String("query", query), zap.Error(err))
			continue
		}
		costs.AddSearches(1)
		for _, item := range resp.Items {
			if strings.Contains(item.Link, companyProfilePath) {
				profiles = append(profiles, model.ProfileMatch{
					URL:     item.Link,
					Title:   item.Title,
					Snippet: item.Snippet,
				})
			}
		}
	}

	return &model.LinkedInProfile{
		LinkedInProfiles:  profiles,
		SearchQueriesUsed: queries,
		TotalFound:        len(profiles),
	}
}

// extractDomain strips the scheme and path from a website URL, leaving the
// bare host for domain-restricted queries.
func extractDomain(websiteURL string) string {
	domain := strings.TrimPrefix(websiteURL, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	if i := strings.Index(domain, "/"); i >= 0 {
		domain = domain[:i]
	}
	return domain
}
