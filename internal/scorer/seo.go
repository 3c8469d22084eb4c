package scorer

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/sells-group/bizintel/internal/model"
)

// SEO score bonuses. Individually fixed; the sum is capped at 100.
const (
	seoTitleBonus    = 20
	seoMetaBonus     = 20
	seoSingleH1Bonus = 15
	seoH2Bonus       = 10
	seoAltBonus      = 15
	seoInternalBonus = 10
	seoSchemaBonus   = 10

	titleOptimalMin = 30
	titleOptimalMax = 60
	metaOptimalMin  = 120
	metaOptimalMax  = 160

	maxH2Tags        = 5
	internalLinksMin = 5
)

// analyzeSEO extracts on-page SEO factors from the document and scores
// them. The lower-cased markup is used only for the schema check.
func analyzeSEO(doc *goquery.Document, lowerHTML string) (*model.SEOFactors, int) {
	factors := &model.SEOFactors{
		H1Tags: []string{},
		H2Tags: []string{},
	}

	titleText := doc.Find("title").First().Text()
	titleLen := utf8.RuneCountInString(titleText)
	factors.TitleTag = &model.TitleTag{
		Content: titleText,
		Length:  titleLen,
		Optimal: titleLen >= titleOptimalMin && titleLen <= titleOptimalMax,
	}

	metaText, _ := doc.Find("meta[name='description']").First().Attr("content")
	metaLen := utf8.RuneCountInString(metaText)
	factors.MetaDescription = &model.MetaDescription{
		Content: metaText,
		Length:  metaLen,
		Optimal: metaLen >= metaOptimalMin && metaLen <= metaOptimalMax,
	}

	doc.Find("h1").Each(func(_ int, s *goquery.Selection) {
		factors.H1Tags = append(factors.H1Tags, strings.TrimSpace(s.Text()))
	})
	doc.Find("h2").Each(func(_ int, s *goquery.Selection) {
		if len(factors.H2Tags) < maxH2Tags {
			factors.H2Tags = append(factors.H2Tags, strings.TrimSpace(s.Text()))
		}
	})

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		if alt, ok := s.Attr("alt"); !ok || alt == "" {
			factors.ImagesWithoutAlt++
		}
	})

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if isExternalLink(href) {
			factors.ExternalLinks++
		} else {
			factors.InternalLinks++
		}
	})

	factors.SchemaMarkup = strings.Contains(lowerHTML, "application/ld+json")

	return factors, scoreSEO(factors)
}

// isExternalLink treats absolute http(s) links as external unless they
// point at localhost, which stays internal.
func isExternalLink(href string) bool {
	return strings.HasPrefix(href, "http") &&
		!strings.Contains(href, "localhost") &&
		!strings.Contains(href, "127.0.0.1")
}

func scoreSEO(f *model.SEOFactors) int {
	score := 0
	if f.TitleTag.Optimal {
		score += seoTitleBonus
	}
	if f.MetaDescription.Optimal {
		score += seoMetaBonus
	}
	if len(f.H1Tags) == 1 {
		score += seoSingleH1Bonus
	}
	if len(f.H2Tags) >= 1 {
		score += seoH2Bonus
	}
	if f.ImagesWithoutAlt == 0 {
		score += seoAltBonus
	}
	if f.InternalLinks > internalLinksMin {
		score += seoInternalBonus
	}
	if f.SchemaMarkup {
		score += seoSchemaBonus
	}
	return min(score, 100)
}
