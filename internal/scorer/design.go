package scorer

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sells-group/bizintel/internal/model"
)

// Design score bonuses. Individually fixed; the sum is capped at 100.
const (
	designViewportBonus   = 25
	designStylesheetBonus = 15
	designModernCSSBonus  = 20
	designSemanticBonus   = 20
	designAltBonus        = 10
	designAriaBonus       = 10
)

// analyzeDesign extracts design signals and scores them. The grid/flex
// check runs over the lower-cased raw markup, so inline styles and
// embedded CSS count too.
func analyzeDesign(doc *goquery.Document, lowerHTML string) (model.DesignFactors, int) {
	factors := model.DesignFactors{
		HasResponsiveMeta: doc.Find("meta[name='viewport']").Length() > 0,
		CSSFilesCount:     doc.Find("link[rel~='stylesheet']").Length(),
		ModernCSS:         strings.Contains(lowerHTML, "grid") || strings.Contains(lowerHTML, "flex"),
		SemanticHTML:      doc.Find("header, nav, main").Length() > 0,
		AriaLabels:        doc.Find("[aria-label]").Length(),
	}

	// Attribute presence is enough here; alt="" still counts. The SEO
	// side treats empty alt as missing, this side does not.
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		if _, ok := s.Attr("alt"); ok {
			factors.AltTags++
		}
	})

	return factors, scoreDesign(factors)
}

func scoreDesign(f model.DesignFactors) int {
	score := 0
	if f.HasResponsiveMeta {
		score += designViewportBonus
	}
	if f.CSSFilesCount >= 1 {
		score += designStylesheetBonus
	}
	if f.ModernCSS {
		score += designModernCSSBonus
	}
	if f.SemanticHTML {
		score += designSemanticBonus
	}
	if f.AltTags >= 1 {
		score += designAltBonus
	}
	if f.AriaLabels >= 1 {
		score += designAriaBonus
	}
	return min(score, 100)
}
