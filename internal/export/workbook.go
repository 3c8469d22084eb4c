// Package export renders stored analyses as an XLSX workbook and optionally
// delivers the file to an FTP drop.
package export

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/bizintel/internal/model"
)

// sheetName is the single worksheet holding one row per analysis.
const sheetName = "Analyses"

var headerRow = []string{
	"Analysis ID", "Business", "Website", "Category", "Location",
	"SEO Score", "Performance", "Design Quality", "Tech Confidence",
	"LinkedIn Profiles", "Analyzed At",
}

// BuildWorkbook renders the records as a single-sheet workbook with one
// summary row per analysis.
func BuildWorkbook(records []model.AnalysisRecord) (*xlsx.File, error) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	if err != nil {
		return nil, eris.Wrap(err, "export: add sheet")
	}

	hdr := sheet.AddRow()
	for _, h := range headerRow {
		hdr.AddCell().SetString(h)
	}

	for i := range records {
		appendRecord(sheet, &records[i])
	}

	return f, nil
}

func appendRecord(sheet *xlsx.Sheet, rec *model.AnalysisRecord) {
	row := sheet.AddRow()
	row.AddCell().SetString(rec.AnalysisID)
	row.AddCell().SetString(rec.BusinessInput.BusinessName)
	row.AddCell().SetString(rec.BusinessInfo.Website())
	row.AddCell().SetString(deref(rec.BusinessInput.BusinessCategory))
	row.AddCell().SetString(deref(rec.BusinessInput.Location))
	row.AddCell().SetInt(rec.WebsiteAnalysis.SEOScore)
	row.AddCell().SetFloat(rec.WebsiteAnalysis.PerformanceScore)
	row.AddCell().SetInt(rec.WebsiteAnalysis.DesignQualityScore)
	row.AddCell().SetFloat(rec.TechStack.ConfidenceScore)
	row.AddCell().SetInt(rec.LinkedInProfile.TotalFound)
	row.AddCell().SetString(rec.CreatedAt.Format(time.RFC3339))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
