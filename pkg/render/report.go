package render

import (
	"github.com/russross/blackfriday"

	"github.com/infrazen/console/pkg/domain"
)

// ReportHTML renders a ready report's markdown body. Reports that are still
// in progress or failed have no body to render.
func ReportHTML(r domain.Report) string {
	if r.Status != domain.ReportStatusReady || r.Content == "" {
		return ""
	}
	return string(blackfriday.MarkdownCommon([]byte(r.Content)))
}
