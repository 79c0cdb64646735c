package render

import (
	"html"
	"regexp"
	"strings"

	"github.com/infrazen/console/pkg/domain"
)

var boldRe = regexp.MustCompile(`\*\*(.+?)\*\*`)

// AssistantHTML renders assistant-authored content: the raw text is
// HTML-escaped first, and only then the restricted markdown (bold and line
// breaks) is applied. The ordering keeps markdown substitution from ever
// touching unescaped input.
func AssistantHTML(text string) string {
	escaped := html.EscapeString(text)
	escaped = boldRe.ReplaceAllString(escaped, "<strong>$1</strong>")
	return strings.ReplaceAll(escaped, "\n", "<br>")
}

// UserHTML renders user-authored content. User text is escaped but never
// markdown-rendered.
func UserHTML(text string) string {
	return html.EscapeString(text)
}

// MessageHTML renders a message for the widget according to its role.
func MessageHTML(m domain.Message) string {
	if m.Role == domain.MessageRoleAssistant {
		return AssistantHTML(m.Content)
	}
	return UserHTML(m.Content)
}
