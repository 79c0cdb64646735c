package render

import (
	"testing"
	"time"

	"github.com/infrazen/console/pkg/domain"
)

func TestAssistantHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "привет", "привет"},
		{"bold", "сэкономьте **15%** за месяц", "сэкономьте <strong>15%</strong> за месяц"},
		{"line breaks", "строка 1\nстрока 2", "строка 1<br>строка 2"},
		{"escapes before markdown", "**<b>**", "<strong>&lt;b&gt;</strong>"},
		{"script tag", "<script>alert(1)</script>", "&lt;script&gt;alert(1)&lt;/script&gt;"},
		{"unclosed bold left alone", "half **bold", "half **bold"},
		{"two bold runs", "**a** and **b**", "<strong>a</strong> and <strong>b</strong>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AssistantHTML(tt.in); got != tt.want {
				t.Errorf("AssistantHTML(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestUserHTMLNeverRendersMarkdown(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"**not bold**", "**not bold**"},
		{"<img src=x onerror=alert(1)>", "&lt;img src=x onerror=alert(1)&gt;"},
		{`"quoted" & 'single'`, "&#34;quoted&#34; &amp; &#39;single&#39;"},
	}
	for _, tt := range tests {
		if got := UserHTML(tt.in); got != tt.want {
			t.Errorf("UserHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMessageHTMLByRole(t *testing.T) {
	now := time.Now()

	user := domain.Message{Role: domain.MessageRoleUser, Content: "**x**", Timestamp: now}
	if got := MessageHTML(user); got != "**x**" {
		t.Errorf("user message rendered markdown: %q", got)
	}

	assistant := domain.Message{Role: domain.MessageRoleAssistant, Content: "**x**", Timestamp: now}
	if got := MessageHTML(assistant); got != "<strong>x</strong>" {
		t.Errorf("assistant message not rendered: %q", got)
	}

	system := domain.Message{Role: domain.MessageRoleSystem, Content: "<err>", Timestamp: now}
	if got := MessageHTML(system); got != "&lt;err&gt;" {
		t.Errorf("system message not escaped: %q", got)
	}
}
