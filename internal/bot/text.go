package bot

import (
	"html"
	"strings"

	"github.com/desmitry/urfu-teamfinder/internal/db"
)

// accountCard renders a profile as HTML: bold name, optional description,
// bold comma-joined tag titles.
func accountCard(account *db.Account) string {
	var b strings.Builder
	b.WriteString("<b>" + html.EscapeString(account.FullName) + "</b>")
	if account.Description != "" {
		b.WriteString("\n\n")
		b.WriteString(html.EscapeString(account.Description))
	}
	if len(account.Tags) > 0 {
		titles := make([]string, 0, len(account.Tags))
		for _, tag := range account.Tags {
			titles = append(titles, html.EscapeString(tag.Title))
		}
		b.WriteString("\n\n<b>" + strings.Join(titles, ", ") + "</b>")
	}
	return b.String()
}
