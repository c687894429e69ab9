package runner

import (
	"strings"

	"github.com/aretw0/concierge/pkg/domain"
)

// MarkdownTable lays out an offer table as a GitHub-flavoured markdown table.
func MarkdownTable(table domain.OfferTable) string {
	var b strings.Builder
	if table.Title != "" {
		b.WriteString("### ")
		b.WriteString(table.Title)
		b.WriteString("\n\n")
	}

	writeRow(&b, table.Columns)
	sep := make([]string, len(table.Columns))
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(&b, sep)
	for _, row := range table.Rows {
		writeRow(&b, row)
	}
	return b.String()
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, c := range cells {
		b.WriteString(" ")
		b.WriteString(strings.ReplaceAll(c, "|", `\|`))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}
