package lsp

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jward/qmlhover/internal/hover"
)

// Markdown renders a hover result for the client. Color results show the
// literal with its hex and rgba values; line breaks in text results are
// kept as hard breaks. Help links follow the text, sorted by title.
func Markdown(res hover.Result) string {
	var b strings.Builder
	switch res.Kind {
	case hover.Color:
		c := res.Color
		fmt.Fprintf(&b, "■ `%s`\n\n`%s` rgba(%d, %d, %d, %.2f)", res.Text, c.Hex(), c.R, c.G, c.B, float64(c.A)/255)
	case hover.Text:
		b.WriteString(strings.ReplaceAll(res.Text, "\n", "  \n"))
	}
	if res.Help != nil {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "**%s** (%s)", res.Help.Name, res.Help.Category)
		titles := make([]string, 0, len(res.Help.Links))
		for title := range res.Help.Links {
			titles = append(titles, title)
		}
		sort.Strings(titles)
		for _, title := range titles {
			fmt.Fprintf(&b, "\n- [%s](%s)", title, res.Help.Links[title])
		}
	}
	return b.String()
}
