package docs

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

var (
	refPattern  = regexp.MustCompile(`@(?:ref|subpage)\s+(\w+)`)
	pagePattern = regexp.MustCompile(`^@page\s+\w+\s+(.*)$`)
)

// newParser returns a parser accepting the markdown subset documents use,
// including explicit heading ids and inline HTML.
func newParser() *parser.Parser {
	return parser.NewWithExtensions(parser.CommonExtensions | parser.HeadingIDs | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock)
}

// RenderHTML converts a document to a standalone HTML page. Cross
// references become links to linkPrefix + "<Type>.html"; the remaining
// Doxygen commands are dropped.
func RenderHTML(d Document, linkPrefix string) []byte {
	md := preprocess(d.String(), linkPrefix)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags | mdhtml.CompletePage,
		Title: d.Name,
	})
	return markdown.ToHTML([]byte(md), newParser(), renderer)
}

// preprocess rewrites Doxygen commands into plain markdown.
func preprocess(md, linkPrefix string) string {
	var out []string
	for _, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		if m := pagePattern.FindStringSubmatch(trimmed); m != nil {
			out = append(out, "# "+m[1])
			continue
		}
		if strings.HasPrefix(trimmed, "@") && !refPattern.MatchString(trimmed) {
			continue
		}
		out = append(out, refPattern.ReplaceAllStringFunc(line, func(s string) string {
			name := refPattern.FindStringSubmatch(s)[1]
			return fmt.Sprintf(`<a href="%s%s.html">%s</a>`, html.EscapeString(linkPrefix), name, name)
		}))
	}
	return strings.Join(out, "\n")
}
