package export

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

var markdownParser = goldmark.New(goldmark.WithExtensions(extension.GFM)).Parser()

var blankRuns = regexp.MustCompile(`\n{3,}`)

// PlainText strips markdown markup from generator output, keeping the words,
// one line per block and a "- " prefix for list items.
func PlainText(md string) string {
	src := []byte(md)
	doc := markdownParser.Parse(text.NewReader(src))

	var b strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Text:
			if entering {
				b.Write(node.Segment.Value(src))
				if node.SoftLineBreak() || node.HardLineBreak() {
					b.WriteByte('\n')
				}
			}
		case *ast.String:
			if entering {
				b.Write(node.Value)
			}
		case *ast.AutoLink:
			if entering {
				b.Write(node.Label(src))
			}
		case *ast.RawHTML, *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if entering {
				lines := node.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					b.Write(seg.Value(src))
				}
				b.WriteByte('\n')
			}
			return ast.WalkSkipChildren, nil
		case *ast.ListItem:
			if entering {
				b.WriteString("- ")
			}
		case *ast.ThematicBreak:
			if entering {
				b.WriteByte('\n')
			}
		case *east.TableCell:
			if !entering {
				b.WriteString("  ")
			}
		case *east.TableRow, *east.TableHeader:
			if !entering {
				b.WriteByte('\n')
			}
		case *ast.Heading, *ast.Paragraph, *ast.TextBlock:
			if !entering {
				b.WriteByte('\n')
				if n.Kind() != ast.KindTextBlock {
					b.WriteByte('\n')
				}
			}
		}
		return ast.WalkContinue, nil
	})

	out := blankRuns.ReplaceAllString(b.String(), "\n\n")
	return strings.TrimSpace(out)
}
