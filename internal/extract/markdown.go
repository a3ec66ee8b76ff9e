package extract

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// Fenced block tags that carry structured data.
const (
	TagJSON      = "json"
	TagItinerary = "itinerary"
	TagLocation  = "location"
)

// StructuredBlock is the raw body of a tagged fenced code block.
type StructuredBlock struct {
	Tag string `json:"tag"`
	Raw string `json:"raw"`
}

// Blocks is everything ParseBlocks found in a message, in document order.
type Blocks struct {
	Tables     []TableRows       `json:"tables"`
	Structured []StructuredBlock `json:"structured"`
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// ParseBlocks scans assistant prose for GFM tables and for fenced blocks
// tagged json, itinerary or location. It only parses; nothing is rendered.
func ParseBlocks(src string) Blocks {
	source := []byte(src)
	doc := markdown.Parser().Parse(text.NewReader(source))

	out := Blocks{Tables: []TableRows{}, Structured: []StructuredBlock{}}
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *east.Table:
			out.Tables = append(out.Tables, tableRows(node, source))
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock:
			tag := strings.ToLower(string(node.Language(source)))
			switch tag {
			case TagJSON, TagItinerary, TagLocation:
				out.Structured = append(out.Structured, StructuredBlock{
					Tag: tag,
					Raw: blockBody(node, source),
				})
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return out
}

func tableRows(table *east.Table, source []byte) TableRows {
	var rows TableRows
	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		switch row.(type) {
		case *east.TableHeader, *east.TableRow:
		default:
			continue
		}
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			if _, ok := cell.(*east.TableCell); !ok {
				continue
			}
			cells = append(cells, strings.TrimSpace(inlineText(cell, source)))
		}
		rows = append(rows, cells)
	}
	return rows
}

// inlineText concatenates the literal text under n. Link destinations and
// emphasis delimiters are already gone at this point; only their text remains.
func inlineText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := c.(type) {
		case *ast.Text:
			buf.Write(v.Segment.Value(source))
			if v.SoftLineBreak() || v.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(v.Value)
		case *ast.AutoLink:
			buf.Write(v.Label(source))
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func blockBody(n *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return strings.TrimRight(buf.String(), "\n")
}

// RenderTable writes rows as a GFM table. The first row is the header.
func RenderTable(rows TableRows) string {
	if len(rows) == 0 {
		return ""
	}
	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteString("|")
		for _, c := range cells {
			b.WriteString(" ")
			b.WriteString(strings.ReplaceAll(c, "|", `\|`))
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}

	writeRow(rows[0])
	sep := make([]string, len(rows[0]))
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(sep)
	for _, r := range rows[1:] {
		writeRow(r)
	}
	return b.String()
}
