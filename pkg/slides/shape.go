package slides

import (
	"strings"

	"github.com/antchfx/xmlquery"
)

// Shape is one top-level element of a slide's shape tree.
type Shape interface {
	Kind() string
}

// TextFrame is implemented by shapes that carry a text body.
type TextFrame interface {
	Shape
	Text() string
}

type textShape struct {
	kind string
	text string
}

func (s textShape) Kind() string { return s.kind }
func (s textShape) Text() string { return s.text }

type opaqueShape struct {
	kind string
}

func (s opaqueShape) Kind() string { return s.kind }

// parseShapes returns the shapes of a slide document in tree order.
func parseShapes(doc *xmlquery.Node) []Shape {
	tree := xmlquery.FindOne(doc, "//*[local-name()='cSld']/*[local-name()='spTree']")
	if tree == nil {
		return nil
	}

	var shapes []Shape
	for n := tree.FirstChild; n != nil; n = n.NextSibling {
		if n.Type != xmlquery.ElementNode {
			continue
		}

		kind := localName(n)
		switch kind {
		case "nvGrpSpPr", "grpSpPr", "extLst":
			continue
		case "sp":
			if body := child(n, "txBody"); body != nil {
				shapes = append(shapes, textShape{kind: kind, text: bodyText(body)})
				continue
			}
		}
		shapes = append(shapes, opaqueShape{kind: kind})
	}
	return shapes
}

// bodyText joins paragraphs with newlines; each paragraph is the concatenation of its runs.
func bodyText(body *xmlquery.Node) string {
	var paragraphs []string
	for p := body.FirstChild; p != nil; p = p.NextSibling {
		if p.Type != xmlquery.ElementNode || localName(p) != "p" {
			continue
		}

		var b strings.Builder
		for r := p.FirstChild; r != nil; r = r.NextSibling {
			if r.Type != xmlquery.ElementNode {
				continue
			}
			switch localName(r) {
			case "r", "fld":
				if t := child(r, "t"); t != nil {
					b.WriteString(t.InnerText())
				}
			case "br":
				b.WriteString("\n")
			}
		}
		paragraphs = append(paragraphs, b.String())
	}
	return strings.Join(paragraphs, "\n")
}

func child(n *xmlquery.Node, local string) *xmlquery.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && localName(c) == local {
			return c
		}
	}
	return nil
}

func localName(n *xmlquery.Node) string {
	if i := strings.LastIndex(n.Data, ":"); i >= 0 {
		return n.Data[i+1:]
	}
	return n.Data
}
