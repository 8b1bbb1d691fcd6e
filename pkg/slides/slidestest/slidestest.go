// Package slidestest builds in-memory slide decks for tests.
package slidestest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

const header = `<?xml version="1.0" encoding="UTF-8"?>` +
	`<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"` +
	` xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">` +
	`<p:cSld><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/></p:nvGrpSpPr><p:grpSpPr/>`

const footer = `</p:spTree></p:cSld></p:sld>`

// Deck returns a .pptx archive with one slide per argument. Each string of a
// slide becomes a text shape; newlines split it into paragraphs.
func Deck(slides ...[]string) []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for i, shapes := range slides {
		w, err := zw.Create(fmt.Sprintf("ppt/slides/slide%d.xml", i+1))
		if err != nil {
			panic(err)
		}
		var b strings.Builder
		b.WriteString(header)
		for j, text := range shapes {
			fmt.Fprintf(&b, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="Text"/></p:nvSpPr><p:txBody><a:bodyPr/>`, j+2)
			for line := range strings.SplitSeq(text, "\n") {
				b.WriteString(`<a:p><a:r><a:t>`)
				xml.EscapeText(&b, []byte(line))
				b.WriteString(`</a:t></a:r></a:p>`)
			}
			b.WriteString(`</p:txBody></p:sp>`)
		}
		b.WriteString(footer)
		if _, err := w.Write([]byte(b.String())); err != nil {
			panic(err)
		}
	}

	if err := zw.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
