// Package slides extracts per-slide title and body text from presentation (.pptx) files.
//
// Within a slide, the first shape with non-empty text is the title and every later
// non-empty shape text forms the body, separated by a blank line. Shapes without a text
// frame (pictures, groups, connectors, graphic frames) are skipped.
package slides

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
)

var (
	// ErrInvalidPresentation indicates the file is not a readable presentation package.
	ErrInvalidPresentation = errors.New("invalid presentation")

	errPartNotFound = errors.New("part not found")
)

var slidePattern = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// Slide is the text content of one slide.
type Slide struct {
	Index int    `json:"index"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// ExtractFile reads the presentation at path.
func ExtractFile(p string) ([]Slide, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return Extract(f, info.Size())
}

// Extract reads a presentation package of the given size.
func Extract(r io.ReaderAt, size int64) ([]Slide, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPresentation, err)
	}

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	order := slideOrder(files)
	if len(order) == 0 {
		return nil, fmt.Errorf("%w: no slides", ErrInvalidPresentation)
	}

	result := make([]Slide, 0, len(order))
	for i, name := range order {
		doc, err := parse(files[name])
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPresentation, name, err)
		}
		s := compose(parseShapes(doc))
		s.Index = i + 1
		result = append(result, s)
	}
	return result, nil
}

// Cover returns the first slide, or a slide titled name with an empty body when
// there are none.
func Cover(name string, slides []Slide) Slide {
	if len(slides) == 0 {
		return Slide{Index: 1, Title: name}
	}
	return slides[0]
}

func compose(shapes []Shape) Slide {
	var (
		s     Slide
		parts []string
	)
	for _, sh := range shapes {
		tf, ok := sh.(TextFrame)
		if !ok {
			continue
		}
		text := strings.TrimSpace(tf.Text())
		if text == "" {
			continue
		}
		if s.Title == "" {
			s.Title = text
			continue
		}
		parts = append(parts, text)
	}
	s.Body = strings.Join(parts, "\n\n")
	return s
}

// slideOrder lists slide part names in presentation order. The sldIdLst of
// presentation.xml is authoritative; numeric file order is the fallback.
func slideOrder(files map[string]*zip.File) []string {
	if order := presentationOrder(files); len(order) > 0 {
		return order
	}

	type numbered struct {
		n    int
		name string
	}
	var found []numbered
	for name := range files {
		if m := slidePattern.FindStringSubmatch(name); m != nil {
			n, _ := strconv.Atoi(m[1])
			found = append(found, numbered{n: n, name: name})
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].n < found[j].n })

	order := make([]string, len(found))
	for i, f := range found {
		order[i] = f.name
	}
	return order
}

func presentationOrder(files map[string]*zip.File) []string {
	pres, err := parse(files["ppt/presentation.xml"])
	if err != nil {
		return nil
	}
	rels, err := parse(files["ppt/_rels/presentation.xml.rels"])
	if err != nil {
		return nil
	}

	targets := make(map[string]string)
	for _, rel := range xmlquery.Find(rels, "//*[local-name()='Relationship']") {
		id, target := rel.SelectAttr("Id"), rel.SelectAttr("Target")
		if id == "" || target == "" {
			continue
		}
		if strings.HasPrefix(target, "/") {
			targets[id] = strings.TrimPrefix(target, "/")
		} else {
			targets[id] = path.Clean(path.Join("ppt", target))
		}
	}

	var order []string
	for _, sld := range xmlquery.Find(pres, "//*[local-name()='sldIdLst']/*[local-name()='sldId']") {
		target, ok := targets[relationshipID(sld)]
		if !ok {
			continue
		}
		if _, ok := files[target]; ok {
			order = append(order, target)
		}
	}
	return order
}

// relationshipID returns the namespaced id attribute (r:id) of a slide reference.
func relationshipID(n *xmlquery.Node) string {
	for _, a := range n.Attr {
		if a.Name.Local == "id" && (a.Name.Space != "" || a.NamespaceURI != "") {
			return a.Value
		}
	}
	return ""
}

func parse(f *zip.File) (*xmlquery.Node, error) {
	if f == nil {
		return nil, errPartNotFound
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return xmlquery.Parse(rc)
}
