// Package cards renders profiles, search matches and slides as HTML fragments.
// Every spreadsheet or deck derived string passes through html/template
// contextual escaping here.
package cards

import (
	"embed"
	"html/template"
	"strings"

	"github.com/JaimeStill/jobarch/internal/profiles"
	"github.com/JaimeStill/jobarch/pkg/formatting"
	"github.com/JaimeStill/jobarch/pkg/slides"
)

//go:embed templates/*.html
var templateFS embed.FS

var tmpl = template.Must(
	template.New("cards").
		Funcs(template.FuncMap{"paragraphs": Paragraphs}).
		ParseFS(templateFS, "templates/*.html"),
)

type profileCard struct {
	profiles.Profile
	Score string
}

// Profile renders the role card of p.
func Profile(p profiles.Profile) template.HTML {
	return render("profile", profileCard{Profile: p})
}

// Match renders the role card of p with the search score shown beside the grade.
func Match(p profiles.Profile, score float64) template.HTML {
	return render("profile", profileCard{Profile: p, Score: formatting.Percent(score)})
}

// Slide renders one extracted slide.
func Slide(s slides.Slide) template.HTML {
	return render("slide", s)
}

// Paragraphs splits text on line breaks, dropping blank lines.
func Paragraphs(text string) []string {
	var out []string
	for line := range strings.SplitSeq(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Funcs exposes the card renderers to page templates.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"profileCard": Profile,
		"matchCard":   Match,
		"slideCard":   Slide,
		"paragraphs":  Paragraphs,
	}
}

func render(name string, data any) template.HTML {
	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return template.HTML(`<div class="card card-error">` + template.HTMLEscapeString(err.Error()) + `</div>`)
	}
	return template.HTML(b.String())
}
