package infographics

import "strings"

var separators = strings.NewReplacer("_", " ", "-", " ")

// Normalize lower-cases s, turns underscores and hyphens into spaces and
// collapses runs of whitespace. Stems and segments share this form so
// "Senior_Engineer" matches "senior engineer".
func Normalize(s string) string {
	return strings.Join(strings.Fields(separators.Replace(strings.ToLower(s))), " ")
}

// Match keeps the files whose normalized stem contains any non-empty normalized
// segment. Order follows files. The test is deliberately loose: a short family
// name can match unrelated decks and naming mismatches yield no matches.
func Match(files []Attachment, segments ...string) []Attachment {
	terms := make([]string, 0, len(segments))
	for _, s := range segments {
		if n := Normalize(s); n != "" {
			terms = append(terms, n)
		}
	}

	out := []Attachment{}
	if len(terms) == 0 {
		return out
	}

	for _, f := range files {
		stem := Normalize(f.Stem)
		for _, term := range terms {
			if strings.Contains(stem, term) {
				out = append(out, f)
				break
			}
		}
	}
	return out
}
