// Package orgchart builds the three-level family tree of the job architecture
// as a node and edge graph.
package orgchart

import (
	"fmt"
	"strings"

	"github.com/JaimeStill/jobarch/internal/profiles"
)

// Separator joins the levels of a composite node ID.
const Separator = "\x1f"

// Node levels.
const (
	LevelFamily    = 0
	LevelSubFamily = 1
	LevelProfile   = 2
)

var groups = [...]string{"family", "sub_family", "profile"}

// Node is one family, sub-family or profile in the graph.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Level int    `json:"level"`
	Group string `json:"group"`
	Title string `json:"title,omitempty"`
}

// Edge joins a parent node to a child.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph is a forest rooted at job families. Edges only join a node to its parent.
type Graph struct {
	Family string `json:"family,omitempty"`
	Nodes  []Node `json:"nodes"`
	Edges  []Edge `json:"edges"`
}

// NodeID returns the composite ID of the node at the depth of the given levels.
func NodeID(levels ...string) string {
	return strings.Join(levels, Separator)
}

// Build creates one node per distinct family, family and sub-family pair, and
// family, sub-family and profile triple. A non-empty selectedFamily restricts the
// graph to that family's subtree. Rows without a family are skipped and a blank
// sub-family attaches its profiles directly to the family.
func Build(rows []profiles.Profile, selectedFamily string) Graph {
	g := Graph{
		Family: selectedFamily,
		Nodes:  []Node{},
		Edges:  []Edge{},
	}
	seen := make(map[string]bool)

	add := func(parent string, n Node) {
		if seen[n.ID] {
			return
		}
		seen[n.ID] = true
		g.Nodes = append(g.Nodes, n)
		if parent != "" {
			g.Edges = append(g.Edges, Edge{From: parent, To: n.ID})
		}
	}

	for _, p := range rows {
		if p.JobFamily == "" {
			continue
		}
		if selectedFamily != "" && p.JobFamily != selectedFamily {
			continue
		}

		parent := NodeID(p.JobFamily)
		add("", Node{ID: parent, Label: p.JobFamily, Level: LevelFamily, Group: groups[LevelFamily]})

		if p.SubJobFamily != "" {
			id := NodeID(p.JobFamily, p.SubJobFamily)
			add(parent, Node{ID: id, Label: p.SubJobFamily, Level: LevelSubFamily, Group: groups[LevelSubFamily]})
			parent = id
		}

		if p.JobProfile != "" {
			add(parent, Node{
				ID:    NodeID(p.JobFamily, p.SubJobFamily, p.JobProfile),
				Label: p.JobProfile,
				Level: LevelProfile,
				Group: groups[LevelProfile],
				Title: tooltip(p),
			})
		}
	}
	return g
}

// Families lists the family labels of the graph in order.
func (g Graph) Families() []string {
	var out []string
	for _, n := range g.Nodes {
		if n.Level == LevelFamily {
			out = append(out, n.Label)
		}
	}
	return out
}

// DOT renders the graph in the Graphviz language.
func (g Graph) DOT() string {
	ids := make(map[string]string, len(g.Nodes))

	var b strings.Builder
	b.WriteString("digraph orgchart {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box, style=rounded];\n")
	for i, n := range g.Nodes {
		ids[n.ID] = fmt.Sprintf("n%d", i)
		fmt.Fprintf(&b, "  %s [label=%s, group=%s];\n", ids[n.ID], quote(n.Label), n.Group)
	}
	for _, e := range g.Edges {
		fmt.Fprintf(&b, "  %s -> %s;\n", ids[e.From], ids[e.To])
	}
	b.WriteString("}\n")
	return b.String()
}

func tooltip(p profiles.Profile) string {
	var parts []string
	if p.GlobalGrade != "" {
		parts = append(parts, "Grade "+p.GlobalGrade)
	}
	if p.CareerPath != "" {
		parts = append(parts, p.CareerPath)
	}
	if p.FullJobCode != "" {
		parts = append(parts, p.FullJobCode)
	}
	return strings.Join(parts, " | ")
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

func quote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}
