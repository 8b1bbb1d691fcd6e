package app

import (
	"errors"
	"strings"

	"github.com/JaimeStill/jobarch/internal/infographics"
	"github.com/JaimeStill/jobarch/internal/profiles"
	"github.com/JaimeStill/jobarch/pkg/pagination"
	"github.com/JaimeStill/jobarch/pkg/slides"
	"github.com/JaimeStill/jobarch/pkg/table"
)

// Empty state messages.
const (
	NoData  = "No data available"
	NoRoles = "No roles found"
	NoDecks = "No decks found"
)

// Notice is shown above a page body when data could not be read.
type Notice struct {
	Empty   string
	Warning string
}

// notice turns a read error into an empty state and, for anything other than a
// missing spreadsheet, a visible warning.
func notice(err error) Notice {
	var le *table.LoadError
	switch {
	case errors.Is(err, table.ErrFileNotFound):
		return Notice{Empty: NoData}
	case errors.As(err, &le) && len(le.Missing) > 0:
		return Notice{Empty: NoRoles, Warning: "Missing columns: " + strings.Join(le.Missing, ", ")}
	case errors.Is(err, profiles.ErrNotFound):
		return Notice{Empty: NoRoles}
	}
	return Notice{Empty: NoData, Warning: err.Error()}
}

type homePage struct {
	Notice
	Families []string
	Profiles int
	Decks    int
}

type profilesPage struct {
	Notice
	Path    profiles.Path
	Options profiles.Options
	Profile *profiles.Profile
	Decks   []infographics.Attachment
}

type catalogPage struct {
	Notice
	Filters     profiles.Filters
	Sort        string
	Families    []string
	Grades      []string
	CareerPaths []string
	Result      pagination.PageResult[profiles.Profile]
	PrevURL     string
	NextURL     string
}

type orgchartPage struct {
	Notice
	Families []string
	Family   string
	Graph    string
}

type infographicsPage struct {
	Notice
	Path    profiles.Path
	Decks   []infographics.Attachment
	APIBase string
}

type previewPage struct {
	Notice
	Attachment  infographics.Attachment
	Cover       slides.Slide
	Slides      []slides.Slide
	DownloadURL string
}

type searchPage struct {
	Notice
	Query   string
	Matches []profiles.Match
}
