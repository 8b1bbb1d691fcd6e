package app

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/jobarch/internal/infographics"
	"github.com/JaimeStill/jobarch/internal/profiles"
	"github.com/JaimeStill/jobarch/pkg/pagination"
	"github.com/JaimeStill/jobarch/pkg/slides"
	"github.com/JaimeStill/jobarch/pkg/web"
)

type handler struct {
	ts     *web.TemplateSet
	sys    Systems
	cfg    Config
	logger *slog.Logger
}

func newHandler(ts *web.TemplateSet, sys Systems, cfg Config, logger *slog.Logger) *handler {
	return &handler{
		ts:     ts,
		sys:    sys,
		cfg:    cfg,
		logger: logger.With("module", "app"),
	}
}

func (h *handler) render(w http.ResponseWriter, status int, view web.ViewDef, data any) {
	if err := h.ts.Render(w, status, layout, view, data); err != nil {
		h.logger.Error("render failed", "view", view.Template, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// degrade logs a read failure and returns the notice shown in its place.
func (h *handler) degrade(r *http.Request, err error) Notice {
	h.logger.Warn("page data unavailable", "path", r.URL.Path, "error", err)
	return notice(err)
}

func (h *handler) home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := homePage{Families: []string{}}

	opts, err := h.sys.Profiles.Options(ctx, profiles.Path{})
	if err != nil {
		data.Notice = h.degrade(r, err)
	} else {
		data.Families = opts.Families
		if rows, err := h.sys.Profiles.Family(ctx, ""); err == nil {
			data.Profiles = len(rows)
		}
		if len(data.Families) == 0 {
			data.Empty = NoData
		}
	}

	if decks, err := h.sys.Infographics.Index(ctx); err != nil {
		h.logger.Warn("deck index unavailable", "error", err)
	} else {
		data.Decks = len(decks)
	}

	h.render(w, http.StatusOK, homeView, data)
}

func (h *handler) profiles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := profilesPage{Path: profiles.PathFromQuery(r.URL.Query())}

	opts, err := h.sys.Profiles.Options(ctx, data.Path)
	if err != nil {
		data.Notice = h.degrade(r, err)
		h.render(w, http.StatusOK, profilesView, data)
		return
	}
	data.Options = *opts
	if len(opts.Families) == 0 {
		data.Empty = NoData
		h.render(w, http.StatusOK, profilesView, data)
		return
	}

	if data.Path.Complete() {
		p, err := h.sys.Profiles.Resolve(ctx, data.Path)
		if err != nil {
			data.Notice = h.degrade(r, err)
		} else {
			data.Profile = p
		}
	}

	if data.Path != (profiles.Path{}) {
		decks, err := h.sys.Infographics.ForPath(ctx, data.Path)
		if err != nil {
			h.logger.Warn("deck lookup failed", "path", data.Path.String(), "error", err)
		}
		data.Decks = decks
	}

	h.render(w, http.StatusOK, profilesView, data)
}

func (h *handler) catalog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	schema := h.sys.Profiles.Schema()

	data := catalogPage{
		Filters: profiles.FiltersFromQuery(q),
		Sort:    q.Get("sort"),
	}
	data.Families = h.distinct(r, schema.Family)
	data.Grades = h.distinct(r, schema.Grade)
	data.CareerPaths = h.distinct(r, schema.CareerPath)

	page := pagination.PageRequestFromQuery(q, h.cfg.Pagination)
	result, err := h.sys.Profiles.List(ctx, page, data.Filters)
	if err != nil {
		data.Notice = h.degrade(r, err)
		data.Result = pagination.NewPageResult[profiles.Profile](nil, 0, page.Page, page.PageSize)
		h.render(w, http.StatusOK, catalogView, data)
		return
	}

	data.Result = *result
	if result.Total == 0 {
		data.Empty = NoRoles
	}
	if result.HasPrev() {
		data.PrevURL = h.pageURL(q, result.Page-1)
	}
	if result.HasNext() {
		data.NextURL = h.pageURL(q, result.Page+1)
	}

	h.render(w, http.StatusOK, catalogView, data)
}

func (h *handler) distinct(r *http.Request, column string) []string {
	values, err := h.sys.Profiles.Distinct(r.Context(), column, nil)
	if err != nil {
		return []string{}
	}
	return values
}

func (h *handler) pageURL(q url.Values, page int) string {
	return h.cfg.BasePath + catalogView.Route + "?" + pagination.PageLink(q, page)
}

func (h *handler) orgchart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	family := strings.TrimSpace(r.URL.Query().Get("family"))
	data := orgchartPage{
		Families: []string{},
		Family:   family,
	}

	opts, err := h.sys.Profiles.Options(ctx, profiles.Path{})
	switch {
	case err != nil:
		data.Notice = h.degrade(r, err)
	case len(opts.Families) == 0:
		data.Empty = NoData
	default:
		data.Families = opts.Families
		data.Graph = h.graph(r, family)
	}

	h.render(w, http.StatusOK, orgchartView, data)
}

// graph returns the org chart as JSON for the page to draw, or "" when it cannot be built.
func (h *handler) graph(r *http.Request, family string) string {
	g, err := h.sys.OrgChart.Graph(r.Context(), family)
	if err != nil {
		h.logger.Warn("org chart unavailable", "family", family, "error", err)
		return ""
	}
	b, err := json.Marshal(g)
	if err != nil {
		h.logger.Error("org chart encode failed", "error", err)
		return ""
	}
	return string(b)
}

func (h *handler) infographics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := infographicsPage{
		Path:    profiles.PathFromQuery(r.URL.Query()),
		APIBase: h.cfg.APIBase,
	}

	var err error
	if data.Path == (profiles.Path{}) {
		data.Decks, err = h.sys.Infographics.Index(ctx)
	} else {
		data.Decks, err = h.sys.Infographics.ForPath(ctx, data.Path)
	}
	if err != nil {
		data.Notice = h.degrade(r, err)
	}
	if len(data.Decks) == 0 && data.Empty == "" {
		data.Empty = NoDecks
	}

	h.render(w, http.StatusOK, infographicsView, data)
}

func (h *handler) preview(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.render(w, http.StatusNotFound, notFoundView, nil)
		return
	}

	a, s, err := h.sys.Infographics.Slides(r.Context(), id)
	if err != nil {
		if errors.Is(err, infographics.ErrNotFound) {
			h.render(w, http.StatusNotFound, notFoundView, nil)
			return
		}
		h.render(w, http.StatusOK, previewView, previewPage{Notice: h.degrade(r, err)})
		return
	}

	data := previewPage{
		Attachment:  *a,
		Cover:       slides.Cover(a.Name, s),
		Slides:      s,
		DownloadURL: h.cfg.APIBase + "/infographics/" + a.ID.String() + "/download",
	}
	if len(s) == 0 {
		data.Empty = "No slide text available"
	}

	h.render(w, http.StatusOK, previewView, data)
}

func (h *handler) search(w http.ResponseWriter, r *http.Request) {
	data := searchPage{Query: strings.TrimSpace(r.URL.Query().Get("q"))}

	if data.Query != "" {
		matches, err := h.sys.Profiles.Search(r.Context(), data.Query, 0)
		switch {
		case err != nil:
			data.Notice = h.degrade(r, err)
		case len(matches) == 0:
			data.Empty = NoRoles
		default:
			data.Matches = matches
		}
	}

	h.render(w, http.StatusOK, searchView, data)
}
