package profiles

import (
	"log/slog"
	"net/http"
	"sort"
	"strconv"

	"github.com/JaimeStill/jobarch/pkg/handlers"
	"github.com/JaimeStill/jobarch/pkg/openapi"
	"github.com/JaimeStill/jobarch/pkg/pagination"
	"github.com/JaimeStill/jobarch/pkg/routes"
	"github.com/JaimeStill/jobarch/pkg/table"
)

// Handler provides HTTP endpoints for taxonomy operations.
type Handler struct {
	sys         System
	logger      *slog.Logger
	pagination  pagination.Config
	searchLimit int
}

// NewHandler creates a Handler with the given system, logger, pagination config, and search limit.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
	searchLimit int,
) *Handler {
	return &Handler{
		sys:         sys,
		logger:      logger.With("handler", "profiles"),
		pagination:  pagination,
		searchLimit: searchLimit,
	}
}

// Routes returns the taxonomy and profile route groups.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Children: []routes.Group{
			{
				Prefix: "/taxonomy",
				Tags:   []string{"Taxonomy"},
				Routes: []routes.Route{
					{Method: "GET", Pattern: "/options", Handler: h.Options, OpenAPI: optionsOp},
					{Method: "GET", Pattern: "/distinct/{column}", Handler: h.Distinct, OpenAPI: distinctOp},
				},
			},
			{
				Prefix: "/profiles",
				Tags:   []string{"Profiles"},
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: listOp},
					{Method: "GET", Pattern: "/resolve", Handler: h.Resolve, OpenAPI: resolveOp},
					{Method: "GET", Pattern: "/search", Handler: h.Search, OpenAPI: searchOp},
				},
			},
		},
	}
}

// Options returns the drop-down values for the family and sub_family selection.
func (h *Handler) Options(w http.ResponseWriter, r *http.Request) {
	opts, err := h.sys.Options(r.Context(), PathFromQuery(r.URL.Query()))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, opts)
}

// Distinct returns the distinct values of a column. Every query parameter is an
// exact-match filter on the column of the same name.
func (h *Handler) Distinct(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	filters := make([]table.Filter, 0, len(keys))
	for _, k := range keys {
		filters = append(filters, table.Eq(k, values.Get(k)))
	}

	result, err := h.sys.Distinct(r.Context(), r.PathValue("column"), filters)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

// List returns a page of profiles with optional filters, search and sort.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Resolve returns the profile at a complete taxonomy path.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	p, err := h.sys.Resolve(r.Context(), PathFromQuery(r.URL.Query()))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, p)
}

// Search returns scored keyword matches.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	matches, err := h.sys.Search(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, matches)
}

var pathParams = []*openapi.Parameter{
	openapi.QueryParam("family", "string", "Job family", false),
	openapi.QueryParam("sub_family", "string", "Sub job family", false),
	openapi.QueryParam("profile", "string", "Job profile", false),
}

var optionsOp = &openapi.Operation{
	Summary:     "Drop-down options",
	Description: "Families, then sub-families of the selected family, then profiles of the selected sub-family.",
	Parameters:  pathParams[:2],
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Options", "Options"),
		503: openapi.ResponseRef("Unavailable"),
	},
}

var distinctOp = &openapi.Operation{
	Summary:     "Distinct column values",
	Description: "Sorted distinct non-blank values. Any query parameter filters on the column of the same name.",
	Parameters: []*openapi.Parameter{
		openapi.StringPathParam("column", "Column header"),
	},
	Responses: map[int]*openapi.Response{
		200: {
			Description: "Values",
			Content: map[string]*openapi.MediaType{
				"application/json": {Schema: &openapi.Schema{Type: "array", Items: &openapi.Schema{Type: "string"}}},
			},
		},
		400: openapi.ResponseRef("BadRequest"),
	},
}

var listOp = &openapi.Operation{
	Summary: "List profiles",
	Parameters: []*openapi.Parameter{
		openapi.QueryParam("page", "integer", "Page number", false),
		openapi.QueryParam("page_size", "integer", "Results per page", false),
		openapi.QueryParam("search", "string", "Substring over the classifying columns", false),
		openapi.QueryParam("sort", "string", "Comma-separated fields, prefix - for descending", false),
		openapi.QueryParam("family", "string", "Job family", false),
		openapi.QueryParam("sub_family", "string", "Sub job family", false),
		openapi.QueryParam("grade", "string", "Global grade", false),
		openapi.QueryParam("career_path", "string", "Career path", false),
	},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Profile page", "ProfilePage"),
		400: openapi.ResponseRef("BadRequest"),
	},
}

var resolveOp = &openapi.Operation{
	Summary:    "Resolve a profile",
	Parameters: pathParams,
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Profile", "Profile"),
		400: openapi.ResponseRef("BadRequest"),
		404: openapi.ResponseRef("NotFound"),
	},
}

var searchOp = &openapi.Operation{
	Summary: "Keyword search",
	Parameters: []*openapi.Parameter{
		openapi.QueryParam("q", "string", "Space-separated keywords", true),
		openapi.QueryParam("limit", "integer", "Maximum matches", false),
	},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseArray("Matches", "Match"),
		400: openapi.ResponseRef("BadRequest"),
	},
}

// Schemas are the OpenAPI component schemas for taxonomy responses.
var Schemas = map[string]*openapi.Schema{
	"Section": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"name": {Type: "string"},
			"text": {Type: "string"},
		},
	},
	"Profile": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"job_family":       {Type: "string"},
			"sub_job_family":   {Type: "string"},
			"job_profile":      {Type: "string"},
			"global_grade":     {Type: "string"},
			"career_path":      {Type: "string"},
			"full_job_code":    {Type: "string"},
			"role_description": {Type: "string"},
			"sections":         {Type: "array", Items: openapi.SchemaRef("Section")},
		},
	},
	"Path": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"family":     {Type: "string"},
			"sub_family": {Type: "string"},
			"profile":    {Type: "string"},
		},
	},
	"Options": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"path":         openapi.SchemaRef("Path"),
			"families":     {Type: "array", Items: &openapi.Schema{Type: "string"}},
			"sub_families": {Type: "array", Items: &openapi.Schema{Type: "string"}},
			"profiles":     {Type: "array", Items: &openapi.Schema{Type: "string"}},
		},
	},
	"Match": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"profile": openapi.SchemaRef("Profile"),
			"score":   {Type: "number", Description: "Percentage of query terms found"},
		},
	},
	"ProfilePage": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"data":        {Type: "array", Items: openapi.SchemaRef("Profile")},
			"total":       {Type: "integer"},
			"page":        {Type: "integer"},
			"page_size":   {Type: "integer"},
			"total_pages": {Type: "integer"},
		},
	},
}
