package infographics

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/JaimeStill/jobarch/internal/profiles"
	"github.com/JaimeStill/jobarch/pkg/handlers"
	"github.com/JaimeStill/jobarch/pkg/openapi"
	"github.com/JaimeStill/jobarch/pkg/routes"
)

// Handler provides HTTP endpoints for attachment operations.
type Handler struct {
	sys      System
	observer Observer
	logger   *slog.Logger
}

// NewHandler creates a Handler with the given system, observer, and logger.
func NewHandler(sys System, observer Observer, logger *slog.Logger) *Handler {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Handler{
		sys:      sys,
		observer: observer,
		logger:   logger.With("handler", "infographics"),
	}
}

// Routes returns the route group definition for attachment endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/infographics",
		Tags:   []string{"Infographics"},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: listOp},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, OpenAPI: findOp},
			{Method: "GET", Pattern: "/{id}/slides", Handler: h.Slides, OpenAPI: slidesOp},
			{Method: "GET", Pattern: "/{id}/download", Handler: h.Download, OpenAPI: downloadOp},
		},
	}
}

// List returns the attachments matching any level of the path, or every
// attachment when no level is given.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	path := profiles.PathFromQuery(r.URL.Query())

	var (
		files []Attachment
		err   error
	)
	if path == (profiles.Path{}) {
		files, err = h.sys.Index(r.Context())
	} else {
		files, err = h.sys.ForPath(r.Context(), path)
	}
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, files)
}

// Find returns an attachment with its page or slide count.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	a, err := h.sys.Describe(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, a)
}

// Slides returns the extracted slides of a deck, empty when extraction fails.
func (h *Handler) Slides(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	_, s, err := h.sys.Slides(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, s)
}

// Download streams the attachment as a file download.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	a, result, err := h.sys.Open(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	defer result.Body.Close()

	w.Header().Set("Content-Type", result.ContentType)
	if result.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(result.ContentLength, 10))
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.Name))
	w.WriteHeader(http.StatusOK)

	h.observer.ObserveDownload(a.Ext)
	if _, err := io.Copy(w, result.Body); err != nil {
		h.logger.Warn("download interrupted", "key", a.Key, "error", err)
	}
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

var idParam = openapi.PathParam("id", "Attachment ID")

var listOp = &openapi.Operation{
	Summary:     "List attachments",
	Description: "Decks whose filename contains any of the given levels, ignoring case, underscores and hyphens. Without parameters every deck is returned.",
	Parameters: []*openapi.Parameter{
		openapi.QueryParam("family", "string", "Job family", false),
		openapi.QueryParam("sub_family", "string", "Sub job family", false),
		openapi.QueryParam("profile", "string", "Job profile", false),
	},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseArray("Attachments", "Attachment"),
	},
}

var findOp = &openapi.Operation{
	Summary:    "Attachment detail",
	Parameters: []*openapi.Parameter{idParam},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Attachment", "Attachment"),
		400: openapi.ResponseRef("BadRequest"),
		404: openapi.ResponseRef("NotFound"),
	},
}

var slidesOp = &openapi.Operation{
	Summary:     "Extract slides",
	Description: "Slide titles and bodies. Unreadable decks yield an empty array.",
	Parameters:  []*openapi.Parameter{idParam},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseArray("Slides", "Slide"),
		400: openapi.ResponseRef("BadRequest"),
		404: openapi.ResponseRef("NotFound"),
	},
}

var downloadOp = &openapi.Operation{
	Summary:    "Download attachment",
	Parameters: []*openapi.Parameter{idParam},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseFile("Attachment content"),
		400: openapi.ResponseRef("BadRequest"),
		404: openapi.ResponseRef("NotFound"),
	},
}

// Schemas are the OpenAPI component schemas for attachment responses.
var Schemas = map[string]*openapi.Schema{
	"Attachment": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":           {Type: "string", Format: "uuid"},
			"key":          {Type: "string"},
			"name":         {Type: "string"},
			"stem":         {Type: "string"},
			"source":       {Type: "string"},
			"ext":          {Type: "string"},
			"content_type": {Type: "string"},
			"size_bytes":   {Type: "integer"},
			"modified_at":  {Type: "string", Format: "date-time"},
			"page_count":   {Type: "integer"},
			"slide_count":  {Type: "integer"},
		},
	},
	"Slide": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"index": {Type: "integer"},
			"title": {Type: "string"},
			"body":  {Type: "string"},
		},
	},
}
