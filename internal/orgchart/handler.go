package orgchart

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/JaimeStill/jobarch/internal/profiles"
	"github.com/JaimeStill/jobarch/pkg/handlers"
	"github.com/JaimeStill/jobarch/pkg/openapi"
	"github.com/JaimeStill/jobarch/pkg/routes"
)

type Handler struct {
	sys    System
	logger *slog.Logger
}

func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "orgchart"),
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/orgchart",
		Tags:   []string{"Org Chart"},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Graph, OpenAPI: graphOp},
		},
	}
}

func (h *Handler) Graph(w http.ResponseWriter, r *http.Request) {
	family := strings.TrimSpace(r.URL.Query().Get("family"))

	g, err := h.sys.Graph(r.Context(), family)
	if err != nil {
		handlers.RespondError(w, h.logger, profiles.MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, g)
}

var graphOp = &openapi.Operation{
	Summary:     "Org chart graph",
	Description: "Nodes and parent to child edges. Node IDs join the family, sub-family and profile with a unit separator.",
	Parameters: []*openapi.Parameter{
		openapi.QueryParam("family", "string", "Restrict the graph to one job family", false),
	},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Org chart", "Graph"),
		503: openapi.ResponseRef("Unavailable"),
	},
}

// Schemas are the component schemas referenced by the org chart operations.
var Schemas = map[string]*openapi.Schema{
	"Node": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":    {Type: "string"},
			"label": {Type: "string"},
			"level": {Type: "integer", Description: "0 family, 1 sub-family, 2 profile"},
			"group": {Type: "string"},
			"title": {Type: "string"},
		},
	},
	"Edge": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"from": {Type: "string"},
			"to":   {Type: "string"},
		},
	},
	"Graph": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"family": {Type: "string"},
			"nodes":  {Type: "array", Items: openapi.SchemaRef("Node")},
			"edges":  {Type: "array", Items: openapi.SchemaRef("Edge")},
		},
	},
}
