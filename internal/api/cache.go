package api

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/jobarch/pkg/cache"
	"github.com/JaimeStill/jobarch/pkg/handlers"
	"github.com/JaimeStill/jobarch/pkg/openapi"
	"github.com/JaimeStill/jobarch/pkg/routes"
)

// CacheStats reports the table and listing caches.
type CacheStats struct {
	Tables   cache.Stats `json:"tables"`
	Listings cache.Stats `json:"listings"`
}

type cacheHandler struct {
	runtime *Runtime
	logger  *slog.Logger
}

func newCacheHandler(runtime *Runtime) *cacheHandler {
	return &cacheHandler{
		runtime: runtime,
		logger:  runtime.Logger.With("handler", "cache"),
	}
}

// cacheRoutes declares the cache routes. A nil handler yields the
// declarations only, for documentation.
func cacheRoutes(h *cacheHandler) routes.Group {
	var stats, clear http.HandlerFunc
	if h != nil {
		stats, clear = h.stats, h.clear
	}
	return routes.Group{
		Prefix: "/cache",
		Tags:   []string{"Cache"},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: stats, OpenAPI: statsOp},
			{Method: "POST", Pattern: "/clear", Handler: clear, OpenAPI: clearOp},
		},
	}
}

func (h *cacheHandler) current() CacheStats {
	return CacheStats{
		Tables:   h.runtime.Tables.Stats(),
		Listings: h.runtime.Listings.Stats(),
	}
}

func (h *cacheHandler) stats(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.current())
}

func (h *cacheHandler) clear(w http.ResponseWriter, r *http.Request) {
	h.runtime.ClearCaches()
	h.logger.Info("caches cleared")
	handlers.RespondJSON(w, http.StatusOK, h.current())
}

var statsOp = &openapi.Operation{
	Summary: "Cache statistics",
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Cache statistics", "CacheStats"),
	},
}

var clearOp = &openapi.Operation{
	Summary:     "Clear caches",
	Description: "Drops every cached spreadsheet and directory listing. The next request reloads from storage.",
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Cache statistics after clearing", "CacheStats"),
	},
}

var cacheSchemas = map[string]*openapi.Schema{
	"CacheStats": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"tables":   openapi.SchemaRef("Stats"),
			"listings": openapi.SchemaRef("Stats"),
		},
	},
	"Stats": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"hits":    {Type: "integer"},
			"misses":  {Type: "integer"},
			"entries": {Type: "integer"},
		},
	},
}
