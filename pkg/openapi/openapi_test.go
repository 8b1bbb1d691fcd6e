package openapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/JaimeStill/jobarch/pkg/openapi"
)

func TestNewSpec(t *testing.T) {
	spec := openapi.NewSpec("Test API", "1.0.0")
	spec.AddServer("http://localhost:8080")
	spec.SetDescription("A test API")

	if spec.OpenAPI != "3.1.0" {
		t.Errorf("openapi version: got %s, want 3.1.0", spec.OpenAPI)
	}
	if spec.Info.Title != "Test API" || spec.Info.Description != "A test API" {
		t.Errorf("info: got %+v", spec.Info)
	}
	if len(spec.Servers) != 1 || spec.Servers[0].URL != "http://localhost:8080" {
		t.Errorf("servers: got %v", spec.Servers)
	}
	if spec.Paths == nil || spec.Components == nil {
		t.Fatal("paths and components should be initialized")
	}
}

func TestComponentsDefaults(t *testing.T) {
	c := openapi.NewComponents()

	for _, name := range []string{"Error", "PageRequest"} {
		if _, ok := c.Schemas[name]; !ok {
			t.Errorf("missing default schema: %s", name)
		}
	}
	for _, name := range []string{"BadRequest", "NotFound", "Unauthorized", "Unavailable"} {
		r, ok := c.Responses[name]
		if !ok {
			t.Errorf("missing default response: %s", name)
			continue
		}
		if ref := r.Content["application/json"].Schema.Ref; ref != "#/components/schemas/Error" {
			t.Errorf("%s schema ref: got %s", name, ref)
		}
	}

	c.AddSchemas(map[string]*openapi.Schema{"Profile": {Type: "object"}})
	if _, ok := c.Schemas["Profile"]; !ok {
		t.Error("Profile schema not added")
	}
}

func TestParams(t *testing.T) {
	id := openapi.PathParam("id", "Attachment ID")
	if id.In != "path" || !id.Required || id.Schema.Format != "uuid" {
		t.Errorf("path param: got %+v", id)
	}

	col := openapi.StringPathParam("column", "Column name")
	if col.Schema.Format != "" || !col.Required {
		t.Errorf("string path param: got %+v", col)
	}

	q := openapi.QueryParam("family", "string", "Job family", false)
	if q.In != "query" || q.Required {
		t.Errorf("query param: got %+v", q)
	}
}

func TestResponses(t *testing.T) {
	arr := openapi.ResponseArray("Slides", "Slide")
	schema := arr.Content["application/json"].Schema
	if schema.Type != "array" || schema.Items.Ref != "#/components/schemas/Slide" {
		t.Errorf("array response: got %+v", schema)
	}

	file := openapi.ResponseFile("Deck")
	if _, ok := file.Content["application/octet-stream"]; !ok {
		t.Error("file response should be octet-stream")
	}

	if ref := openapi.ResponseRef("NotFound").Ref; ref != "#/components/responses/NotFound" {
		t.Errorf("response ref: got %s", ref)
	}
}

func TestWriteAndServe(t *testing.T) {
	spec := openapi.NewSpec("Test", "1.0.0")
	path := filepath.Join(t.TempDir(), "openapi.json")

	if err := openapi.WriteJSON(spec, path); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if data[len(data)-1] != '\n' {
		t.Error("written spec should end with a newline")
	}

	serve := openapi.ServeSpec(data)
	rec := httptest.NewRecorder()
	serve(rec, httptest.NewRequest("GET", "/openapi.json", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rec.Code)
	}
	var parsed map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &parsed); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if parsed["openapi"] != "3.1.0" {
		t.Errorf("openapi: got %v", parsed["openapi"])
	}

	etag := rec.Header().Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}
	req := httptest.NewRequest("GET", "/openapi.json", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	serve(rec, req)
	if rec.Code != http.StatusNotModified || rec.Body.Len() != 0 {
		t.Errorf("revalidation: got %d with %d bytes", rec.Code, rec.Body.Len())
	}
}

func TestWriteJSONCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs", "api", "openapi.json")
	if err := openapi.WriteJSON(openapi.NewSpec("Test", "1.0.0"), path); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("stat: %v", err)
	}
}

func TestFromConfigAndTags(t *testing.T) {
	cfg := &openapi.Config{
		Title:       "Job Architecture API",
		Description: "Roles",
		Servers:     []string{"https://jobarch.example.com"},
	}
	spec := openapi.FromConfig(cfg, "0.2.0")

	if spec.Info.Version != "0.2.0" || spec.Info.Description != "Roles" {
		t.Errorf("info: got %+v", spec.Info)
	}
	if len(spec.Servers) != 1 || spec.Servers[0].URL != "https://jobarch.example.com" {
		t.Errorf("servers: got %v", spec.Servers)
	}

	spec.AddTag("Profiles", "first")
	spec.AddTag("Infographics", "decks")
	spec.AddTag("Profiles", "second")
	if len(spec.Tags) != 2 || spec.Tags[0].Description != "second" {
		t.Errorf("tags: got %+v", spec.Tags)
	}
}

func TestConfig(t *testing.T) {
	cfg := openapi.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if cfg.Title != "Job Architecture API" {
		t.Errorf("title: got %s", cfg.Title)
	}

	t.Setenv("TEST_TITLE", "Custom API")
	env := &openapi.ConfigEnv{Title: "TEST_TITLE"}
	cfg = openapi.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if cfg.Title != "Custom API" {
		t.Errorf("title: got %s, want Custom API", cfg.Title)
	}

	cfg.Merge(&openapi.Config{Description: "Overlay"})
	if cfg.Description != "Overlay" || cfg.Title != "Custom API" {
		t.Errorf("merge: got %+v", cfg)
	}

	t.Setenv("TEST_SERVERS", "https://a.example.com, ,https://b.example.com")
	cfg = openapi.Config{}
	if err := cfg.Finalize(&openapi.ConfigEnv{Servers: "TEST_SERVERS"}); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if len(cfg.Servers) != 2 || cfg.Servers[1] != "https://b.example.com" {
		t.Errorf("servers: got %v", cfg.Servers)
	}

	bad := openapi.Config{Servers: []string{"/api"}}
	if err := bad.Finalize(nil); err == nil {
		t.Error("expected error for relative server url")
	}
}
