package web_test

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/JaimeStill/jobarch/pkg/web"
)

var testFS = fstest.MapFS{
	"templates/layouts/app.html": {Data: []byte(
		`{{ define "app" }}<title>{{ .Title }}</title><nav data-active="{{ .Nav }}"></nav>{{ template "content" . }}{{ end }}`,
	)},
	"templates/views/home.html": {Data: []byte(
		`{{ define "content" }}<a href="{{ .BasePath }}/profiles">{{ shout .Data }}</a>{{ end }}`,
	)},
	"templates/views/broken.html": {Data: []byte(
		`{{ define "content" }}{{ .Data.Missing }}{{ end }}`,
	)},
	"static/app.css": {Data: []byte("body{}")},
}

var (
	homeView   = web.ViewDef{Route: "/{$}", Template: "home.html", Title: "Home", Nav: "home"}
	brokenView = web.ViewDef{Route: "/broken", Template: "broken.html", Title: "Broken"}
)

func templates(t *testing.T) *web.TemplateSet {
	t.Helper()
	ts, err := web.NewTemplateSet(
		testFS, "templates/layouts/*.html", "templates/views", "/app",
		template.FuncMap{"shout": strings.ToUpper},
		[]web.ViewDef{homeView, brokenView},
	)
	if err != nil {
		t.Fatalf("NewTemplateSet: %v", err)
	}
	return ts
}

func TestRender(t *testing.T) {
	ts := templates(t)
	rec := httptest.NewRecorder()

	if err := ts.Render(rec, http.StatusOK, "app", homeView, "<engineering>"); err != nil {
		t.Fatalf("Render: %v", err)
	}

	body := rec.Body.String()
	for _, want := range []string{
		"<title>Home</title>",
		`data-active="home"`,
		`href="/app/profiles"`,
		"&lt;ENGINEERING&gt;",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q: %s", want, body)
		}
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("content-type: got %s", ct)
	}
}

func TestRenderErrorWritesNothing(t *testing.T) {
	ts := templates(t)
	rec := httptest.NewRecorder()

	if err := ts.Render(rec, http.StatusOK, "app", brokenView, 42); err == nil {
		t.Fatal("expected template execution error")
	}
	if rec.Body.Len() != 0 {
		t.Errorf("partial output written: %s", rec.Body.String())
	}

	if err := ts.Render(rec, http.StatusOK, "app", web.ViewDef{Template: "absent.html"}, nil); err == nil {
		t.Error("expected error for unknown template")
	}
}

func TestRouterFallbackAndStatic(t *testing.T) {
	ts := templates(t)
	r := web.NewRouter(ts.ErrorHandler("app", homeView, http.StatusNotFound))
	r.Handle("GET /static/", web.DistServer(testFS, "static", "/static"))
	r.Page(homeView, func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("home"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/static/app.css", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "body{}" {
		t.Errorf("static: got %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Body.String() != "home" {
		t.Errorf("page: got %q", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/nowhere", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("fallback: got %d, want 404", rec.Code)
	}
	if ts.BasePath() != "/app" {
		t.Errorf("base path: got %s", ts.BasePath())
	}
}
