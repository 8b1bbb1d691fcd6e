package module_test

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/JaimeStill/jobarch/pkg/module"
)

func TestNewInvalidPrefixPanics(t *testing.T) {
	for _, prefix := range []string{"", "/", "api", "/api/v1"} {
		t.Run(prefix, func(t *testing.T) {
			defer func() {
				if r := recover(); r == nil {
					t.Error("expected panic for invalid prefix")
				}
			}()
			module.New(prefix, http.NewServeMux())
		})
	}
}

func TestServePrefixStripping(t *testing.T) {
	mux := http.NewServeMux()

	var received []string
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		received = append(received, r.URL.Path)
	})

	m := module.New("/app", mux)
	for _, p := range []string{"/app", "/app/profiles"} {
		m.Serve(httptest.NewRecorder(), httptest.NewRequest("GET", p, nil))
	}

	if !slices.Equal(received, []string{"/", "/profiles"}) {
		t.Errorf("inner paths: got %v", received)
	}
}

func TestModuleMiddleware(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {})

	m := module.New("/api", mux)

	var order []string
	for _, name := range []string{"outer", "inner"} {
		m.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		})
	}

	m.Serve(httptest.NewRecorder(), httptest.NewRequest("GET", "/api", nil))

	if !slices.Equal(order, []string{"outer", "inner"}) {
		t.Errorf("middleware order: got %v", order)
	}
}

func TestRouter(t *testing.T) {
	apiMux := http.NewServeMux()
	apiMux.HandleFunc("GET /profiles", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("api"))
	})

	appMux := http.NewServeMux()
	appMux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("app"))
	})

	router := module.NewRouter()
	router.Mount(module.New("/api", apiMux))
	router.Mount(module.New("/app", appMux))
	router.Redirect("GET /{$}", "/app/")
	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	router.Handle("GET /metrics", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("metrics"))
	}))

	tests := []struct {
		name     string
		path     string
		wantCode int
		wantBody string
	}{
		{"api module", "/api/profiles", http.StatusOK, "api"},
		{"trailing slash normalized", "/api/profiles/", http.StatusOK, "api"},
		{"app root", "/app/", http.StatusOK, "app"},
		{"native handler func", "/healthz", http.StatusOK, "ok"},
		{"native handler", "/metrics", http.StatusOK, "metrics"},
		{"root redirect", "/", http.StatusFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))

			if rec.Code != tt.wantCode {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("body: got %s, want %s", rec.Body.String(), tt.wantBody)
			}
		})
	}

	if got := router.Prefixes(); !slices.Equal(got, []string{"/api", "/app"}) {
		t.Errorf("prefixes: got %v", got)
	}
}

func TestMountDuplicatePanics(t *testing.T) {
	router := module.NewRouter()
	router.Mount(module.New("/api", http.NewServeMux()))

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for duplicate prefix")
		}
	}()
	router.Mount(module.New("/api", http.NewServeMux()))
}

func TestServeKeepsRequestURI(t *testing.T) {
	mux := http.NewServeMux()

	var path, uri string
	mux.HandleFunc("GET /infographics/{id}", func(w http.ResponseWriter, r *http.Request) {
		path, uri = r.URL.Path, r.RequestURI
	})

	router := module.NewRouter()
	router.Mount(module.New("/api", mux))

	req := httptest.NewRequest("GET", "/api/infographics/abc/?download=1", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	if path != "/infographics/abc" {
		t.Errorf("inner path: got %s", path)
	}
	if uri != "/api/infographics/abc/?download=1" {
		t.Errorf("request uri: got %s", uri)
	}
	if req.URL.Path != "/api/infographics/abc/" {
		t.Errorf("caller request mutated: %s", req.URL.Path)
	}
}
