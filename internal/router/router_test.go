package router

import (
	"net/http"
	"testing"

	"github.com/biyonik/admission-api/internal/http/request"
	"github.com/biyonik/admission-api/internal/http/response"
	"github.com/biyonik/admission-api/internal/middleware"
	testhelpers "github.com/biyonik/admission-api/pkg/testing"
)

func TestMatchRoute(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    map[string]string
		ok      bool
	}{
		{"/api/v1/shifts", "/api/v1/shifts", map[string]string{}, true},
		{"/api/v1/shifts", "/api/v1/shifts/", map[string]string{}, true},
		{"/api/v1/admin/admissions/{id}", "/api/v1/admin/admissions/42", map[string]string{"id": "42"}, true},
		{"/a/{id}/documents/{document_key}", "/a/7/documents/abc", map[string]string{"id": "7", "document_key": "abc"}, true},
		{"/api/v1/admin/admissions/{id}", "/api/v1/admin/admissions", nil, false},
		{"/api/v1/catalog", "/api/v1/shifts", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.path, func(t *testing.T) {
			params, ok := matchRoute(tt.pattern, tt.path)
			if ok != tt.ok {
				t.Fatalf("matchRoute() ok = %v, want %v", ok, tt.ok)
			}
			for k, v := range tt.want {
				if params[k] != v {
					t.Errorf("param %s = %q, want %q", k, params[k], v)
				}
			}
		})
	}
}

func echoParam(name string) HandlerFunc {
	return func(w http.ResponseWriter, r *request.Request) {
		response.Success(w, http.StatusOK, map[string]string{name: r.RouteParam(name)}, nil)
	}
}

func header(name, value string) middleware.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add(name, value)
			next.ServeHTTP(w, r)
		})
	}
}

func TestRouterDispatch(t *testing.T) {
	r := New()
	r.GET("/api/v1/admissions/{id}", echoParam("id"))
	r.PATCH("/api/v1/admissions/{id}", echoParam("id"))

	testhelpers.NewTestRequest("GET", "/api/v1/admissions/15").
		Send(r).
		AssertStatus(t, http.StatusOK).
		AssertJSONPath(t, "data.id", "15")

	res := testhelpers.NewTestRequest("DELETE", "/api/v1/admissions/15").Send(r)
	res.AssertStatus(t, http.StatusMethodNotAllowed).AssertJSONPath(t, "success", false)

	testhelpers.NewTestRequest("GET", "/nope").
		Send(r).
		AssertStatus(t, http.StatusNotFound).
		AssertJSON(t)
}

func TestGroupMiddlewareOrder(t *testing.T) {
	r := New()
	r.Use(header("X-Order", "global"))

	admin := r.Group("/admin")
	admin.Use(header("X-Order", "group"))
	admin.GET("/ping", echoParam("none")).Middleware(header("X-Order", "route"))

	public := r.Group("/public")
	public.GET("/ping", echoParam("none"))

	rec := newRecorder(r, "GET", "/admin/ping")
	got := rec.Header().Values("X-Order")
	want := []string{"global", "group", "route"}
	if len(got) != len(want) {
		t.Fatalf("X-Order = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("X-Order[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	rec = newRecorder(r, "GET", "/public/ping")
	if got := rec.Header().Values("X-Order"); len(got) != 1 {
		t.Errorf("public route should only see the global middleware, got %v", got)
	}
}
