// Package router, HTTP isteklerini yönlendirmek ve route tanımlamak için
// Laravel-inspired bir router implementasyonu sağlar.
package router

import (
	"context"
	"net/http"
	"sort"
	"strings"

	"github.com/biyonik/admission-api/internal/http/request"
	"github.com/biyonik/admission-api/internal/http/response"
	"github.com/biyonik/admission-api/internal/middleware"
)

// HandlerFunc, handler'ların ortak imzası. Standart http.HandlerFunc'tan
// farkı, route parametrelerine erişen *request.Request almasıdır.
type HandlerFunc func(http.ResponseWriter, *request.Request)

// Router, HTTP routing yapısını temsil eder.
type Router struct {
	routes      []*Route
	middlewares []middleware.Middleware
}

// Route, tek bir HTTP route'unu temsil eder.
type Route struct {
	method      string
	path        string
	handler     HandlerFunc
	middlewares []middleware.Middleware
}

// RouteGroup, ortak prefix ve middleware paylaşan route'lar.
type RouteGroup struct {
	prefix      string
	middlewares []middleware.Middleware
	router      *Router
}

func New() *Router {
	return &Router{}
}

// Use, router seviyesinde global middleware ekler. Global middleware'ler
// eşleşmeyen isteklerde de çalışır (logging, recovery, CORS).
func (r *Router) Use(m middleware.Middleware) {
	r.middlewares = append(r.middlewares, m)
}

func (r *Router) GET(path string, handler HandlerFunc) *Route {
	return r.addRoute(http.MethodGet, path, handler, nil)
}

func (r *Router) POST(path string, handler HandlerFunc) *Route {
	return r.addRoute(http.MethodPost, path, handler, nil)
}

func (r *Router) PUT(path string, handler HandlerFunc) *Route {
	return r.addRoute(http.MethodPut, path, handler, nil)
}

func (r *Router) PATCH(path string, handler HandlerFunc) *Route {
	return r.addRoute(http.MethodPatch, path, handler, nil)
}

func (r *Router) DELETE(path string, handler HandlerFunc) *Route {
	return r.addRoute(http.MethodDelete, path, handler, nil)
}

func (r *Router) addRoute(method, path string, handler HandlerFunc, inherited []middleware.Middleware) *Route {
	route := &Route{
		method:      method,
		path:        path,
		handler:     handler,
		middlewares: append([]middleware.Middleware(nil), inherited...),
	}
	r.routes = append(r.routes, route)
	return route
}

// Middleware, route'a middleware ekler (method chaining için).
//
// Kullanım:
//
//	r.POST("/api/v1/admissions", c.Store).
//	    Middleware(limiter.Middleware(logger))
func (route *Route) Middleware(m middleware.Middleware) *Route {
	route.middlewares = append(route.middlewares, m)
	return route
}

// Group, route grubu oluşturur.
//
// Kullanım:
//
//	admin := r.Group("/api/v1/admin")
//	admin.Use(middleware.Auth(guard))
//	admin.GET("/admissions", review.Index)
func (r *Router) Group(prefix string) *RouteGroup {
	return &RouteGroup{prefix: strings.TrimRight(prefix, "/"), router: r}
}

// Group, alt grup oluşturur; üst grubun middleware'leri devralınır.
func (g *RouteGroup) Group(prefix string) *RouteGroup {
	return &RouteGroup{
		prefix:      g.prefix + strings.TrimRight(prefix, "/"),
		middlewares: append([]middleware.Middleware(nil), g.middlewares...),
		router:      g.router,
	}
}

// Use, grup seviyesinde middleware ekler. Yalnızca bu çağrıdan sonra
// tanımlanan route'lara uygulanır.
func (g *RouteGroup) Use(m middleware.Middleware) {
	g.middlewares = append(g.middlewares, m)
}

func (g *RouteGroup) GET(path string, handler HandlerFunc) *Route {
	return g.router.addRoute(http.MethodGet, g.prefix+path, handler, g.middlewares)
}

func (g *RouteGroup) POST(path string, handler HandlerFunc) *Route {
	return g.router.addRoute(http.MethodPost, g.prefix+path, handler, g.middlewares)
}

func (g *RouteGroup) PUT(path string, handler HandlerFunc) *Route {
	return g.router.addRoute(http.MethodPut, g.prefix+path, handler, g.middlewares)
}

func (g *RouteGroup) PATCH(path string, handler HandlerFunc) *Route {
	return g.router.addRoute(http.MethodPatch, g.prefix+path, handler, g.middlewares)
}

func (g *RouteGroup) DELETE(path string, handler HandlerFunc) *Route {
	return g.router.addRoute(http.MethodDelete, g.prefix+path, handler, g.middlewares)
}

// ServeHTTP, http.Handler interface'ini implement eder.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	handler := middleware.Chain(http.HandlerFunc(r.handleRequest), r.middlewares...)
	handler.ServeHTTP(w, req)
}

// handleRequest, gelen isteği uygun route'a yönlendirir. Path eşleşip
// method eşleşmezse 405 ve Allow başlığı döner.
func (r *Router) handleRequest(w http.ResponseWriter, req *http.Request) {
	var allowed []string

	for _, route := range r.routes {
		params, matched := matchRoute(route.path, req.URL.Path)
		if !matched {
			continue
		}
		if route.method != req.Method {
			allowed = append(allowed, route.method)
			continue
		}

		req = req.WithContext(context.WithValue(req.Context(), request.RequestParamsKey, params))

		h := route.handler
		final := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			h(w, request.New(req))
		})
		middleware.Chain(final, route.middlewares...).ServeHTTP(w, req)
		return
	}

	if len(allowed) > 0 {
		sort.Strings(allowed)
		w.Header().Set("Allow", strings.Join(allowed, ", "))
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed.")
		return
	}

	response.NotFound(w, "The requested endpoint does not exist.")
}

// matchRoute, route pattern'i ile URL path'ini karşılaştırır.
// Parametreleri extract eder ve match durumunu döndürür.
//
// Pattern örnekleri:
//
//	/api/v1/admin/admissions/{id}
//	/api/v1/admin/admissions/{id}/documents/{document_key}
func matchRoute(pattern, path string) (map[string]string, bool) {
	patternParts := strings.Split(strings.Trim(pattern, "/"), "/")
	pathParts := strings.Split(strings.Trim(path, "/"), "/")

	if len(patternParts) != len(pathParts) {
		return nil, false
	}

	params := make(map[string]string)
	for i, part := range patternParts {
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			if pathParts[i] == "" {
				return nil, false
			}
			params[strings.Trim(part, "{}")] = pathParts[i]
			continue
		}

		if part != pathParts[i] {
			return nil, false
		}
	}

	return params, true
}
