package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

// routedContext mimics a request dispatched through the router: the context
// carries the registered route pattern while the request keeps its concrete
// URL.
func routedContext(e *echo.Echo, target, routePattern, paramValue string) echo.Context {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath(routePattern)
	c.SetParamNames("id")
	c.SetParamValues(paramValue)
	return c
}

func TestCacheKeyDistinguishesPathParams(t *testing.T) {
	e := echo.New()
	const route = "/api/v1/experiences/:id"

	first := cacheKey("cache", routedContext(e, "/api/v1/experiences/1", route, "1"))
	second := cacheKey("cache", routedContext(e, "/api/v1/experiences/2", route, "2"))
	if first == second {
		t.Fatalf("cache keys collide for different experience ids: %s", first)
	}

	again := cacheKey("cache", routedContext(e, "/api/v1/experiences/1", route, "1"))
	if first != again {
		t.Errorf("same URL produced different keys: %s vs %s", first, again)
	}
}

func TestCacheKeyDistinguishesQuery(t *testing.T) {
	e := echo.New()
	const route = "/api/v1/experiences"

	plain := cacheKey("cache", routedContext(e, "/api/v1/experiences", route, ""))
	filtered := cacheKey("cache", routedContext(e, "/api/v1/experiences?location=Venice", route, ""))
	if plain == filtered {
		t.Errorf("cache keys collide across different query strings: %s", plain)
	}
}
