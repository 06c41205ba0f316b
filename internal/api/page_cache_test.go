package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type fakePageCache struct {
	entries map[string][]byte
	getErr  error
}

func newFakePageCache() *fakePageCache {
	return &fakePageCache{entries: make(map[string][]byte)}
}

func (f *fakePageCache) Get(_ context.Context, path string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.entries[path], nil
}

func (f *fakePageCache) Set(_ context.Context, path string, body []byte) error {
	f.entries[path] = body
	return nil
}

func newCachedRouter(pages pageCache, handler gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.GET("/v1/blogs/read/:id", cachePage(pages), handler)
	return router
}

func TestCachePageStoresSuccessfulResponse(t *testing.T) {
	pages := newFakePageCache()
	hits := 0
	router := newCachedRouter(pages, func(c *gin.Context) {
		hits++
		c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "data": gin.H{"id": c.Param("id")}})
	})

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/v1/blogs/read/b1", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", first.Code)
	}
	if _, ok := pages.entries["/v1/blogs/read/b1"]; !ok {
		t.Fatalf("response must be cached under the request path, got %v", pages.entries)
	}

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/v1/blogs/read/b1", nil))
	if second.Code != http.StatusOK {
		t.Fatalf("expected 200 on replay, got %d", second.Code)
	}
	if hits != 1 {
		t.Fatalf("cached replay must not reach the handler, handler ran %d times", hits)
	}
	if second.Body.String() != first.Body.String() {
		t.Fatalf("replayed body differs: %q vs %q", second.Body.String(), first.Body.String())
	}
}

func TestCachePageSkipsErrorResponses(t *testing.T) {
	pages := newFakePageCache()
	router := newCachedRouter(pages, func(c *gin.Context) {
		NotFound(c, "blog not found")
	})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/v1/blogs/read/missing", nil))

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", recorder.Code)
	}
	if len(pages.entries) != 0 {
		t.Fatalf("error responses must not be cached, got %v", pages.entries)
	}
}

func TestCachePageDegradesWhenCacheIsDown(t *testing.T) {
	pages := newFakePageCache()
	pages.getErr = context.DeadlineExceeded
	router := newCachedRouter(pages, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": http.StatusOK})
	})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/v1/blogs/read/b1", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("cache failure must fall through to the handler, got %d", recorder.Code)
	}
}
