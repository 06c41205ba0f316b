package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"inkwell/internal/database"
	"inkwell/internal/store"
)

type fakeTagStore struct {
	createErr error
	fetchErr  error
	tags      []database.Tag
}

func (f *fakeTagStore) CreateTag(_ context.Context, name string) (*database.Tag, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &database.Tag{ID: testTagID, Name: name}, nil
}

func (f *fakeTagStore) FetchTag(context.Context, string) (*database.Tag, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return &database.Tag{ID: testTagID, Name: "golang"}, nil
}

func (f *fakeTagStore) FetchAllTags(context.Context) ([]database.Tag, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.tags, nil
}

func TestCreateTagSuccessInvalidatesPage(t *testing.T) {
	pages := &fakePages{}
	handler := NewTagHandler(&fakeTagStore{}, pages)

	c, recorder := jsonRequest(t, http.MethodPost, "/v1/tags/create", map[string]any{
		"name": "golang",
		"path": "/tags",
	})

	handler.CreateTag(c)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	if len(pages.paths) != 1 || pages.paths[0] != "/tags" {
		t.Fatalf("expected invalidation of /tags, got %v", pages.paths)
	}
}

func TestCreateTagConflict(t *testing.T) {
	pages := &fakePages{}
	handler := NewTagHandler(&fakeTagStore{createErr: store.ErrConflict}, pages)

	c, recorder := jsonRequest(t, http.MethodPost, "/v1/tags/create", map[string]any{"name": "golang"})

	handler.CreateTag(c)

	if recorder.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", recorder.Code)
	}
	if len(pages.paths) != 0 {
		t.Fatalf("conflicting create must not invalidate caches")
	}
}

func TestCreateTagNameLengthValidation(t *testing.T) {
	for _, name := range []string{"ab", "thirteenchars"} {
		handler := NewTagHandler(&fakeTagStore{}, nil)
		c, recorder := jsonRequest(t, http.MethodPost, "/v1/tags/create", map[string]any{"name": name})

		handler.CreateTag(c)

		if recorder.Code != http.StatusBadRequest {
			t.Errorf("name %q: expected 400, got %d", name, recorder.Code)
		}
	}
}

func TestFetchTagNotFound(t *testing.T) {
	handler := NewTagHandler(&fakeTagStore{fetchErr: store.ErrNotFound}, nil)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/tags/"+testTagID, nil)
	c.Params = gin.Params{{Key: "id", Value: testTagID}}

	handler.FetchTag(c)

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", recorder.Code)
	}
}

func TestFetchAllTagsEmptyListIsNotAnError(t *testing.T) {
	handler := NewTagHandler(&fakeTagStore{tags: []database.Tag{}}, nil)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/tags", nil)

	handler.FetchAllTags(c)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
}
