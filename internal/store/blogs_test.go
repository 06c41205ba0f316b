package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/datatypes"

	"inkwell/internal/database"
)

func seedAuthor(t *testing.T, s *Store) *database.User {
	t.Helper()
	user, err := s.EnsureUser(context.Background(), "author-1", "writer")
	if err != nil {
		t.Fatalf("seed author: %v", err)
	}
	return user
}

func seedBlog(t *testing.T, s *Store, authorID string) *database.Blog {
	t.Helper()
	blog, err := s.CreateBlog(context.Background(), CreateBlogParams{
		Author:    authorID,
		Title:     "First post",
		Tags:      []string{"9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d"},
		Content:   datatypes.JSON(`{"root":{"children":[{"type":"paragraph","children":[{"type":"text","text":"hi"}]}]}}`),
		Thumbnail: "https://assets.example.com/2024-03-15_cover.png",
	})
	if err != nil {
		t.Fatalf("seed blog: %v", err)
	}
	return blog
}

func TestCreateBlog_UnknownAuthor(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreateBlog(context.Background(), CreateBlogParams{
		Author:  "ghost",
		Title:   "First post",
		Content: datatypes.JSON(`{}`),
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateBlog_PersistsRow(t *testing.T) {
	s := newTestStore(t)
	author := seedAuthor(t, s)

	blog := seedBlog(t, s, author.ID)
	if blog.ID == "" {
		t.Fatal("blog id must be generated")
	}

	var stored database.Blog
	if err := s.db.Where("id = ?", blog.ID).First(&stored).Error; err != nil {
		t.Fatalf("reload blog: %v", err)
	}
	if stored.AuthorID != author.ID {
		t.Fatalf("author = %q, want %q", stored.AuthorID, author.ID)
	}
	if len(stored.Tags) != 1 || stored.Tags[0] != "9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d" {
		t.Fatalf("tags did not round-trip: %v", stored.Tags)
	}
	if stored.CreatedAt.IsZero() || stored.UpdatedAt.IsZero() {
		t.Fatal("timestamps must be set on create")
	}
}

func TestUpdateBlog_TouchesOnlyMutableFields(t *testing.T) {
	s := newTestStore(t)
	author := seedAuthor(t, s)
	blog := seedBlog(t, s, author.ID)

	var before database.Blog
	if err := s.db.Where("id = ?", blog.ID).First(&before).Error; err != nil {
		t.Fatalf("reload blog: %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	newTag := "11111111-2222-3333-4444-555555555555"
	err := s.UpdateBlog(context.Background(), blog.ID, UpdateBlogParams{
		Title:     "Revised post",
		Tags:      []string{newTag},
		Content:   datatypes.JSON(`{"root":{"children":[{"type":"paragraph","children":[{"type":"text","text":"edited"}]}]}}`),
		Thumbnail: "https://assets.example.com/2024-03-16_new.png",
	})
	if err != nil {
		t.Fatalf("update blog: %v", err)
	}

	var after database.Blog
	if err := s.db.Where("id = ?", blog.ID).First(&after).Error; err != nil {
		t.Fatalf("reload blog: %v", err)
	}

	if after.Title != "Revised post" || after.Thumbnail != "https://assets.example.com/2024-03-16_new.png" {
		t.Fatalf("mutable fields not overwritten: %+v", after)
	}
	if len(after.Tags) != 1 || after.Tags[0] != newTag {
		t.Fatalf("tags not overwritten: %v", after.Tags)
	}
	if after.AuthorID != before.AuthorID {
		t.Fatalf("author must not change: %q → %q", before.AuthorID, after.AuthorID)
	}
	if !after.CreatedAt.Equal(before.CreatedAt) {
		t.Fatalf("created_at must not change: %v → %v", before.CreatedAt, after.CreatedAt)
	}
	if !after.UpdatedAt.After(before.UpdatedAt) {
		t.Fatalf("updated_at must advance: %v → %v", before.UpdatedAt, after.UpdatedAt)
	}
}

func TestUpdateBlog_NotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.UpdateBlog(context.Background(), "7b2d2f66-0000-0000-0000-000000000000", UpdateBlogParams{
		Title:   "Revised post",
		Content: datatypes.JSON(`{}`),
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteBlog_RemovesRow(t *testing.T) {
	s := newTestStore(t)
	author := seedAuthor(t, s)
	blog := seedBlog(t, s, author.ID)

	if err := s.DeleteBlog(context.Background(), blog.ID); err != nil {
		t.Fatalf("delete blog: %v", err)
	}

	var count int64
	if err := s.db.Model(&database.Blog{}).Where("id = ?", blog.ID).Count(&count).Error; err != nil {
		t.Fatalf("count blogs: %v", err)
	}
	if count != 0 {
		t.Fatalf("blog row still present")
	}

	if err := s.DeleteBlog(context.Background(), blog.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestFetchThumbnails_SkipsEmptyValues(t *testing.T) {
	s := newTestStore(t)
	author := seedAuthor(t, s)
	seedBlog(t, s, author.ID)

	bare := database.Blog{
		Title:    "No cover",
		Content:  datatypes.JSON(`{}`),
		AuthorID: author.ID,
	}
	if err := s.db.Create(&bare).Error; err != nil {
		t.Fatalf("create bare blog: %v", err)
	}

	urls, err := s.FetchThumbnails(context.Background())
	if err != nil {
		t.Fatalf("fetch thumbnails: %v", err)
	}
	if len(urls) != 1 || urls[0] != "https://assets.example.com/2024-03-15_cover.png" {
		t.Fatalf("unexpected thumbnails: %v", urls)
	}
}
