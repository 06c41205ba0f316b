package store

import (
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestGroupBlogRows_AggregatesTags(t *testing.T) {
	now := time.Now()
	rows := []blogRow{
		{BlogID: "b1", Title: "Hello", AuthorID: "u1", AuthorName: "alice", CreatedAt: now, UpdatedAt: now, TagID: strPtr("t1"), TagName: strPtr("news")},
		{BlogID: "b1", Title: "Hello", AuthorID: "u1", AuthorName: "alice", CreatedAt: now, UpdatedAt: now, TagID: strPtr("t2"), TagName: strPtr("tech")},
		{BlogID: "b1", Title: "Hello", AuthorID: "u1", AuthorName: "alice", CreatedAt: now, UpdatedAt: now, TagID: strPtr("t3"), TagName: strPtr("go")},
	}

	blogs := groupBlogRows(rows)
	if len(blogs) != 1 {
		t.Fatalf("expected 1 blog, got %d", len(blogs))
	}
	blog := blogs[0]
	if len(blog.Tags) != 3 {
		t.Fatalf("expected 3 tags, got %d", len(blog.Tags))
	}
	if blog.Tags[0].Name != "news" || blog.Tags[1].Name != "tech" || blog.Tags[2].Name != "go" {
		t.Fatalf("tag order not preserved: %+v", blog.Tags)
	}
	if blog.Author.Username != "alice" {
		t.Fatalf("author not seeded: %+v", blog.Author)
	}
}

func TestGroupBlogRows_ZeroTagBlogSurvives(t *testing.T) {
	// LEFT JOIN 对零标签文章产生一行 NULL 标签。
	rows := []blogRow{
		{BlogID: "b1", Title: "Untagged", AuthorID: "u1", AuthorName: "alice"},
	}

	blogs := groupBlogRows(rows)
	if len(blogs) != 1 {
		t.Fatalf("zero-tag blog was dropped")
	}
	if blogs[0].Tags == nil {
		t.Fatal("tags must be an empty list, not nil")
	}
	if len(blogs[0].Tags) != 0 {
		t.Fatalf("expected no tags, got %d", len(blogs[0].Tags))
	}
}

func TestGroupBlogRows_NoDuplicateTags(t *testing.T) {
	rows := []blogRow{
		{BlogID: "b1", TagID: strPtr("t1"), TagName: strPtr("news")},
		{BlogID: "b1", TagID: strPtr("t1"), TagName: strPtr("news")},
	}

	blogs := groupBlogRows(rows)
	if len(blogs[0].Tags) != 1 {
		t.Fatalf("expected deduplicated tags, got %d", len(blogs[0].Tags))
	}
}

func TestGroupBlogRows_MultipleBlogsKeepRowOrder(t *testing.T) {
	rows := []blogRow{
		{BlogID: "b2", Title: "Second", TagID: strPtr("t1"), TagName: strPtr("news")},
		{BlogID: "b1", Title: "First"},
		{BlogID: "b2", Title: "Second", TagID: strPtr("t2"), TagName: strPtr("tech")},
	}

	blogs := groupBlogRows(rows)
	if len(blogs) != 2 {
		t.Fatalf("expected 2 blogs, got %d", len(blogs))
	}
	if blogs[0].ID != "b2" || blogs[1].ID != "b1" {
		t.Fatalf("first-appearance order not preserved: %s, %s", blogs[0].ID, blogs[1].ID)
	}
	if len(blogs[0].Tags) != 2 || len(blogs[1].Tags) != 0 {
		t.Fatalf("tags attached to wrong blogs: %+v", blogs)
	}
}
