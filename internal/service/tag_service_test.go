package service

import (
	"errors"
	"testing"
)

func TestTagService_CreateAndRename(t *testing.T) {
	gdb := setupServiceTestDB(t, "tag-create")
	svc := NewTagService(gdb)

	tag, err := svc.Create("Web 开发")
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}
	if tag.Slug != "web-开发" {
		t.Fatalf("unexpected slug %q", tag.Slug)
	}

	renamed, err := svc.Update(tag.ID, "Go 语言")
	if err != nil {
		t.Fatalf("rename tag: %v", err)
	}
	if renamed.Name != "Go 语言" || renamed.Slug != "go-语言" {
		t.Fatalf("expected name and slug updated, got %+v", renamed)
	}
}

func TestTagService_CreateRejectsDuplicates(t *testing.T) {
	gdb := setupServiceTestDB(t, "tag-dup")
	svc := NewTagService(gdb)

	if _, err := svc.Create("Go"); err != nil {
		t.Fatalf("create tag: %v", err)
	}
	if _, err := svc.Create("Go"); !errors.Is(err, ErrTagNameTaken) {
		t.Fatalf("expected ErrTagNameTaken, got %v", err)
	}
	if _, err := svc.Create(""); !errors.Is(err, ErrTagNameEmpty) {
		t.Fatalf("expected ErrTagNameEmpty, got %v", err)
	}
}

func TestTagService_DeleteRejectsTagsInUse(t *testing.T) {
	gdb := setupServiceTestDB(t, "tag-in-use")
	svc := NewTagService(gdb)
	posts := NewPostService(gdb)

	tag, err := svc.Create("Go")
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}
	if _, err := posts.Create(PostInput{Title: "文章", Content: "正文", TagIDs: []uint{tag.ID}}); err != nil {
		t.Fatalf("create post: %v", err)
	}

	if err := svc.Delete(tag.ID); !errors.Is(err, ErrTagInUse) {
		t.Fatalf("expected ErrTagInUse, got %v", err)
	}

	unused, err := svc.Create("未使用")
	if err != nil {
		t.Fatalf("create unused tag: %v", err)
	}
	if err := svc.Delete(unused.ID); err != nil {
		t.Fatalf("delete unused tag: %v", err)
	}
	if _, err := svc.GetBySlug(unused.Slug); !errors.Is(err, ErrTagNotFound) {
		t.Fatalf("expected tag removed, got %v", err)
	}
}

func TestTagService_ListCountsPosts(t *testing.T) {
	gdb := setupServiceTestDB(t, "tag-counts")
	svc := NewTagService(gdb)
	posts := NewPostService(gdb)

	tag, err := svc.Create("Go")
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}
	if _, err := posts.Create(PostInput{Title: "甲", Content: "正文", TagIDs: []uint{tag.ID}}); err != nil {
		t.Fatalf("create post: %v", err)
	}
	if _, err := posts.Create(PostInput{Title: "乙", Content: "正文", TagIDs: []uint{tag.ID}}); err != nil {
		t.Fatalf("create post: %v", err)
	}

	list, err := svc.List()
	if err != nil {
		t.Fatalf("list tags: %v", err)
	}
	if len(list) != 1 || list[0].PostCount != 2 {
		t.Fatalf("unexpected tag list %+v", list)
	}
}
