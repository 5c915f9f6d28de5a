package group_test

import (
	"strings"
	"testing"

	"github.com/normoctl/normocontrol/core"
	"github.com/normoctl/normocontrol/core/group"
	"github.com/normoctl/normocontrol/storage/database/inmem"
	testutil "github.com/normoctl/normocontrol/tests"
)

func TestNewGroup_Validate(t *testing.T) {
	testutil.Setup()
	repo := inmem.NewGroupRepository(inmem.NewDB())
	svc := group.NewService(repo)
	testutil.CreateGroup(t, repo, "Taken", "taken")

	tests := []struct {
		name     string
		ng       group.NewGroup
		wantSlug string
		wantErr  bool
	}{
		{name: "explicit slug", ng: group.NewGroup{Title: "AA-101", Slug: "aa-101-b"}, wantSlug: "aa-101-b"},
		{name: "slug derived from title", ng: group.NewGroup{Title: "Group 101 B"}, wantSlug: "group-101-b"},
		{name: "cyrillic title transliterated", ng: group.NewGroup{Title: "Группа 101"}, wantSlug: "gruppa-101"},
		{name: "slug lowered", ng: group.NewGroup{Title: "X", Slug: "MiXeD"}, wantSlug: "mixed"},
		{name: "missing title", ng: group.NewGroup{}, wantErr: true},
		{name: "title too long", ng: group.NewGroup{Title: strings.Repeat("a", 201)}, wantErr: true},
		{name: "duplicate slug", ng: group.NewGroup{Title: "Another", Slug: "taken"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ng.Validate(svc)
			if tt.wantErr {
				if err == nil {
					t.Error("Validate() error = nil; want an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() failed: %v", err)
			}
			if tt.ng.Slug != tt.wantSlug {
				t.Errorf("slug = %q; want %q", tt.ng.Slug, tt.wantSlug)
			}
		})
	}
}

func TestNewGroup_Validate_duplicateSlugError(t *testing.T) {
	testutil.Setup()
	repo := inmem.NewGroupRepository(inmem.NewDB())
	svc := group.NewService(repo)
	testutil.CreateGroup(t, repo, "Taken", "taken")

	ng := group.NewGroup{Title: "Another", Slug: "taken"}
	err := ng.Validate(svc)
	vErr, ok := err.(*core.ValidationError)
	if !ok {
		t.Fatalf("Validate() error type = %T; want *core.ValidationError", err)
	}
	if len(vErr.Fields) != 1 || vErr.Fields[0].Field != "slug" {
		t.Errorf("unexpected fields: %+v", vErr.Fields)
	}
}
