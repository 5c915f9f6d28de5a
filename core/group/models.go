package group

import (
	"github.com/gosimple/slug"

	"github.com/normoctl/normocontrol/core"
)

type Group struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// NewGroup contains information needed to create a new Group.
// Slug is derived from Title (transliterated, URL-safe) when not supplied.
type NewGroup struct {
	Title string `json:"title" form:"title" validate:"required,max=200"`
	Slug  string `json:"slug" form:"slug" validate:"omitempty,max=200"`
}

func (ng *NewGroup) Validate(svc *Service) error {
	ng.Title = core.CleanString(ng.Title)
	ng.Slug = core.CleanString(ng.Slug, true /* lower */)

	if err := core.Validate.Struct(ng); err != nil {
		return err
	}
	if ng.Slug == "" {
		ng.Slug = slug.Make(ng.Title)
	}
	return svc.checkSlugUniqueness(ng.Slug)
}
