package group

import (
	"context"

	"github.com/pkg/errors"

	"github.com/normoctl/normocontrol/core"
)

var (
	ErrNotFound   = errors.New("group not found")
	ErrSlugExists = errors.New("a group with this slug already exists")
)

type (
	Repository interface {
		CheckSlugUniqueness(ctx context.Context, slug string) error
		CreateGroup(ctx context.Context, grp Group) (Group, error)
		// QueryAllGroups returns all groups, title ascending.
		QueryAllGroups(ctx context.Context) ([]Group, error)
		GetGroupBySlug(ctx context.Context, slug string) (Group, error)
		// DeleteGroup nulls the group reference of its members.
		DeleteGroup(ctx context.Context, id int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkSlugUniqueness(slug string) error {
	if err := svc.repo.CheckSlugUniqueness(context.Background(), slug); err != nil {
		if errors.Cause(err) == ErrSlugExists {
			return core.NewValidationError(err, core.FieldError{Field: "slug", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, ng NewGroup) (Group, error) {
	grp := Group{
		Title: ng.Title,
		Slug:  ng.Slug,
	}
	return svc.repo.CreateGroup(ctx, grp)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Group, error) {
	return svc.repo.QueryAllGroups(ctx)
}

func (svc *Service) GetBySlug(ctx context.Context, slug string) (Group, error) {
	return svc.repo.GetGroupBySlug(ctx, core.CleanString(slug, true /* lower */))
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	return svc.repo.DeleteGroup(ctx, id)
}
