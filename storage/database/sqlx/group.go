package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/normoctl/normocontrol/core"
	"github.com/normoctl/normocontrol/core/group"
)

const groupTable = `"group"`

type dbGroup struct {
	ID    int    `db:"id"`
	Title string `db:"title"`
	Slug  string `db:"slug"`
}

func (g dbGroup) toCore() group.Group {
	return group.Group{ID: g.ID, Title: g.Title, Slug: g.Slug}
}

type groupRepository struct {
	db *sqlx.DB
}

var _ group.Repository = (*groupRepository)(nil) // interface compliance check

func NewGroupRepository(db *sqlx.DB) *groupRepository {
	return &groupRepository{db: db}
}

func (repo groupRepository) CheckSlugUniqueness(ctx context.Context, slug string) error {
	query, args, err := psql.
		Select("COUNT(*)").
		From(groupTable).
		Where(sq.Eq{"slug": slug}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "building uniqueness query")
	}

	var count int
	if err = repo.db.GetContext(ctx, &count, query, args...); err != nil {
		return errors.Wrap(err, "checking slug uniqueness")
	}
	if count > 0 {
		return group.ErrSlugExists
	}
	return nil
}

func (repo groupRepository) CreateGroup(ctx context.Context, grp group.Group) (group.Group, error) {
	query, args, err := psql.
		Insert(groupTable).
		Columns("title", "slug").
		Values(grp.Title, grp.Slug).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return group.Group{}, errors.Wrap(err, "building insert query")
	}

	if err = repo.db.GetContext(ctx, &grp.ID, query, args...); err != nil {
		return group.Group{}, errors.Wrap(err, "inserting group")
	}
	return grp, nil
}

func (repo groupRepository) QueryAllGroups(ctx context.Context) ([]group.Group, error) {
	query, args, err := psql.
		Select("*").
		From(groupTable).
		OrderBy(core.DBOrdering{Field: "title", Ascending: true}.String()).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building select query")
	}

	var rows []dbGroup
	if err = repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying groups")
	}

	groups := make([]group.Group, 0, len(rows))
	for _, g := range rows {
		groups = append(groups, g.toCore())
	}
	return groups, nil
}

func (repo groupRepository) GetGroupBySlug(ctx context.Context, slug string) (group.Group, error) {
	query, args, err := psql.
		Select("*").
		From(groupTable).
		Where(sq.Eq{"slug": slug}).
		ToSql()
	if err != nil {
		return group.Group{}, errors.Wrap(err, "building select query")
	}

	var g dbGroup
	if err = repo.db.GetContext(ctx, &g, query, args...); err != nil {
		return group.Group{}, trapNoRowsErr(err, group.ErrNotFound, "finding group")
	}
	return g.toCore(), nil
}

func (repo groupRepository) DeleteGroup(ctx context.Context, id int) error {
	// members' group_id is nulled at the schema level
	query, args, err := psql.
		Delete(groupTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}

	if _, err = repo.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "deleting group")
	}
	return nil
}
