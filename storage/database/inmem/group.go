package inmem

import (
	"context"
	"sort"

	"github.com/volatiletech/null/v8"

	"github.com/normoctl/normocontrol/core/group"
)

type groupRepository struct {
	db *DB
}

var _ group.Repository = (*groupRepository)(nil)

func NewGroupRepository(db *DB) *groupRepository {
	return &groupRepository{db: db}
}

func (repo groupRepository) CheckSlugUniqueness(ctx context.Context, slug string) error {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, grp := range repo.db.groups {
		if grp.Slug == slug {
			return group.ErrSlugExists
		}
	}
	return nil
}

func (repo groupRepository) CreateGroup(ctx context.Context, grp group.Group) (group.Group, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	grp.ID = repo.db.nextID()
	repo.db.groups[grp.ID] = grp
	return grp, nil
}

func (repo groupRepository) QueryAllGroups(ctx context.Context) ([]group.Group, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var groups []group.Group
	for _, grp := range repo.db.groups {
		groups = append(groups, grp)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Title < groups[j].Title })
	return groups, nil
}

func (repo groupRepository) GetGroupBySlug(ctx context.Context, slug string) (group.Group, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, grp := range repo.db.groups {
		if grp.Slug == slug {
			return grp, nil
		}
	}
	return group.Group{}, group.ErrNotFound
}

func (repo groupRepository) DeleteGroup(ctx context.Context, id int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	delete(repo.db.groups, id)
	for uID, usr := range repo.db.users {
		if usr.GroupID.Valid && int(usr.GroupID.Int) == id {
			usr.GroupID = null.Int{}
			repo.db.users[uID] = usr
		}
	}
	return nil
}
