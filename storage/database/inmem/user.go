package inmem

import (
	"context"
	"sort"

	"github.com/volatiletech/null/v8"

	"github.com/normoctl/normocontrol/core/user"
)

type userRepository struct {
	db *DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *DB) *userRepository {
	return &userRepository{db: db}
}

func (repo userRepository) CheckUsernameUniqueness(ctx context.Context, username string) error {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, usr := range repo.db.users {
		if usr.Username == username {
			return user.ErrUsernameExists
		}
	}
	return nil
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	usr.ID = repo.db.nextID()
	repo.db.users[usr.ID] = usr
	return usr, nil
}

func (repo userRepository) GetUserByID(ctx context.Context, id int) (user.User, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if usr, ok := repo.db.users[id]; ok {
		return usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo userRepository) GetUserByUsername(ctx context.Context, username string) (user.User, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, usr := range repo.db.users {
		if usr.Username == username {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo userRepository) queryUsers(match func(user.User) bool) []user.User {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var users []user.User
	for _, usr := range repo.db.users {
		if match(usr) {
			users = append(users, usr)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users
}

func (repo userRepository) QueryStudents(ctx context.Context) ([]user.User, error) {
	return repo.queryUsers(func(usr user.User) bool { return !usr.IsReviewer }), nil
}

func (repo userRepository) QueryUsersByGroupID(ctx context.Context, groupID int) ([]user.User, error) {
	return repo.queryUsers(func(usr user.User) bool {
		return usr.GroupID.Valid && int(usr.GroupID.Int) == groupID
	}), nil
}

func (repo userRepository) QueryReviewers(ctx context.Context) ([]user.User, error) {
	return repo.queryUsers(func(usr user.User) bool { return usr.IsReviewer }), nil
}

func (repo userRepository) SetUserReviewer(ctx context.Context, id int, isReviewer bool) (user.User, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	usr, ok := repo.db.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	usr.IsReviewer = isReviewer
	repo.db.users[id] = usr
	return usr, nil
}

func (repo userRepository) SetUserGroup(ctx context.Context, id int, groupID null.Int) (user.User, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	usr, ok := repo.db.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	usr.GroupID = groupID
	repo.db.users[id] = usr
	return usr, nil
}

func (repo userRepository) DeleteUsersByID(ctx context.Context, ids ...int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, id := range ids {
		delete(repo.db.users, id)
		for cID, chk := range repo.db.checks {
			if chk.StudentID != id {
				continue
			}
			delete(repo.db.checks, cID)
			for rID, rmk := range repo.db.remarks {
				if rmk.CheckID == cID {
					delete(repo.db.remarks, rID)
				}
			}
		}
	}
	return nil
}
