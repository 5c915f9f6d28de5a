package user

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/normoctl/normocontrol/core"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrUsernameExists = errors.New("a user with this username already exists")
)

type (
	Repository interface {
		CheckUsernameUniqueness(ctx context.Context, username string) error
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUserByID(ctx context.Context, id int) (User, error)
		GetUserByUsername(ctx context.Context, username string) (User, error)
		// QueryStudents returns all non-reviewer users, username ascending.
		QueryStudents(ctx context.Context) ([]User, error)
		QueryUsersByGroupID(ctx context.Context, groupID int) ([]User, error)
		QueryReviewers(ctx context.Context) ([]User, error)
		// SetUserReviewer and SetUserGroup are administrative field updates.
		SetUserReviewer(ctx context.Context, id int, isReviewer bool) (User, error)
		SetUserGroup(ctx context.Context, id int, groupID null.Int) (User, error)
		// DeleteUsersByID also drops the users' checks and remarks.
		DeleteUsersByID(ctx context.Context, ids ...int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkUniqueness(uname string) error {
	if err := svc.repo.CheckUsernameUniqueness(context.Background(), uname); err != nil {
		if errors.Cause(err) == ErrUsernameExists {
			return core.NewValidationError(err, core.FieldError{Field: "username", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	usr := User{
		Username:  nu.Username,
		Email:     nu.Email,
		CreatedAt: time.Now().UTC(),
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "setting password")
	}
	return svc.repo.CreateUser(ctx, usr)
}

func (svc *Service) GetByID(ctx context.Context, id int) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByUsername(ctx context.Context, uname string) (User, error) {
	return svc.repo.GetUserByUsername(ctx, core.CleanString(uname, true /* lower */))
}

func (svc *Service) QueryStudents(ctx context.Context) ([]User, error) {
	return svc.repo.QueryStudents(ctx)
}

func (svc *Service) QueryByGroup(ctx context.Context, groupID int) ([]User, error) {
	return svc.repo.QueryUsersByGroupID(ctx, groupID)
}

func (svc *Service) QueryReviewers(ctx context.Context) ([]User, error) {
	return svc.repo.QueryReviewers(ctx)
}

func (svc *Service) SetReviewer(ctx context.Context, id int, isReviewer bool) (User, error) {
	return svc.repo.SetUserReviewer(ctx, id, isReviewer)
}

func (svc *Service) SetGroup(ctx context.Context, id int, groupID null.Int) (User, error) {
	return svc.repo.SetUserGroup(ctx, id, groupID)
}

func (svc *Service) Delete(ctx context.Context, ids ...int) error {
	return svc.repo.DeleteUsersByID(ctx, ids...)
}
