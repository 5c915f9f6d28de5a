package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/normoctl/normocontrol/core"
	"github.com/normoctl/normocontrol/core/user"
)

// psql builds queries with PostgreSQL placeholders; shared by all repos.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const userTable = `"user"`

type dbUser struct {
	ID           int       `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	GroupID      null.Int  `db:"group_id"`
	IsReviewer   bool      `db:"is_reviewer"`
	PasswordHash []byte    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

func (u dbUser) toCore() user.User {
	return user.User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		GroupID:      u.GroupID,
		IsReviewer:   u.IsReviewer,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}

func toCoreUsers(rows []dbUser) []user.User {
	users := make([]user.User, 0, len(rows))
	for _, u := range rows {
		users = append(users, u.toCore())
	}
	return users
}

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

// trapNoRowsErr maps psql "no rows" err to the given sentinel.
func trapNoRowsErr(err, sentinel error, msg string) error {
	if err == sql.ErrNoRows {
		return sentinel
	}
	return errors.Wrap(err, msg)
}

func (repo userRepository) CheckUsernameUniqueness(ctx context.Context, username string) error {
	query, args, err := psql.
		Select("COUNT(*)").
		From(userTable).
		Where(sq.Eq{"username": username}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "building uniqueness query")
	}

	var count int
	if err = repo.db.GetContext(ctx, &count, query, args...); err != nil {
		return errors.Wrap(err, "checking username uniqueness")
	}
	if count > 0 {
		return user.ErrUsernameExists
	}
	return nil
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	query, args, err := psql.
		Insert(userTable).
		Columns("username", "email", "group_id", "is_reviewer", "password_hash", "created_at").
		Values(usr.Username, usr.Email, usr.GroupID, usr.IsReviewer, usr.PasswordHash, usr.CreatedAt.UTC()).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return user.User{}, errors.Wrap(err, "building insert query")
	}

	if err = repo.db.GetContext(ctx, &usr.ID, query, args...); err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo userRepository) getUser(ctx context.Context, pred interface{}) (user.User, error) {
	query, args, err := psql.
		Select("*").
		From(userTable).
		Where(pred).
		ToSql()
	if err != nil {
		return user.User{}, errors.Wrap(err, "building select query")
	}

	var u dbUser
	if err = repo.db.GetContext(ctx, &u, query, args...); err != nil {
		return user.User{}, trapNoRowsErr(err, user.ErrNotFound, "finding user")
	}
	return u.toCore(), nil
}

func (repo userRepository) GetUserByID(ctx context.Context, id int) (user.User, error) {
	return repo.getUser(ctx, sq.Eq{"id": id})
}

func (repo userRepository) GetUserByUsername(ctx context.Context, username string) (user.User, error) {
	return repo.getUser(ctx, sq.Eq{"username": username})
}

func (repo userRepository) queryUsers(ctx context.Context, pred interface{}) ([]user.User, error) {
	query, args, err := psql.
		Select("*").
		From(userTable).
		Where(pred).
		OrderBy(core.DBOrdering{Field: "username", Ascending: true}.String()).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building select query")
	}

	var rows []dbUser
	if err = repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	return toCoreUsers(rows), nil
}

func (repo userRepository) QueryStudents(ctx context.Context) ([]user.User, error) {
	return repo.queryUsers(ctx, sq.Eq{"is_reviewer": false})
}

func (repo userRepository) QueryUsersByGroupID(ctx context.Context, groupID int) ([]user.User, error) {
	return repo.queryUsers(ctx, sq.Eq{"group_id": groupID})
}

func (repo userRepository) QueryReviewers(ctx context.Context) ([]user.User, error) {
	return repo.queryUsers(ctx, sq.Eq{"is_reviewer": true})
}

func (repo userRepository) setUserField(ctx context.Context, id int, field string, value interface{}) (user.User, error) {
	query, args, err := psql.
		Update(userTable).
		Set(field, value).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return user.User{}, errors.Wrap(err, "building update query")
	}

	res, err := repo.db.ExecContext(ctx, query, args...)
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return repo.GetUserByID(ctx, id)
}

func (repo userRepository) SetUserReviewer(ctx context.Context, id int, isReviewer bool) (user.User, error) {
	return repo.setUserField(ctx, id, "is_reviewer", isReviewer)
}

func (repo userRepository) SetUserGroup(ctx context.Context, id int, groupID null.Int) (user.User, error) {
	return repo.setUserField(ctx, id, "group_id", groupID)
}

func (repo userRepository) DeleteUsersByID(ctx context.Context, ids ...int) error {
	// checks and remarks cascade at the schema level
	query, args, err := psql.
		Delete(userTable).
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}

	if _, err = repo.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "deleting users")
	}
	return nil
}
