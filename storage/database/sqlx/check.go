package sqlxrepos

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/normoctl/normocontrol/core"
	"github.com/normoctl/normocontrol/core/check"
)

const (
	checkTable  = "check_out"
	remarkTable = "remark"
)

type dbCheck struct {
	ID              int         `db:"id"`
	StudentID       int         `db:"student_id"`
	StudentUsername string      `db:"student_username"`
	Note            null.String `db:"note"`
	IsArchived      bool        `db:"is_archived"`
	DocxFile        string      `db:"docx_file"`
	PDFFile         string      `db:"pdf_file"`
	CreatedAt       time.Time   `db:"created_at"`
}

func (c dbCheck) toCore() check.Check {
	return check.Check{
		ID:              c.ID,
		StudentID:       c.StudentID,
		StudentUsername: c.StudentUsername,
		Note:            c.Note,
		IsArchived:      c.IsArchived,
		DocxFile:        c.DocxFile,
		PDFFile:         c.PDFFile,
		CreatedAt:       c.CreatedAt,
	}
}

type dbRemark struct {
	ID         int         `db:"id"`
	CheckID    int         `db:"check_id"`
	AuthorID   int         `db:"author_id"`
	Section    string      `db:"section"`
	PageNumber null.String `db:"page_number"`
	Paragraph  null.String `db:"paragraph"`
	CheckAll   null.String `db:"check_all"`
	Text       string      `db:"text"`
	CreatedAt  time.Time   `db:"created_at"`
}

func (r dbRemark) toCore() check.Remark {
	return check.Remark{
		ID:         r.ID,
		CheckID:    r.CheckID,
		AuthorID:   r.AuthorID,
		Section:    r.Section,
		PageNumber: r.PageNumber,
		Paragraph:  r.Paragraph,
		CheckAll:   r.CheckAll,
		Text:       r.Text,
		CreatedAt:  r.CreatedAt,
	}
}

type checkRepository struct {
	db *sqlx.DB
}

var _ check.Repository = (*checkRepository)(nil) // interface compliance check

func NewCheckRepository(db *sqlx.DB) *checkRepository {
	return &checkRepository{db: db}
}

// selectChecks joins the student's username in so listings need no extra query.
func selectChecks() sq.SelectBuilder {
	return psql.
		Select("c.id", "c.student_id", "u.username AS student_username", "c.note",
			"c.is_archived", "c.docx_file", "c.pdf_file", "c.created_at").
		From(checkTable + " c").
		Join(userTable + ` u ON u.id = c.student_id`)
}

func (repo checkRepository) CreateCheck(ctx context.Context, chk check.Check) (check.Check, error) {
	query, args, err := psql.
		Insert(checkTable).
		Columns("student_id", "note", "is_archived", "docx_file", "pdf_file", "created_at").
		Values(chk.StudentID, chk.Note, chk.IsArchived, chk.DocxFile, chk.PDFFile, chk.CreatedAt.UTC()).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return check.Check{}, errors.Wrap(err, "building insert query")
	}

	if err = repo.db.GetContext(ctx, &chk.ID, query, args...); err != nil {
		return check.Check{}, errors.Wrap(err, "inserting check")
	}
	return chk, nil
}

func (repo checkRepository) getCheck(ctx context.Context, pred interface{}) (check.Check, error) {
	query, args, err := selectChecks().Where(pred).ToSql()
	if err != nil {
		return check.Check{}, errors.Wrap(err, "building select query")
	}

	var c dbCheck
	if err = repo.db.GetContext(ctx, &c, query, args...); err != nil {
		return check.Check{}, trapNoRowsErr(err, check.ErrNotFound, "finding check")
	}
	return c.toCore(), nil
}

func (repo checkRepository) GetCheckByID(ctx context.Context, id int) (check.Check, error) {
	return repo.getCheck(ctx, sq.Eq{"c.id": id})
}

func (repo checkRepository) GetActiveCheckByStudentID(ctx context.Context, studentID int) (check.Check, error) {
	return repo.getCheck(ctx, sq.Eq{"c.student_id": studentID, "c.is_archived": false})
}

func (repo checkRepository) FilterChecks(ctx context.Context, filter check.QueryFilter) ([]check.Check, error) {
	qb := selectChecks().
		Where(sq.Eq{"c.is_archived": filter.Archived}).
		OrderBy(core.DBOrdering{Field: "c.created_at", Ascending: true}.String())
	if filter.StudentUsername != "" {
		qb = qb.Where(sq.Eq{"u.username": filter.StudentUsername})
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building select query")
	}

	var rows []dbCheck
	if err = repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying checks")
	}

	checks := make([]check.Check, 0, len(rows))
	for _, c := range rows {
		checks = append(checks, c.toCore())
	}
	return checks, nil
}

func (repo checkRepository) SetCheckArchived(ctx context.Context, id int, archived bool) (check.Check, error) {
	query, args, err := psql.
		Update(checkTable).
		Set("is_archived", archived).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return check.Check{}, errors.Wrap(err, "building update query")
	}

	res, err := repo.db.ExecContext(ctx, query, args...)
	if err != nil {
		return check.Check{}, errors.Wrap(err, "updating check")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return check.Check{}, check.ErrNotFound
	}
	return repo.GetCheckByID(ctx, id)
}

func (repo checkRepository) DeleteCheck(ctx context.Context, id int) error {
	// remarks cascade at the schema level
	query, args, err := psql.
		Delete(checkTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}

	if _, err = repo.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "deleting check")
	}
	return nil
}

func (repo checkRepository) CreateRemark(ctx context.Context, rmk check.Remark) (check.Remark, error) {
	query, args, err := psql.
		Insert(remarkTable).
		Columns("check_id", "author_id", "section", "page_number", "paragraph", "check_all", "text", "created_at").
		Values(rmk.CheckID, rmk.AuthorID, rmk.Section, rmk.PageNumber, rmk.Paragraph, rmk.CheckAll, rmk.Text, rmk.CreatedAt.UTC()).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return check.Remark{}, errors.Wrap(err, "building insert query")
	}

	if err = repo.db.GetContext(ctx, &rmk.ID, query, args...); err != nil {
		return check.Remark{}, errors.Wrap(err, "inserting remark")
	}
	return rmk, nil
}

func (repo checkRepository) GetRemarkByID(ctx context.Context, id int) (check.Remark, error) {
	query, args, err := psql.
		Select("*").
		From(remarkTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return check.Remark{}, errors.Wrap(err, "building select query")
	}

	var r dbRemark
	if err = repo.db.GetContext(ctx, &r, query, args...); err != nil {
		return check.Remark{}, trapNoRowsErr(err, check.ErrRemarkNotFound, "finding remark")
	}
	return r.toCore(), nil
}

func (repo checkRepository) QueryRemarksByCheckID(ctx context.Context, checkID int) ([]check.Remark, error) {
	query, args, err := psql.
		Select("*").
		From(remarkTable).
		Where(sq.Eq{"check_id": checkID}).
		OrderBy(core.DBOrdering{Field: "created_at", Ascending: true}.String()).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building select query")
	}

	var rows []dbRemark
	if err = repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying remarks")
	}

	remarks := make([]check.Remark, 0, len(rows))
	for _, r := range rows {
		remarks = append(remarks, r.toCore())
	}
	return remarks, nil
}

func (repo checkRepository) UpdateRemark(ctx context.Context, rmk check.Remark) (check.Remark, error) {
	query, args, err := psql.
		Update(remarkTable).
		Set("section", rmk.Section).
		Set("page_number", rmk.PageNumber).
		Set("paragraph", rmk.Paragraph).
		Set("check_all", rmk.CheckAll).
		Set("text", rmk.Text).
		Where(sq.Eq{"id": rmk.ID}).
		ToSql()
	if err != nil {
		return check.Remark{}, errors.Wrap(err, "building update query")
	}

	res, err := repo.db.ExecContext(ctx, query, args...)
	if err != nil {
		return check.Remark{}, errors.Wrap(err, "updating remark")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return check.Remark{}, check.ErrRemarkNotFound
	}
	return rmk, nil
}

func (repo checkRepository) DeleteRemark(ctx context.Context, id int) error {
	query, args, err := psql.
		Delete(remarkTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}

	if _, err = repo.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "deleting remark")
	}
	return nil
}
