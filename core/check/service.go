package check

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/normoctl/normocontrol/core"
	"github.com/normoctl/normocontrol/core/user"
)

var (
	ErrNotFound          = errors.New("check not found")
	ErrRemarkNotFound    = errors.New("remark not found")
	ErrActiveCheckExists = errors.New("student already has an active check")
)

type (
	Repository interface {
		CreateCheck(ctx context.Context, chk Check) (Check, error)
		GetCheckByID(ctx context.Context, id int) (Check, error)
		// GetActiveCheckByStudentID returns ErrNotFound when the student
		// has no active (non-archived) check.
		GetActiveCheckByStudentID(ctx context.Context, studentID int) (Check, error)
		// FilterChecks returns matches ordered by creation time ascending.
		FilterChecks(ctx context.Context, filter QueryFilter) ([]Check, error)
		SetCheckArchived(ctx context.Context, id int, archived bool) (Check, error)
		// DeleteCheck also drops the check's remarks.
		DeleteCheck(ctx context.Context, id int) error

		CreateRemark(ctx context.Context, rmk Remark) (Remark, error)
		GetRemarkByID(ctx context.Context, id int) (Remark, error)
		// QueryRemarksByCheckID returns remarks ordered by creation time ascending.
		QueryRemarksByCheckID(ctx context.Context, checkID int) ([]Remark, error)
		UpdateRemark(ctx context.Context, rmk Remark) (Remark, error)
		DeleteRemark(ctx context.Context, id int) error
	}

	Service struct {
		repo    Repository
		usrRepo user.Repository
		files   core.FileStorage
		mailSvc core.EmailService
		logger  core.Logger
	}
)

func NewService(repo Repository, usrRepo user.Repository, files core.FileStorage, mailSvc core.EmailService, logger core.Logger) *Service {
	return &Service{
		repo:    repo,
		usrRepo: usrRepo,
		files:   files,
		mailSvc: mailSvc,
		logger:  logger,
	}
}

// Create stores both documents and persists a new active check for the
// student. A student may only have one active check outstanding:
// ErrActiveCheckExists is returned without persisting anything.
// Admin notification is best-effort and never fails the create.
func (svc *Service) Create(ctx context.Context, student user.User, nc NewCheck) (Check, error) {
	if _, err := svc.repo.GetActiveCheckByStudentID(ctx, student.ID); err == nil {
		return Check{}, ErrActiveCheckExists
	} else if errors.Cause(err) != ErrNotFound {
		return Check{}, errors.Wrap(err, "checking for active check")
	}

	docxPath, err := svc.files.Save(ctx, nc.Docx.Name, nc.Docx.Content)
	if err != nil {
		return Check{}, errors.Wrap(err, "saving docx file")
	}
	pdfPath, err := svc.files.Save(ctx, nc.PDF.Name, nc.PDF.Content)
	if err != nil {
		return Check{}, errors.Wrap(err, "saving pdf file")
	}

	chk := Check{
		StudentID:       student.ID,
		StudentUsername: student.Username,
		Note:            null.NewString(nc.Note, nc.Note != ""),
		DocxFile:        docxPath,
		PDFFile:         pdfPath,
		CreatedAt:       time.Now().UTC(),
	}
	chk, err = svc.repo.CreateCheck(ctx, chk)
	if err != nil {
		return Check{}, errors.Wrap(err, "creating check")
	}

	svc.notifyAdmins(ctx, student)
	return chk, nil
}

// notifyAdmins emails every reviewer with a known address about the new
// check; failures are logged and swallowed.
func (svc *Service) notifyAdmins(ctx context.Context, student user.User) {
	reviewers, err := svc.usrRepo.QueryReviewers(ctx)
	if err != nil {
		svc.logger.Error("querying reviewers for check notification", err)
		return
	}

	var to []mail.Address
	for _, rev := range reviewers {
		if rev.Email != "" {
			to = append(to, mail.Address{Name: rev.Username, Address: rev.Email})
		}
	}
	if to == nil {
		for _, email := range core.Conf.AdminEmails {
			to = append(to, mail.Address{Address: email})
		}
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      to,
		Subject: "New document review request",
		Body:    fmt.Sprintf("A new document review request was submitted by %s.", student.Username),
	})
}

func (svc *Service) GetByID(ctx context.Context, id int) (Check, error) {
	return svc.repo.GetCheckByID(ctx, id)
}

// Query returns one page of checks matching the filter, ordered by creation
// time ascending, windowed at core.PageSize.
func (svc *Service) Query(ctx context.Context, filter QueryFilter, pageNumber int) (Page, error) {
	checks, err := svc.repo.FilterChecks(ctx, filter)
	if err != nil {
		return Page{}, errors.Wrap(err, "filtering checks")
	}

	info, start, end := core.Paginate(len(checks), pageNumber)
	return Page{Checks: checks[start:end], Info: info}, nil
}

// GetActiveForStudent returns the student's current active check, or
// ErrNotFound when there is none.
func (svc *Service) GetActiveForStudent(ctx context.Context, studentID int) (Check, error) {
	return svc.repo.GetActiveCheckByStudentID(ctx, studentID)
}

// Archive flags the check as archived and removes both stored documents.
// The row (including its now-dangling file paths) is retained for history.
func (svc *Service) Archive(ctx context.Context, id int) (Check, error) {
	chk, err := svc.repo.GetCheckByID(ctx, id)
	if err != nil {
		return Check{}, err
	}

	svc.deleteFiles(ctx, chk)
	return svc.repo.SetCheckArchived(ctx, id, true)
}

// Reactivate flags the check as active again. Deleted files are not restored.
func (svc *Service) Reactivate(ctx context.Context, id int) (Check, error) {
	return svc.repo.SetCheckArchived(ctx, id, false)
}

// Delete removes the check row, its remarks (cascade) and any stored files.
func (svc *Service) Delete(ctx context.Context, id int) error {
	chk, err := svc.repo.GetCheckByID(ctx, id)
	if err != nil {
		return err
	}

	svc.deleteFiles(ctx, chk)
	return svc.repo.DeleteCheck(ctx, id)
}

func (svc *Service) deleteFiles(ctx context.Context, chk Check) {
	for _, path := range []string{chk.DocxFile, chk.PDFFile} {
		if path == "" {
			continue
		}
		if err := svc.files.Delete(ctx, path); err != nil {
			svc.logger.Error(fmt.Sprintf("deleting stored file %s", path), err)
		}
	}
}

// QueryRemarks returns the check's remarks in creation order.
func (svc *Service) QueryRemarks(ctx context.Context, checkID int) ([]Remark, error) {
	return svc.repo.QueryRemarksByCheckID(ctx, checkID)
}

// AddRemarks fans one remark-authoring form out into zero or more persisted
// remarks: one for the free-text field when set, plus one per checked
// standard-error box, all sharing the navigation form's location values.
// An empty selection produces no remarks and no error.
func (svc *Service) AddRemarks(ctx context.Context, author user.User, checkID int, form RemarkForm) ([]Remark, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	chk, err := svc.repo.GetCheckByID(ctx, checkID)
	if err != nil {
		return nil, err
	}

	base := Remark{
		CheckID:    chk.ID,
		AuthorID:   author.ID,
		Section:    Section(form.Section).Label(),
		PageNumber: null.NewString(form.PageNumber, form.PageNumber != ""),
		Paragraph:  null.NewString(form.Paragraph, form.Paragraph != ""),
		CheckAll:   null.NewString(CheckAllLabel, form.CheckAll),
		CreatedAt:  time.Now().UTC(),
	}

	texts := make([]string, 0, len(form.Checked)+1)
	if form.CustomText != "" {
		texts = append(texts, form.CustomText)
	}
	checked := make(map[string]bool, len(form.Checked))
	for _, key := range form.Checked {
		checked[key] = true
	}
	// catalog order keeps the fan-out deterministic; unknown keys are ignored
	for _, cr := range CannedRemarks {
		if checked[cr.Key] {
			texts = append(texts, cr.Label)
		}
	}

	created := make([]Remark, 0, len(texts))
	for _, text := range texts {
		rmk := base
		rmk.Text = text
		rmk, err = svc.repo.CreateRemark(ctx, rmk)
		if err != nil {
			return created, errors.Wrap(err, "creating remark")
		}
		created = append(created, rmk)
	}
	return created, nil
}

func (svc *Service) GetRemark(ctx context.Context, id int) (Remark, error) {
	return svc.repo.GetRemarkByID(ctx, id)
}

// EditRemark replaces the remark's section, location and text. Validation
// failure leaves the row unchanged.
func (svc *Service) EditRemark(ctx context.Context, id int, er EditRemark) (Remark, error) {
	if err := er.Validate(); err != nil {
		return Remark{}, err
	}
	rmk, err := svc.repo.GetRemarkByID(ctx, id)
	if err != nil {
		return Remark{}, err
	}

	rmk.Section = er.Section
	rmk.PageNumber = null.StringFrom(er.PageNumber)
	rmk.Paragraph = null.StringFrom(er.Paragraph)
	rmk.Text = er.Text
	return svc.repo.UpdateRemark(ctx, rmk)
}

func (svc *Service) DeleteRemark(ctx context.Context, id int) error {
	return svc.repo.DeleteRemark(ctx, id)
}
