package check_test

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/normoctl/normocontrol/core"
	"github.com/normoctl/normocontrol/core/check"
	emailsvc "github.com/normoctl/normocontrol/services/email"
	logsvc "github.com/normoctl/normocontrol/services/logger"
	"github.com/normoctl/normocontrol/storage/database/inmem"
	"github.com/normoctl/normocontrol/storage/files"
	testutil "github.com/normoctl/normocontrol/tests"
)

type checkFixture struct {
	db      *inmem.DB
	svc     *check.Service
	repo    check.Repository
	mailSvc *emailsvc.MockService
	media   string
}

func newFixture(t *testing.T) *checkFixture {
	testutil.Setup()

	db := inmem.NewDB()
	media := t.TempDir()
	mailSvc := emailsvc.NewMockService()
	svc := check.NewService(
		inmem.NewCheckRepository(db),
		inmem.NewUserRepository(db),
		files.NewLocalStorage(media),
		mailSvc,
		logsvc.NewConsoleLogger(log.New(io.Discard, "", 0)),
	)
	return &checkFixture{
		db:      db,
		svc:     svc,
		repo:    inmem.NewCheckRepository(db),
		mailSvc: mailSvc,
		media:   media,
	}
}

func newCheckInput(note string) check.NewCheck {
	return check.NewCheck{
		Docx: &check.FileUpload{Name: "thesis.docx", Size: 12, Content: strings.NewReader("docx content")},
		PDF:  &check.FileUpload{Name: "thesis.pdf", Size: 11, Content: strings.NewReader("pdf content")},
		Note: note,
	}
}

func (f *checkFixture) fileExists(path string) bool {
	_, err := os.Stat(filepath.Join(f.media, filepath.FromSlash(path)))
	return err == nil
}

func TestService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	student := testutil.CreateUser(t, inmem.NewUserRepository(f.db), "awe", "awe@test.cd", "", false)

	chk, err := f.svc.Create(ctx, student, newCheckInput("please review"))
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if chk.StudentID != student.ID || chk.IsArchived {
		t.Errorf("unexpected check: %+v", chk)
	}
	if chk.Note.String != "please review" {
		t.Errorf("note = %q", chk.Note.String)
	}
	if !f.fileExists(chk.DocxFile) || !f.fileExists(chk.PDFFile) {
		t.Errorf("stored files missing: %s %s", chk.DocxFile, chk.PDFFile)
	}

	t.Run("second active check is rejected", func(t *testing.T) {
		if _, err := f.svc.Create(ctx, student, newCheckInput("")); errors.Cause(err) != check.ErrActiveCheckExists {
			t.Errorf("Create() error = %v; want %v", err, check.ErrActiveCheckExists)
		}
	})

	t.Run("archived check does not block a new one", func(t *testing.T) {
		if _, err := f.svc.Archive(ctx, chk.ID); err != nil {
			t.Fatalf("Archive() failed: %v", err)
		}
		if _, err := f.svc.Create(ctx, student, newCheckInput("")); err != nil {
			t.Errorf("Create() failed: %v", err)
		}
	})
}

func TestService_Create_notifiesAdmins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	usrRepo := inmem.NewUserRepository(f.db)
	student := testutil.CreateUser(t, usrRepo, "awe", "awe@test.cd", "", false)

	t.Run("falls back to configured admin emails", func(t *testing.T) {
		prevAdmins := core.Conf.AdminEmails
		core.Conf.AdminEmails = []string{"admin@test.cd"}
		defer func() { core.Conf.AdminEmails = prevAdmins }()

		if _, err := f.svc.Create(ctx, student, newCheckInput("")); err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
		sent := f.mailSvc.SentMessages()
		if len(sent) != 1 || sent[0].To[0].Address != "admin@test.cd" {
			t.Errorf("unexpected notifications: %+v", sent)
		}
	})

	t.Run("prefers reviewers with an email", func(t *testing.T) {
		f.mailSvc.Reset()
		testutil.CreateUser(t, usrRepo, "prof", "prof@test.cd", "", true)
		kat := testutil.CreateUser(t, usrRepo, "kat", "kat@test.cd", "", false)

		if _, err := f.svc.Create(ctx, kat, newCheckInput("")); err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
		sent := f.mailSvc.SentMessages()
		if len(sent) != 1 || sent[0].To[0].Address != "prof@test.cd" {
			t.Errorf("unexpected notifications: %+v", sent)
		}
	})
}

func TestService_Archive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	student := testutil.CreateUser(t, inmem.NewUserRepository(f.db), "awe", "awe@test.cd", "", false)

	chk, err := f.svc.Create(ctx, student, newCheckInput(""))
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	archived, err := f.svc.Archive(ctx, chk.ID)
	if err != nil {
		t.Fatalf("Archive() failed: %v", err)
	}
	if !archived.IsArchived {
		t.Error("check not archived")
	}
	// the row keeps its (now dangling) file paths; the files are gone
	if archived.DocxFile != chk.DocxFile || archived.PDFFile != chk.PDFFile {
		t.Errorf("file paths changed: %+v", archived)
	}
	if f.fileExists(chk.DocxFile) || f.fileExists(chk.PDFFile) {
		t.Error("stored files not deleted")
	}

	t.Run("reactivate flips the flag only", func(t *testing.T) {
		active, err := f.svc.Reactivate(ctx, chk.ID)
		if err != nil {
			t.Fatalf("Reactivate() failed: %v", err)
		}
		if active.IsArchived {
			t.Error("check still archived")
		}
		if f.fileExists(chk.DocxFile) {
			t.Error("deleted files must not come back")
		}
	})

	t.Run("unknown check", func(t *testing.T) {
		if _, err := f.svc.Archive(ctx, 999); errors.Cause(err) != check.ErrNotFound {
			t.Errorf("Archive() error = %v; want %v", err, check.ErrNotFound)
		}
	})
}

func TestService_AddRemarks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	usrRepo := inmem.NewUserRepository(f.db)
	student := testutil.CreateUser(t, usrRepo, "awe", "awe@test.cd", "", false)
	reviewer := testutil.CreateUser(t, usrRepo, "prof", "prof@test.cd", "", true)
	chk := testutil.CreateCheck(t, f.repo, student, "", false)

	t.Run("fan-out follows catalog order", func(t *testing.T) {
		created, err := f.svc.AddRemarks(ctx, reviewer, chk.ID, check.RemarkForm{
			Section:    "body",
			PageNumber: "4",
			CustomText: "Custom remark first",
			Checked:    []string{"err_text_1", "err_main_2"}, // out of catalog order on purpose
		})
		if err != nil {
			t.Fatalf("AddRemarks() failed: %v", err)
		}
		if len(created) != 3 {
			t.Fatalf("created = %d remarks; want 3", len(created))
		}

		mainLabel, _ := check.CannedLabel("err_main_2")
		textLabel, _ := check.CannedLabel("err_text_1")
		wantTexts := []string{"Custom remark first", mainLabel, textLabel}
		for i, rmk := range created {
			if rmk.Text != wantTexts[i] {
				t.Errorf("remark[%d].Text = %q; want %q", i, rmk.Text, wantTexts[i])
			}
			if rmk.Section != "Main body" || rmk.PageNumber.String != "4" {
				t.Errorf("remark[%d] location mismatch: %+v", i, rmk)
			}
		}
	})

	t.Run("empty selection is a silent no-op", func(t *testing.T) {
		created, err := f.svc.AddRemarks(ctx, reviewer, chk.ID, check.RemarkForm{Section: "title"})
		if err != nil {
			t.Fatalf("AddRemarks() failed: %v", err)
		}
		if len(created) != 0 {
			t.Errorf("created = %d remarks; want 0", len(created))
		}
	})

	t.Run("unknown check", func(t *testing.T) {
		_, err := f.svc.AddRemarks(ctx, reviewer, 999, check.RemarkForm{Section: "title", CustomText: "x"})
		if errors.Cause(err) != check.ErrNotFound {
			t.Errorf("AddRemarks() error = %v; want %v", err, check.ErrNotFound)
		}
	})
}

func TestService_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	usrRepo := inmem.NewUserRepository(f.db)
	student := testutil.CreateUser(t, usrRepo, "awe", "awe@test.cd", "", false)
	reviewer := testutil.CreateUser(t, usrRepo, "prof", "prof@test.cd", "", true)

	chk, err := f.svc.Create(ctx, student, newCheckInput(""))
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	rmk := testutil.CreateRemark(t, f.repo, chk, reviewer, "Title page", "lol")

	if err = f.svc.Delete(ctx, chk.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err = f.repo.GetCheckByID(ctx, chk.ID); errors.Cause(err) != check.ErrNotFound {
		t.Errorf("GetCheckByID() error = %v; want %v", err, check.ErrNotFound)
	}
	if _, err = f.repo.GetRemarkByID(ctx, rmk.ID); errors.Cause(err) != check.ErrRemarkNotFound {
		t.Errorf("GetRemarkByID() error = %v; want %v", err, check.ErrRemarkNotFound)
	}
	if f.fileExists(chk.DocxFile) || f.fileExists(chk.PDFFile) {
		t.Error("stored files not deleted")
	}
}
