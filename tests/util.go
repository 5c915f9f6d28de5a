// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/normoctl/normocontrol/core"
	"github.com/normoctl/normocontrol/core/check"
	"github.com/normoctl/normocontrol/core/group"
	"github.com/normoctl/normocontrol/core/user"
)

// Setup loads the TEST configuration once per test binary.
func Setup() {
	if core.Conf == nil {
		_ = os.Setenv("ENV", "TEST")
		core.LoadConfig()
	}
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	uname, email, pwd string,
	isReviewer bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Username:   uname,
		Email:      email,
		IsReviewer: isReviewer,
		CreatedAt:  tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateGroup(t *testing.T, repo group.Repository, title, slug string) group.Group {
	t.Helper()

	grp, err := repo.CreateGroup(context.Background(), group.Group{Title: title, Slug: slug})
	if err != nil {
		t.Fatalf("CreateGroup() failed: %v", err)
	}
	return grp
}

func CreateCheck(
	t *testing.T,
	repo check.Repository,
	student user.User,
	note string,
	archived bool,
	createdAt ...time.Time,
) check.Check {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	chk := check.Check{
		StudentID:       student.ID,
		StudentUsername: student.Username,
		Note:            null.NewString(note, note != ""),
		IsArchived:      archived,
		DocxFile:        "diplomas/2021/01/01/thesis.docx",
		PDFFile:         "diplomas/2021/01/01/thesis.pdf",
		CreatedAt:       tstamp,
	}
	chk, err := repo.CreateCheck(context.Background(), chk)
	if err != nil {
		t.Fatalf("CreateCheck() failed: %v", err)
	}
	return chk
}

func CreateRemark(
	t *testing.T,
	repo check.Repository,
	chk check.Check,
	author user.User,
	section, text string,
) check.Remark {
	t.Helper()

	rmk := check.Remark{
		CheckID:   chk.ID,
		AuthorID:  author.ID,
		Section:   section,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	rmk, err := repo.CreateRemark(context.Background(), rmk)
	if err != nil {
		t.Fatalf("CreateRemark() failed: %v", err)
	}
	return rmk
}
