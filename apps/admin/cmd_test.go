package main

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"testing"

	"github.com/volatiletech/null/v8"

	"github.com/normoctl/normocontrol/core/check"
	"github.com/normoctl/normocontrol/core/group"
	"github.com/normoctl/normocontrol/core/user"
	"github.com/normoctl/normocontrol/storage/database/inmem"
	testutil "github.com/normoctl/normocontrol/tests"
)

var (
	usrRepo   user.Repository
	groupRepo group.Repository
	checkRepo check.Repository
)

func setup(t *testing.T) *commandLine {
	testutil.Setup()

	db := inmem.NewDB()
	usrRepo = inmem.NewUserRepository(db)
	groupRepo = inmem.NewGroupRepository(db)
	checkRepo = inmem.NewCheckRepository(db)

	// start CLI
	return &commandLine{
		usrSvc:   user.NewService(usrRepo),
		groupSvc: group.NewService(groupRepo),
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	gooseRunFunc = func(command string, db *sql.DB, dir string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "remark", "sql"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			}
		})
	}
}

func Test_commandLine_addUser(t *testing.T) {
	cli := setup(t)
	ctx := context.Background()

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "username but no password", args: []string{"adduser", "-username", "awe"}, wantErr: errHelp},
		{name: "add student", args: []string{"adduser", "-username", "awe", "-email", "awe@test.cd"}, extra: extra{pwd: "!@#TripleH!@#"}},
		{name: "add reviewer", args: []string{"adduser", "-username", "prof", "-reviewer"}, extra: extra{pwd: "!@#TripleH!@#"}},
		{name: "duplicate username", args: []string{"adduser", "-username", "awe"}, extra: extra{pwd: "!@#TripleH!@#"}, wantErrStr: "a user with this username already exists"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if tt.wantErrStr != "" {
				if err == nil || err.Error() != tt.wantErrStr {
					t.Errorf("cli.run() error = %v, wantErrStr %s", err, tt.wantErrStr)
				}
				return
			}
			if err != nil {
				t.Fatalf("cli.run() unexpected error = %v", err)
			}
		})
	}

	usr, err := usrRepo.GetUserByUsername(ctx, "prof")
	if err != nil {
		t.Fatalf("GetUserByUsername() failed: %v", err)
	}
	if !usr.IsReviewer {
		t.Error("reviewer flag not set")
	}
	if err = usr.CheckPassword("!@#TripleH!@#"); err != nil {
		t.Error("password not set")
	}
}

func Test_commandLine_groups(t *testing.T) {
	cli := setup(t)
	ctx := context.Background()
	testutil.CreateUser(t, usrRepo, "awe", "awe@test.cd", "", false)

	tests := []cliTest{
		{name: "addgroup: no args", args: []string{"addgroup"}, wantErr: errHelp},
		{name: "addgroup", args: []string{"addgroup", "-title", "Group 101 B"}},
		{name: "addgroup: duplicate slug", args: []string{"addgroup", "-title", "Other", "-slug", "group-101-b"}, wantErrStr: "a group with this slug already exists"},
		{name: "setgroup: no group", args: []string{"setgroup", "-username", "awe"}, wantErr: errHelp},
		{name: "setgroup: unknown user", args: []string{"setgroup", "-username", "lol", "-group", "group-101-b"}, wantErr: user.ErrNotFound},
		{name: "setgroup: unknown group", args: []string{"setgroup", "-username", "awe", "-group", "lol"}, wantErr: group.ErrNotFound},
		{name: "setgroup", args: []string{"setgroup", "-username", "awe", "-group", "group-101-b"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if tt.wantErrStr != "" {
				if err == nil || err.Error() != tt.wantErrStr {
					t.Errorf("cli.run() error = %v, wantErrStr %s", err, tt.wantErrStr)
				}
				return
			}
			if err != nil {
				t.Fatalf("cli.run() unexpected error = %v", err)
			}
		})
	}

	grp, err := groupRepo.GetGroupBySlug(ctx, "group-101-b")
	if err != nil {
		t.Fatalf("GetGroupBySlug() failed: %v", err)
	}
	usr, err := usrRepo.GetUserByUsername(ctx, "awe")
	if err != nil {
		t.Fatalf("GetUserByUsername() failed: %v", err)
	}
	if !usr.GroupID.Valid || int(usr.GroupID.Int) != grp.ID {
		t.Errorf("user group = %+v; want %d", usr.GroupID, grp.ID)
	}
}

func Test_commandLine_delUser(t *testing.T) {
	cli := setup(t)
	ctx := context.Background()
	awe := testutil.CreateUser(t, usrRepo, "awe", "awe@test.cd", "", false)
	prof := testutil.CreateUser(t, usrRepo, "prof", "prof@test.cd", "", true)
	chk := testutil.CreateCheck(t, checkRepo, awe, "", false)
	rmk := testutil.CreateRemark(t, checkRepo, chk, prof, "Title page", "Heading ends with a period")

	tests := []cliTest{
		{name: "no args", args: []string{"deluser"}, wantErr: errHelp},
		{name: "unknown user", args: []string{"deluser", "-username", "lol"}, wantErr: user.ErrNotFound},
		{name: "deluser", args: []string{"deluser", "-username", "awe"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("cli.run() unexpected error = %v", err)
			}
		})
	}

	if _, err := usrRepo.GetUserByUsername(ctx, "awe"); err != user.ErrNotFound {
		t.Errorf("GetUserByUsername() error = %v; want %v", err, user.ErrNotFound)
	}
	// the user's checks and remarks go with them
	if _, err := checkRepo.GetCheckByID(ctx, chk.ID); err != check.ErrNotFound {
		t.Errorf("GetCheckByID() error = %v; want %v", err, check.ErrNotFound)
	}
	if _, err := checkRepo.GetRemarkByID(ctx, rmk.ID); err != check.ErrRemarkNotFound {
		t.Errorf("GetRemarkByID() error = %v; want %v", err, check.ErrRemarkNotFound)
	}
}

func Test_commandLine_delGroup(t *testing.T) {
	cli := setup(t)
	ctx := context.Background()
	grp := testutil.CreateGroup(t, groupRepo, "Group 101 B", "group-101-b")
	awe := testutil.CreateUser(t, usrRepo, "awe", "awe@test.cd", "", false)
	if _, err := usrRepo.SetUserGroup(ctx, awe.ID, null.IntFrom(grp.ID)); err != nil {
		t.Fatalf("SetUserGroup() failed: %v", err)
	}

	tests := []cliTest{
		{name: "no args", args: []string{"delgroup"}, wantErr: errHelp},
		{name: "unknown group", args: []string{"delgroup", "-slug", "lol"}, wantErr: group.ErrNotFound},
		{name: "delgroup", args: []string{"delgroup", "-slug", "group-101-b"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("cli.run() unexpected error = %v", err)
			}
		})
	}

	if _, err := groupRepo.GetGroupBySlug(ctx, "group-101-b"); err != group.ErrNotFound {
		t.Errorf("GetGroupBySlug() error = %v; want %v", err, group.ErrNotFound)
	}
	// members keep their accounts with no group
	refreshed, err := usrRepo.GetUserByUsername(ctx, "awe")
	if err != nil {
		t.Fatalf("GetUserByUsername() failed: %v", err)
	}
	if refreshed.GroupID.Valid {
		t.Errorf("user group = %+v; want null", refreshed.GroupID)
	}
}
