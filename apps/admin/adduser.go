package main

import (
	"context"

	"github.com/volatiletech/null/v8"

	"github.com/normoctl/normocontrol/core/group"
	"github.com/normoctl/normocontrol/core/user"
)

// addUser creates a user.User, optionally with reviewer rights.
func (cli *commandLine) addUser(uname, email, pwd string, isReviewer bool) error {
	ctx := context.Background()

	nu := user.NewUser{
		Username:        uname,
		Email:           email,
		Password:        pwd,
		PasswordConfirm: pwd,
	}
	if err := nu.Validate(cli.usrSvc); err != nil {
		return err
	}

	usr, err := cli.usrSvc.Create(ctx, nu)
	if err != nil {
		return err
	}
	if isReviewer {
		if _, err = cli.usrSvc.SetReviewer(ctx, usr.ID, true); err != nil {
			return err
		}
	}
	return nil
}

// addGroup creates a student group; the slug is derived from the title
// when not given.
func (cli *commandLine) addGroup(title, slug string) error {
	ng := group.NewGroup{Title: title, Slug: slug}
	if err := ng.Validate(cli.groupSvc); err != nil {
		return err
	}
	_, err := cli.groupSvc.Create(context.Background(), ng)
	return err
}

// setGroup assigns a user to an existing group.
func (cli *commandLine) setGroup(uname, slug string) error {
	ctx := context.Background()

	usr, err := cli.usrSvc.GetByUsername(ctx, uname)
	if err != nil {
		return err
	}
	grp, err := cli.groupSvc.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}

	_, err = cli.usrSvc.SetGroup(ctx, usr.ID, null.IntFrom(grp.ID))
	return err
}

// delUser removes a user; their checks and remarks go with them.
func (cli *commandLine) delUser(uname string) error {
	ctx := context.Background()

	usr, err := cli.usrSvc.GetByUsername(ctx, uname)
	if err != nil {
		return err
	}
	return cli.usrSvc.Delete(ctx, usr.ID)
}

// delGroup removes a group; its members keep their accounts with no group.
func (cli *commandLine) delGroup(slug string) error {
	ctx := context.Background()

	grp, err := cli.groupSvc.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	return cli.groupSvc.Delete(ctx, grp.ID)
}
