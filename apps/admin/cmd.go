package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/normoctl/normocontrol/core/group"
	"github.com/normoctl/normocontrol/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db       *sql.DB
	usrSvc   *user.Service
	groupSvc *group.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  adduser -username USERNAME [-email EMAIL] [-reviewer] - create a user; the password is prompted")
	fmt.Println("  addgroup -title TITLE [-slug SLUG] - create a student group")
	fmt.Println("  setgroup -username USERNAME -group SLUG - assign a user to a group")
	fmt.Println("  deluser -username USERNAME - delete a user along with their checks and remarks")
	fmt.Println("  delgroup -slug SLUG - delete a group; its members are kept without a group")
	fmt.Println("  migrate COMMAND [args] - run database migrations (up, down, status, ...)")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ExitOnError)
	addUserUname := addUserCmd.String("username", "", "The user's username. The password will be prompted next.")
	addUserEmail := addUserCmd.String("email", "", "The user's email (optional).")
	addUserReviewer := addUserCmd.Bool("reviewer", false, "Grant the user reviewer rights.")

	addGroupCmd := flag.NewFlagSet("addgroup", flag.ExitOnError)
	addGroupTitle := addGroupCmd.String("title", "", "The group's title.")
	addGroupSlug := addGroupCmd.String("slug", "", "The group's slug (derived from title when omitted).")

	setGroupCmd := flag.NewFlagSet("setgroup", flag.ExitOnError)
	setGroupUname := setGroupCmd.String("username", "", "The user's username.")
	setGroupSlug := setGroupCmd.String("group", "", "The group's slug.")

	delUserCmd := flag.NewFlagSet("deluser", flag.ExitOnError)
	delUserUname := delUserCmd.String("username", "", "The user's username.")

	delGroupCmd := flag.NewFlagSet("delgroup", flag.ExitOnError)
	delGroupSlug := delGroupCmd.String("slug", "", "The group's slug.")

	switch args[1] {
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserUname == "" {
			addUserCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(*addUserUname, *addUserEmail, string(pwd), *addUserReviewer)
	case "addgroup":
		if err := addGroupCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addGroupTitle == "" {
			addGroupCmd.Usage()
			return errHelp
		}
		return cli.addGroup(*addGroupTitle, *addGroupSlug)
	case "setgroup":
		if err := setGroupCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *setGroupUname == "" || *setGroupSlug == "" {
			setGroupCmd.Usage()
			return errHelp
		}
		return cli.setGroup(*setGroupUname, *setGroupSlug)
	case "deluser":
		if err := delUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *delUserUname == "" {
			delUserCmd.Usage()
			return errHelp
		}
		return cli.delUser(*delUserUname)
	case "delgroup":
		if err := delGroupCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *delGroupSlug == "" {
			delGroupCmd.Usage()
			return errHelp
		}
		return cli.delGroup(*delGroupSlug)
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}
