package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/normoctl/normocontrol/core"
	"github.com/normoctl/normocontrol/core/group"
	"github.com/normoctl/normocontrol/core/user"
	"github.com/normoctl/normocontrol/storage/database"
	sqlxrepos "github.com/normoctl/normocontrol/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	conf := core.LoadConfig()

	// set up DB
	sdb, err := database.Open(conf)
	errAndDie(err)
	db := sqlx.NewDb(sdb, conf.Database.Engine)
	defer func() { _ = db.Close() }()
	errAndDie(db.Ping())

	// start CLI
	cli := commandLine{
		db:       sdb,
		usrSvc:   user.NewService(sqlxrepos.NewUserRepository(db)),
		groupSvc: group.NewService(sqlxrepos.NewGroupRepository(db)),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
