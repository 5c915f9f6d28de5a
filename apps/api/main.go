package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/normoctl/normocontrol/apps/api/echo"
	"github.com/normoctl/normocontrol/core"
	"github.com/normoctl/normocontrol/core/check"
	"github.com/normoctl/normocontrol/core/group"
	"github.com/normoctl/normocontrol/core/user"
	emailsvc "github.com/normoctl/normocontrol/services/email"
	logsvc "github.com/normoctl/normocontrol/services/logger"
	"github.com/normoctl/normocontrol/storage/database"
	sqlxrepos "github.com/normoctl/normocontrol/storage/database/sqlx"
	"github.com/normoctl/normocontrol/storage/files"
)

func main() {
	conf := core.LoadConfig()
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	var logger core.Logger
	if conf.RollbarToken != "" {
		logger = logsvc.NewRollbarLogger(std, conf)
	} else {
		logger = logsvc.NewConsoleLogger(std)
	}

	// set up DB
	sdb, err := database.Open(conf)
	errAndDie(logger, err)
	db := sqlx.NewDb(sdb, conf.Database.Engine)
	defer func() { _ = db.Close() }()
	errAndDie(logger, db.Ping())
	errAndDie(logger, database.Migrate(sdb))

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}
	usrRepo := sqlxrepos.NewUserRepository(db)
	usrSvc := user.NewService(usrRepo)
	groupSvc := group.NewService(sqlxrepos.NewGroupRepository(db))
	checkSvc := check.NewService(
		sqlxrepos.NewCheckRepository(db),
		usrRepo,
		files.NewLocalStorage(conf.MediaRoot),
		mailSvc,
		logger,
	)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	app := echoapi.NewServer(&echoapi.Options{
		Address:        conf.ServerAddress(),
		Logger:         logger,
		SignalShutdown: func() { shutdown <- syscall.SIGTERM },
		UserSvc:        usrSvc,
		GroupSvc:       groupSvc,
		CheckSvc:       checkSvc,
	})

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server listening on " + conf.ServerAddress())
		serverErrors <- app.Start()
	}()

	select {
	case err := <-serverErrors:
		errAndDie(logger, err)
	case sig := <-shutdown:
		logger.Info("shutdown started", sig)

		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()
		if err := app.Stop(ctx); err != nil {
			logger.Error("graceful shutdown failed", err)
		}
	}
}

func errAndDie(logger core.Logger, err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
