package main

import (
	"log"
	"os"

	"github.com/rssbrudrapur/sewabase/core"
	"github.com/rssbrudrapur/sewabase/core/user"
	emailsvc "github.com/rssbrudrapur/sewabase/services/email"
	logsvc "github.com/rssbrudrapur/sewabase/services/logger"
	"github.com/rssbrudrapur/sewabase/storage/database"
	sqlxrepos "github.com/rssbrudrapur/sewabase/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// set up DB
	db, err := database.Open(&core.Conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())

	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailLogger := logsvc.NewRollbarLogger(logger, &core.Conf)
		mailLogger.Enable(true)
		mailSvc = emailsvc.NewSendgridService(mailLogger)
	}

	// start CLI
	cli := commandLine{
		db:      db,
		usrSvc:  user.NewService(sqlxrepos.NewUserRepository(db)),
		mailSvc: mailSvc,
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
