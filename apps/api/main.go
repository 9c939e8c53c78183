package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/rssbrudrapur/sewabase/apps/api/echo"
	"github.com/rssbrudrapur/sewabase/core"
	"github.com/rssbrudrapur/sewabase/core/attendance"
	"github.com/rssbrudrapur/sewabase/core/audit"
	"github.com/rssbrudrapur/sewabase/core/requests"
	"github.com/rssbrudrapur/sewabase/core/sewadar"
	"github.com/rssbrudrapur/sewabase/core/user"
	logsvc "github.com/rssbrudrapur/sewabase/services/logger"
	realtimesvc "github.com/rssbrudrapur/sewabase/services/realtime"
	uploadsvc "github.com/rssbrudrapur/sewabase/services/uploads"
	rediscache "github.com/rssbrudrapur/sewabase/storage/cache"
	"github.com/rssbrudrapur/sewabase/storage/database"
	sqlxrepos "github.com/rssbrudrapur/sewabase/storage/database/sqlx"
)

const shutdownTimeout = 20 * time.Second

func main() {
	// =========================================================================
	// Set up Dependencies

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		&core.Conf,
	)
	logger.Enable(!core.Conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		&core.Conf,
	)
	dbLogger.Enable(!core.Conf.Debug)

	db, err := setUpDB()
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			dbLogger.Error("failed to close DB", err)
		}
	}()

	images, err := uploadsvc.NewDiskStore(&core.Conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up uploads dir: %v", err), err)
	}

	// the notification channel is optional; the API runs without it
	var publisher attendance.EventPublisher
	mqtt, err := realtimesvc.NewMQTTPublisher(&core.Conf, logger)
	if err != nil {
		logger.Warn(fmt.Sprintf("MQTT broker unavailable, notifications disabled: %v", err), err)
	} else {
		publisher = mqtt
		defer mqtt.Close()
	}

	auditLog := audit.NewLogger(sqlxrepos.NewAuditRepository(db), logger)
	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db))
	sewaRepo := sqlxrepos.NewSewadarRepository(db)
	sewaSvc := sewadar.NewService(sewaRepo, images, auditLog)
	attSvc := attendance.NewService(sqlxrepos.NewAttendanceRepository(db), publisher, auditLog)
	reqSvc := requests.NewService(sqlxrepos.NewRequestRepository(db), sewaRepo, images, auditLog)

	// prime the warm-start snapshot client sessions seed from; optional
	snaps := rediscache.NewSnapshotStore(&core.Conf)
	if err = snaps.Ping(context.Background()); err != nil {
		logger.Warn(fmt.Sprintf("redis unavailable, warm-start snapshot disabled: %v", err), err)
	} else {
		defer snaps.Close()
		if recs, qerr := sewaSvc.QueryAll(sewadar.Ordering{}); qerr == nil {
			if serr := snaps.SaveRecords(context.Background(), recs); serr != nil {
				logger.Warn(fmt.Sprintf("warm-start snapshot not primed: %v", serr), serr)
			}
		}
	}

	// =========================================================================
	// Start API Service

	logger.Info(fmt.Sprintf("Application initializing: env %q", core.Conf.Env))
	defer logger.Info("Application stopped")

	server := echoapi.NewServer(&echoapi.Options{
		Address:       core.Conf.Server.Host + ":" + core.Conf.Server.Port,
		UploadsDir:    images.Dir(),
		UserSvc:       usrSvc,
		SewadarSvc:    sewaSvc,
		AttendanceSvc: attSvc,
		RequestSvc:    reqSvc,
		AuditLog:      auditLog,
	})

	go server.Start()

	// =========================================================================
	// Shutdown

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	sig := <-shutdown
	logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

	// give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err = server.Stop(ctx); err != nil {
		logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
	}
}

func setUpDB() (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(&core.Conf); err != nil {
		return nil, err
	}

	db, err := database.Open(&core.Conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
