package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/rssbrudrapur/sewabase/apps/api/echo/handlers"
	"github.com/rssbrudrapur/sewabase/apps/api/echo/helpers"
	"github.com/rssbrudrapur/sewabase/core"
	"github.com/rssbrudrapur/sewabase/core/attendance"
	"github.com/rssbrudrapur/sewabase/core/audit"
	"github.com/rssbrudrapur/sewabase/core/requests"
	"github.com/rssbrudrapur/sewabase/core/sewadar"
	"github.com/rssbrudrapur/sewabase/core/user"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool
		UploadsDir     string // directory the image files live in

		UserSvc       *user.Service
		SewadarSvc    *sewadar.Service
		AttendanceSvc *attendance.Service
		RequestSvc    *requests.Service
		AuditLog      *audit.Logger
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(core.Conf.Debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = helpers.AppHTTPErrorHandler
	s.app.Debug = core.Conf.Debug

	s.app.GET("/", home)
	if s.opts.UploadsDir != "" {
		// stored pic references are "<uploadsDir>/<file>"
		s.app.Static("/"+core.Conf.Server.UploadsDir, s.opts.UploadsDir)
	}

	api := s.app.Group("/api")
	jwt := middleware.JWTWithConfig(helpers.AppJWTConfig)
	admin := helpers.AdminMiddleware()

	handlers.RegisterAuthAPI(api, s.opts.UserSvc)
	handlers.RegisterSewadarAPI(api, jwt, admin, s.opts.SewadarSvc, s.opts.AuditLog)
	handlers.RegisterRequestsAPI(api, jwt, admin, s.opts.RequestSvc)
	handlers.RegisterAttendanceAPI(s.app, s.opts.AttendanceSvc)
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Address))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Sewabase API!")
}
