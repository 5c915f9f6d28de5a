package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/normoctl/normocontrol/core"
	"github.com/normoctl/normocontrol/core/check"
	"github.com/normoctl/normocontrol/core/group"
	"github.com/normoctl/normocontrol/core/user"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool
		Logger         core.Logger
		SignalShutdown func()

		UserSvc  *user.Service
		GroupSvc *group.Service
		CheckSvc *check.Service
	}

	Server interface {
		http.Handler
		Start() error
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
	appJWTConfig.SigningKey = []byte(core.Conf.SecretKey)

	s.app.Pre(middleware.AddTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(core.Conf.Debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.SignalShutdown)
	s.app.Debug = core.Conf.Debug

	s.app.GET("/", s.home)

	auth := s.app.Group("/auth")
	auth.POST("/signup/", s.signup)
	auth.GET("/login/", s.loginForm)
	auth.POST("/login/", s.login)
	auth.POST("/logout/", s.logout)

	jwt := middleware.JWTWithConfig(appJWTConfig)
	reviewer := requireReviewer()
	self := requireSelf(s.opts.UserSvc)
	selfOrReviewer := requireSelfOrReviewer(s.opts.UserSvc)

	students := s.app.Group("/students", jwt, reviewer)
	students.GET("/", s.studentList)
	students.GET("/:username/", s.studentActiveCheck)

	groups := s.app.Group("/group", jwt, reviewer)
	groups.GET("/", s.groupList)
	groups.POST("/new_group/", s.newGroup)
	groups.GET("/:slug/", s.groupStudents)

	usr := s.app.Group("/user/:username", jwt)
	usr.GET("/check_list/", s.checkList, selfOrReviewer)
	usr.GET("/archive/", s.checkArchiveList, selfOrReviewer)
	usr.POST("/new_check/", s.newCheck, self)
	usr.GET("/:id/check_view/", s.checkView, selfOrReviewer)
	usr.GET("/:id/check_delete/", s.checkDelete, selfOrReviewer)
	usr.GET("/:id/check_archive/", s.checkArchive, reviewer)
	usr.GET("/:id/check_active/", s.checkActivate, reviewer)
	usr.POST("/:id/add_remark/", s.addRemark, reviewer)
	usr.GET("/:id/:remark_id/delete_remark/", s.deleteRemark, reviewer)
	usr.POST("/:id/:remark_id/edit_remark/", s.editRemark, reviewer)
}

func (s *server) Start() error {
	return s.app.Start(s.opts.Address)
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *server) home(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"app": core.Conf.AppName})
}
