package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/normoctl/normocontrol/core"
	"github.com/normoctl/normocontrol/core/user"
)

func (s *server) signup(ctx echo.Context) error {
	var nu user.NewUser
	if err := ctx.Bind(&nu); err != nil {
		return errors.Wrap(err, "binding NewUser")
	}
	if err := nu.Validate(s.opts.UserSvc); err != nil {
		return err
	}

	usr, err := s.opts.UserSvc.Create(ctx.Request().Context(), nu)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}
	return ctx.JSON(http.StatusCreated, usr)
}

func (s *server) loginForm(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"next": safeNextPath(ctx.QueryParam("next"))})
}

type loginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
	Next     string `json:"next" form:"next"`
}

func (s *server) login(ctx echo.Context) error {
	var req loginRequest
	if err := ctx.Bind(&req); err != nil {
		return errors.Wrap(err, "binding login request")
	}
	if err := core.Validate.Struct(&req); err != nil {
		return err
	}

	usr, err := authenticate(ctx, req.Username, req.Password, s.opts.UserSvc)
	if err != nil {
		return err
	}

	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	setTokenCookie(ctx, token, time.Unix(claims.ExpiresAt, 0))

	next := req.Next
	if next == "" {
		next = ctx.QueryParam("next")
	}
	return ctx.Redirect(http.StatusFound, safeNextPath(next))
}

func (s *server) logout(ctx echo.Context) error {
	clearTokenCookie(ctx)
	return ctx.Redirect(http.StatusFound, loginPath)
}
