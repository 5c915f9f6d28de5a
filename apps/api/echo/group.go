package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/normoctl/normocontrol/core/group"
)

func (s *server) groupList(ctx echo.Context) error {
	groups, err := s.opts.GroupSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, groups)
}

func (s *server) newGroup(ctx echo.Context) error {
	var ng group.NewGroup
	if err := ctx.Bind(&ng); err != nil {
		return errors.Wrap(err, "binding NewGroup")
	}
	if err := ng.Validate(s.opts.GroupSvc); err != nil {
		return err
	}

	if _, err := s.opts.GroupSvc.Create(ctx.Request().Context(), ng); err != nil {
		return errors.Wrap(err, "creating group")
	}
	return ctx.Redirect(http.StatusFound, "/group/")
}

func (s *server) groupStudents(ctx echo.Context) error {
	grp, err := s.opts.GroupSvc.GetBySlug(ctx.Request().Context(), ctx.Param("slug"))
	if err != nil {
		return err
	}

	students, err := s.opts.UserSvc.QueryByGroup(ctx.Request().Context(), grp.ID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"group":    grp,
		"students": students,
	})
}
