package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/normoctl/normocontrol/core/check"
)

func (s *server) studentList(ctx echo.Context) error {
	students, err := s.opts.UserSvc.QueryStudents(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, students)
}

// studentActiveCheck shows a student's current active check, if any.
func (s *server) studentActiveCheck(ctx echo.Context) error {
	student, err := s.opts.UserSvc.GetByUsername(ctx.Request().Context(), ctx.Param("username"))
	if err != nil {
		return err
	}

	chk, err := s.opts.CheckSvc.GetActiveForStudent(ctx.Request().Context(), student.ID)
	if err != nil {
		if errors.Cause(err) == check.ErrNotFound {
			return ctx.JSON(http.StatusOK, echo.Map{
				"student": student,
				"check":   nil,
			})
		}
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"student": student,
		"check":   chk,
	})
}
