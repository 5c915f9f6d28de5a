package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/normoctl/normocontrol/core/check"
)

// pathRemark resolves the `:remark_id` path param to a remark belonging to
// the `:id` path check.
func (s *server) pathRemark(ctx echo.Context, chk check.Check) (check.Remark, error) {
	id, err := strconv.Atoi(ctx.Param("remark_id"))
	if err != nil {
		return check.Remark{}, errHttpNotFound
	}

	rmk, err := s.opts.CheckSvc.GetRemark(ctx.Request().Context(), id)
	if err != nil {
		return check.Remark{}, err
	}
	if rmk.CheckID != chk.ID {
		return check.Remark{}, errHttpNotFound
	}
	return rmk, nil
}

func (s *server) addRemark(ctx echo.Context) error {
	chk, err := s.pathCheck(ctx)
	if err != nil {
		return err
	}
	author, err := getContextUser(ctx, s.opts.UserSvc)
	if err != nil {
		return err
	}

	form, err := ctx.FormParams()
	if err != nil {
		return errors.Wrap(err, "parsing remark form")
	}
	rf := check.RemarkForm{
		Section:    ctx.FormValue("section"),
		PageNumber: ctx.FormValue("page_number"),
		Paragraph:  ctx.FormValue("paragraph"),
		CheckAll:   ctx.FormValue("check_all") != "",
		CustomText: ctx.FormValue("custom_error"),
		Checked:    form["checked"],
	}

	if _, err = s.opts.CheckSvc.AddRemarks(ctx.Request().Context(), author, chk.ID, rf); err != nil {
		return err
	}
	return ctx.Redirect(http.StatusFound, checkViewPath(ctx.Param("username"), chk.ID))
}

func (s *server) editRemark(ctx echo.Context) error {
	chk, err := s.pathCheck(ctx)
	if err != nil {
		return err
	}
	rmk, err := s.pathRemark(ctx, chk)
	if err != nil {
		return err
	}

	var er check.EditRemark
	if err = ctx.Bind(&er); err != nil {
		return errors.Wrap(err, "binding EditRemark")
	}
	if _, err = s.opts.CheckSvc.EditRemark(ctx.Request().Context(), rmk.ID, er); err != nil {
		return err
	}
	return ctx.Redirect(http.StatusFound, checkViewPath(ctx.Param("username"), chk.ID))
}

func (s *server) deleteRemark(ctx echo.Context) error {
	chk, err := s.pathCheck(ctx)
	if err != nil {
		return err
	}
	rmk, err := s.pathRemark(ctx, chk)
	if err != nil {
		return err
	}

	if err = s.opts.CheckSvc.DeleteRemark(ctx.Request().Context(), rmk.ID); err != nil {
		return err
	}
	return ctx.Redirect(http.StatusFound, checkViewPath(ctx.Param("username"), chk.ID))
}
