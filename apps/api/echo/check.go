package echoapi

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/normoctl/normocontrol/core/check"
)

func checkListPath(username string) string {
	return fmt.Sprintf("/user/%s/check_list/", username)
}

func checkViewPath(username string, checkID int) string {
	return fmt.Sprintf("/user/%s/%d/check_view/", username, checkID)
}

// pageNumber reads the `page` query param; anything unparseable means page 1.
func pageNumber(ctx echo.Context) int {
	if n, err := strconv.Atoi(ctx.QueryParam("page")); err == nil {
		return n
	}
	return 1
}

// pathCheck resolves the `:id` path param to a check owned by the
// `:username` path user; any mismatch is a 404.
func (s *server) pathCheck(ctx echo.Context) (check.Check, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return check.Check{}, errHttpNotFound
	}

	chk, err := s.opts.CheckSvc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return check.Check{}, err
	}
	if chk.StudentUsername != ctx.Param("username") {
		return check.Check{}, errHttpNotFound
	}
	return chk, nil
}

func (s *server) queryChecks(ctx echo.Context, archived bool) error {
	pathUser, err := s.opts.UserSvc.GetByUsername(ctx.Request().Context(), ctx.Param("username"))
	if err != nil {
		return err
	}

	// a reviewer's list spans every student; a student only sees their own
	filter := check.QueryFilter{Archived: archived}
	if !pathUser.IsReviewer {
		filter.StudentUsername = pathUser.Username
	}
	page, err := s.opts.CheckSvc.Query(ctx.Request().Context(), filter, pageNumber(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, page)
}

func (s *server) checkList(ctx echo.Context) error {
	return s.queryChecks(ctx, false)
}

func (s *server) checkArchiveList(ctx echo.Context) error {
	return s.queryChecks(ctx, true)
}

func getFileUpload(fh *multipart.FileHeader) (*check.FileUpload, func(), error) {
	if fh == nil {
		return nil, func() {}, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, errors.Wrap(err, "opening uploaded file")
	}
	return &check.FileUpload{
		Name:    fh.Filename,
		Size:    fh.Size,
		Content: f,
	}, func() { _ = f.Close() }, nil
}

func (s *server) newCheck(ctx echo.Context) error {
	student, err := getContextUser(ctx, s.opts.UserSvc)
	if err != nil {
		return err
	}

	nc := check.NewCheck{Note: ctx.FormValue("note")}
	if fh, err := ctx.FormFile("docx_file"); err == nil {
		upload, closeFn, err := getFileUpload(fh)
		if err != nil {
			return err
		}
		defer closeFn()
		nc.Docx = upload
	}
	if fh, err := ctx.FormFile("pdf_file"); err == nil {
		upload, closeFn, err := getFileUpload(fh)
		if err != nil {
			return err
		}
		defer closeFn()
		nc.PDF = upload
	}
	if err := nc.Validate(); err != nil {
		return err
	}

	_, err = s.opts.CheckSvc.Create(ctx.Request().Context(), student, nc)
	if err != nil {
		// an outstanding active check means there is nothing to do
		if errors.Cause(err) == check.ErrActiveCheckExists {
			return ctx.Redirect(http.StatusFound, checkListPath(student.Username))
		}
		return err
	}
	return ctx.Redirect(http.StatusFound, checkListPath(student.Username))
}

func (s *server) checkView(ctx echo.Context) error {
	chk, err := s.pathCheck(ctx)
	if err != nil {
		return err
	}

	remarks, err := s.opts.CheckSvc.QueryRemarks(ctx.Request().Context(), chk.ID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"check":   chk,
		"remarks": remarks,
	})
}

func (s *server) checkDelete(ctx echo.Context) error {
	chk, err := s.pathCheck(ctx)
	if err != nil {
		return err
	}

	if err = s.opts.CheckSvc.Delete(ctx.Request().Context(), chk.ID); err != nil {
		return err
	}
	return ctx.Redirect(http.StatusFound, checkListPath(ctx.Param("username")))
}

func (s *server) checkArchive(ctx echo.Context) error {
	chk, err := s.pathCheck(ctx)
	if err != nil {
		return err
	}

	if _, err = s.opts.CheckSvc.Archive(ctx.Request().Context(), chk.ID); err != nil {
		return err
	}
	return ctx.Redirect(http.StatusFound, checkListPath(ctx.Param("username")))
}

func (s *server) checkActivate(ctx echo.Context) error {
	chk, err := s.pathCheck(ctx)
	if err != nil {
		return err
	}

	if _, err = s.opts.CheckSvc.Reactivate(ctx.Request().Context(), chk.ID); err != nil {
		return err
	}
	return ctx.Redirect(http.StatusFound, checkListPath(ctx.Param("username")))
}
