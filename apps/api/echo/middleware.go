package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/normoctl/normocontrol/core/user"
)

// requireReviewer gates a route to reviewers.
func requireReviewer() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsReviewer {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// requireSelf gates a route to the user named in the path. An unknown path
// username is a 404; a known one that is not the caller is a 403.
func requireSelf(svc *user.Service) echo.MiddlewareFunc {
	return selfMiddleware(svc, false)
}

// requireSelfOrReviewer additionally lets any reviewer through.
func requireSelfOrReviewer(svc *user.Service) echo.MiddlewareFunc {
	return selfMiddleware(svc, true)
}

func selfMiddleware(svc *user.Service, allowReviewer bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}

			uname := ctx.Param("username")
			if _, err = svc.GetByUsername(ctx.Request().Context(), uname); err != nil {
				if errors.Cause(err) == user.ErrNotFound {
					return errHttpNotFound
				}
				return errors.Wrap(err, "finding path user")
			}

			if claims.Username == uname || (allowReviewer && claims.IsReviewer) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}
