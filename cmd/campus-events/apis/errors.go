package apis

import (
	"errors"
	"log/slog"
	"net/http"

	"campus-events-backend/cmd/campus-events/identity"
	"campus-events-backend/cmd/campus-events/lifecycle"
	"campus-events-backend/cmd/campus-events/model"

	"github.com/labstack/echo/v4"
)

func statusOf(err error) int {
	var (
		validationErr *lifecycle.ValidationError
		guardErr      *lifecycle.GuardError
	)
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &guardErr):
		if guardErr.Kind == lifecycle.GuardState {
			return http.StatusConflict
		}
		return http.StatusForbidden
	case errors.Is(err, lifecycle.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, lifecycle.ErrAlreadyRegistered), errors.Is(err, lifecycle.ErrEventFull):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func errorResponse(c echo.Context, err error) error {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method, "path", c.Path(), "error", err)
	}
	return c.JSON(
		status,
		model.BaseResponse{
			Message: err.Error(),
		},
	)
}

func badRequest(c echo.Context, err error) error {
	return c.JSON(
		http.StatusBadRequest,
		model.BaseResponse{
			Message: err.Error(),
		},
	)
}

func success(c echo.Context, data any) error {
	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
			Data:    data,
		},
	)
}

// actorOf returns the authenticated actor. Routes are mounted behind
// identity.Middleware, so a missing actor is a wiring bug.
func actorOf(c echo.Context) (identity.Actor, error) {
	actor, ok := identity.FromEcho(c)
	if !ok {
		return identity.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	return actor, nil
}
