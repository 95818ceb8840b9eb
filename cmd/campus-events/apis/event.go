package apis

import (
	"context"
	"fmt"
	"net/http"

	"campus-events-backend/cmd/campus-events/identity"
	"campus-events-backend/cmd/campus-events/model"

	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
)

type IEventService interface {
	ListPublicEvents(ctx context.Context) ([]model.EventRequest, error)
	Enroll(ctx context.Context, actor identity.Actor, eventID string) (*model.Registration, error)
	Registrations(ctx context.Context, actor identity.Actor, eventID string) ([]model.Registration, error)
	StudentRegistrations(ctx context.Context, actor identity.Actor, studentID string) ([]model.Registration, error)
	CheckRegistration(ctx context.Context, actor identity.Actor, studentID, eventID string) (*model.Registration, error)
	Withdraw(ctx context.Context, actor identity.Actor, registrationID string) (*model.Registration, error)
}

// EventAPI serves the public event listing and student registrations.
type EventAPI struct {
	events IEventService
}

func NewEventAPI(events IEventService) *EventAPI {

	return &EventAPI{
		events: events,
	}
}

func (a *EventAPI) Setup(g *echo.Group) {
	g.GET("/events", a.listEvents)
	g.POST("/events/:id/registrations", a.enroll)
	g.GET("/events/:id/registrations", a.listRegistrations)
	g.GET("/students/:studentId/registrations", a.studentRegistrations)
	g.GET("/students/:studentId/registrations/:eventId", a.checkRegistration)
	g.DELETE("/registrations/:id", a.withdraw)
}

func (a *EventAPI) listEvents(c echo.Context) error {

	ctx := c.Request().Context()

	events, err := a.events.ListPublicEvents(ctx)
	if err != nil {
		return errorResponse(c, err)
	}

	return success(c, events)
}

func (a *EventAPI) enroll(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}

	reg, err := a.events.Enroll(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(
		http.StatusCreated,
		model.BaseResponse{
			Message: "success",
			Data:    reg,
		},
	)
}

// listRegistrations answers JSON, or a CSV attachment with ?format=csv.
func (a *EventAPI) listRegistrations(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}

	eventID := c.Param("id")
	regs, err := a.events.Registrations(c.Request().Context(), actor, eventID)
	if err != nil {
		return errorResponse(c, err)
	}

	if c.QueryParam("format") != "csv" {
		return success(c, regs)
	}

	out, err := gocsv.MarshalBytes(&regs)
	if err != nil {
		return errorResponse(c, fmt.Errorf("encode registrations: %w", err))
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="registrations-%s.csv"`, eventID))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", out)
}

func (a *EventAPI) studentRegistrations(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}

	regs, err := a.events.StudentRegistrations(c.Request().Context(), actor, c.Param("studentId"))
	if err != nil {
		return errorResponse(c, err)
	}
	return success(c, regs)
}

func (a *EventAPI) checkRegistration(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}

	reg, err := a.events.CheckRegistration(c.Request().Context(), actor, c.Param("studentId"), c.Param("eventId"))
	if err != nil {
		return errorResponse(c, err)
	}
	return success(c, reg)
}

func (a *EventAPI) withdraw(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}

	reg, err := a.events.Withdraw(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return success(c, reg)
}
