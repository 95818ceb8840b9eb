package apis

import (
	"context"
	"fmt"
	"net/http"

	"campus-events-backend/cmd/campus-events/identity"
	"campus-events-backend/cmd/campus-events/lifecycle"
	"campus-events-backend/cmd/campus-events/model"

	"github.com/gocarina/gocsv"
	"github.com/goforj/godump"
	"github.com/labstack/echo/v4"
)

type IRequestService interface {
	SubmitProposal(ctx context.Context, actor identity.Actor, facultyID string, fields model.ProposalFields) (*model.EventRequest, error)
	Get(ctx context.Context, actor identity.Actor, id string) (*model.EventRequest, error)
	ListAll(ctx context.Context, actor identity.Actor) ([]model.EventRequest, error)
	ListByFaculty(ctx context.Context, actor identity.Actor, facultyID string) ([]model.EventRequest, error)
	Approve(ctx context.Context, actor identity.Actor, id string) (*model.EventRequest, error)
	Reject(ctx context.Context, actor identity.Actor, id string) (*model.EventRequest, error)
	AttachRemark(ctx context.Context, actor identity.Actor, id, remark string) (*model.EventRequest, error)
	Edit(ctx context.Context, actor identity.Actor, id string, fields model.ProposalFields) (*model.EventRequest, error)
	Cancel(ctx context.Context, actor identity.Actor, id string) (*model.EventRequest, error)
	MarkRemarkNotified(ctx context.Context, actor identity.Actor, id string) (*model.EventRequest, error)
}

// RequestAPI serves the proposal workflow: submission, review and the
// owner's edits.
type RequestAPI struct {
	requests IRequestService
	debug    bool
}

func NewRequestAPI(requests IRequestService, debug bool) *RequestAPI {

	return &RequestAPI{
		requests: requests,
		debug:    debug,
	}
}

func (a *RequestAPI) Setup(g *echo.Group) {
	g.POST("/requests", a.submit)
	g.POST("/requests/import", a.importCSV)
	g.GET("/requests", a.listAll)
	g.GET("/requests/:id", a.get)
	g.PUT("/requests/:id", a.edit)
	g.DELETE("/requests/:id", a.cancel)
	g.POST("/requests/:id/approve", a.approve)
	g.POST("/requests/:id/reject", a.reject)
	g.POST("/requests/:id/remark", a.remark)
	g.POST("/requests/:id/remark/seen", a.remarkSeen)
	g.GET("/faculty/:facultyId/requests", a.listByFaculty)
}

func (a *RequestAPI) submit(c echo.Context) error {

	actor, err := actorOf(c)
	if err != nil {
		return err
	}

	var req model.ProposalRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if req.FacultyID == "" {
		req.FacultyID = actor.ID
	}

	rec, err := a.requests.SubmitProposal(c.Request().Context(), actor, req.FacultyID, req.ProposalFields)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(
		http.StatusCreated,
		model.BaseResponse{
			Message: "success",
			Data:    rec,
		},
	)
}

// importCSV submits one proposal per row of the uploaded csvfile. A bad row
// is reported in its result and does not stop the others.
func (a *RequestAPI) importCSV(c echo.Context) error {

	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	if !actor.Is(identity.RoleFaculty) {
		return errorResponse(c, &lifecycle.GuardError{
			Action: "import proposals",
			Kind:   lifecycle.GuardRole,
			Reason: "requires " + identity.RoleFaculty.String() + " role",
		})
	}

	csvfile, err := c.FormFile("csvfile")
	if err != nil {
		return badRequest(c, err)
	}

	cf, err := csvfile.Open()
	if err != nil {
		return badRequest(c, err)
	}
	defer cf.Close()

	var rows []*model.ProposalCSV
	if err := gocsv.Unmarshal(cf, &rows); err != nil {
		return badRequest(c, fmt.Errorf("parse csv: %w", err))
	}

	if a.debug {
		godump.Dump(rows)
	}

	ctx := c.Request().Context()
	results := make([]model.ImportResult, 0, len(rows))
	imported := 0
	for i, row := range rows {
		result := model.ImportResult{Row: i + 1}

		fields, err := row.Fields()
		if err == nil {
			result.Request, err = a.requests.SubmitProposal(ctx, actor, actor.ID, fields)
		}
		if err != nil {
			result.Error = err.Error()
		} else {
			imported++
		}
		results = append(results, result)
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: fmt.Sprintf("imported %d of %d", imported, len(rows)),
			Data:    results,
		},
	)
}

func (a *RequestAPI) listAll(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	recs, err := a.requests.ListAll(c.Request().Context(), actor)
	if err != nil {
		return errorResponse(c, err)
	}
	return success(c, recs)
}

func (a *RequestAPI) listByFaculty(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	recs, err := a.requests.ListByFaculty(c.Request().Context(), actor, c.Param("facultyId"))
	if err != nil {
		return errorResponse(c, err)
	}
	return success(c, recs)
}

func (a *RequestAPI) get(c echo.Context) error {
	return a.single(c, a.requests.Get)
}

func (a *RequestAPI) approve(c echo.Context) error {
	return a.single(c, a.requests.Approve)
}

func (a *RequestAPI) reject(c echo.Context) error {
	return a.single(c, a.requests.Reject)
}

func (a *RequestAPI) cancel(c echo.Context) error {
	return a.single(c, a.requests.Cancel)
}

func (a *RequestAPI) remarkSeen(c echo.Context) error {
	return a.single(c, a.requests.MarkRemarkNotified)
}

func (a *RequestAPI) remark(c echo.Context) error {
	var req model.RemarkRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	return a.single(c, func(ctx context.Context, actor identity.Actor, id string) (*model.EventRequest, error) {
		return a.requests.AttachRemark(ctx, actor, id, req.Remark)
	})
}

func (a *RequestAPI) edit(c echo.Context) error {
	var fields model.ProposalFields
	if err := c.Bind(&fields); err != nil {
		return badRequest(c, err)
	}
	return a.single(c, func(ctx context.Context, actor identity.Actor, id string) (*model.EventRequest, error) {
		return a.requests.Edit(ctx, actor, id, fields)
	})
}

func (a *RequestAPI) single(c echo.Context, op func(context.Context, identity.Actor, string) (*model.EventRequest, error)) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	rec, err := op(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return success(c, rec)
}
