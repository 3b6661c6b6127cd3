package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type OvertimeHandler interface {
	Apply(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Decide(w http.ResponseWriter, r *http.Request)
}

type overtimeHandlerImpl struct {
	overtimeService overtime.OvertimeService
}

func NewOvertimeHandler(overtimeService overtime.OvertimeService) OvertimeHandler {
	return &overtimeHandlerImpl{overtimeService: overtimeService}
}

func (h *overtimeHandlerImpl) Apply(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req overtime.ApplyOvertimeRequest
	if !decodeJSON(w, r, &req, "ApplyOvertime") {
		return
	}
	req.EmployeeID = actor.EmployeeID
	req.ActorID = actor.EmployeeID

	created, err := h.overtimeService.Apply(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Overtime request submitted successfully", overtime.NewOvertimeResponse(created))
}

func (h *overtimeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	employeeID, err := listScope(actor, r.URL.Query().Get("employee_id"), user.PermissionOvertimeViewAll)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	status, err := parseStatusParam(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	from, to, err := parseDateWindow(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter := overtime.Filter{
		EmployeeID: employeeID,
		Status:     status,
		From:       from,
		To:         to,
		Page:       getIntQueryParam(r, "page", 1),
		PageSize:   getIntQueryParam(r, "page_size", 20),
	}
	items, total, err := h.overtimeService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp := make([]overtime.OvertimeResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, overtime.NewOvertimeResponse(item))
	}
	response.SuccessWithMeta(w, resp, response.NewMeta(filter.Page, filter.PageSize, total))
}

func (h *overtimeHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	item, err := h.overtimeService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if !canSee(actor, item.EmployeeID, user.PermissionOvertimeViewAll) {
		response.HandleError(w, overtime.ErrOvertimeNotFound)
		return
	}

	response.Success(w, overtime.NewOvertimeResponse(item))
}

func (h *overtimeHandlerImpl) Decide(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req approval.DecideRequest
	if !decodeJSON(w, r, &req, "DecideOvertime") {
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.ActorID = actor.EmployeeID

	decided, err := h.overtimeService.Decide(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Overtime request "+string(decided.Status), overtime.NewOvertimeResponse(decided))
}
