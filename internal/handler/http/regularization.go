package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/regularization"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type RegularizationHandler interface {
	Apply(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Decide(w http.ResponseWriter, r *http.Request)
}

type regularizationHandlerImpl struct {
	regularizationService regularization.RegularizationService
}

func NewRegularizationHandler(regularizationService regularization.RegularizationService) RegularizationHandler {
	return &regularizationHandlerImpl{regularizationService: regularizationService}
}

func (h *regularizationHandlerImpl) Apply(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req regularization.ApplyRegularizationRequest
	if !decodeJSON(w, r, &req, "ApplyRegularization") {
		return
	}
	req.EmployeeID = actor.EmployeeID
	req.ActorID = actor.EmployeeID

	created, err := h.regularizationService.Apply(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Regularization request submitted successfully", regularization.NewRegularizationResponse(created))
}

func (h *regularizationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	employeeID, err := listScope(actor, r.URL.Query().Get("employee_id"), user.PermissionAttendanceViewAll)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	status, err := parseStatusParam(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter := regularization.Filter{
		EmployeeID: employeeID,
		Status:     status,
		Page:       getIntQueryParam(r, "page", 1),
		PageSize:   getIntQueryParam(r, "page_size", 20),
	}
	items, total, err := h.regularizationService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp := make([]regularization.RegularizationResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, regularization.NewRegularizationResponse(item))
	}
	response.SuccessWithMeta(w, resp, response.NewMeta(filter.Page, filter.PageSize, total))
}

func (h *regularizationHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	item, err := h.regularizationService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if !canSee(actor, item.EmployeeID, user.PermissionAttendanceViewAll) {
		response.HandleError(w, regularization.ErrRegularizationNotFound)
		return
	}

	response.Success(w, regularization.NewRegularizationResponse(item))
}

func (h *regularizationHandlerImpl) Decide(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req approval.DecideRequest
	if !decodeJSON(w, r, &req, "DecideRegularization") {
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.ActorID = actor.EmployeeID

	decided, err := h.regularizationService.Decide(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Regularization request "+string(decided.Status), regularization.NewRegularizationResponse(decided))
}
