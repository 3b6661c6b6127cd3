package http

import (
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	CreateType(w http.ResponseWriter, r *http.Request)
	UpdateType(w http.ResponseWriter, r *http.Request)
	ListTypes(w http.ResponseWriter, r *http.Request)
	DisableType(w http.ResponseWriter, r *http.Request)

	Apply(w http.ResponseWriter, r *http.Request)
	ListApplications(w http.ResponseWriter, r *http.Request)
	GetApplication(w http.ResponseWriter, r *http.Request)
	Decide(w http.ResponseWriter, r *http.Request)

	GetBalances(w http.ResponseWriter, r *http.Request)
	GetHistory(w http.ResponseWriter, r *http.Request)
	GetUsageTrend(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &LeaveHandlerImpl{leaveService: leaveService}
}

// CreateType implements LeaveHandler.
func (l *LeaveHandlerImpl) CreateType(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req leave.CreateLeaveTypeRequest
	if !decodeJSON(w, r, &req, "CreateType") {
		return
	}
	req.ActorID = actor.EmployeeID

	leaveType, err := l.leaveService.CreateLeaveType(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave type created successfully", leave.NewLeaveTypeResponse(leaveType))
}

// UpdateType implements LeaveHandler.
func (l *LeaveHandlerImpl) UpdateType(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req leave.UpdateLeaveTypeRequest
	if !decodeJSON(w, r, &req, "UpdateType") {
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.ActorID = actor.EmployeeID

	leaveType, err := l.leaveService.UpdateLeaveType(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave type updated successfully", leave.NewLeaveTypeResponse(leaveType))
}

// ListTypes implements LeaveHandler. Only managers may ask for disabled
// types with ?all=true.
func (l *LeaveHandlerImpl) ListTypes(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	activeOnly := !(getBoolQueryParam(r, "all", false) && actor.Can(user.PermissionLeaveManageTypes))
	types, err := l.leaveService.ListLeaveTypes(r.Context(), activeOnly)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp := make([]leave.LeaveTypeResponse, 0, len(types))
	for _, t := range types {
		resp = append(resp, leave.NewLeaveTypeResponse(t))
	}
	response.Success(w, resp)
}

// DisableType implements LeaveHandler. Leave types are never removed.
func (l *LeaveHandlerImpl) DisableType(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Leave type ID is required", nil)
		return
	}

	if err := l.leaveService.DisableLeaveType(r.Context(), id, actor.EmployeeID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave type disabled successfully", nil)
}

// Apply implements LeaveHandler.
func (l *LeaveHandlerImpl) Apply(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req leave.ApplyLeaveRequest
	if !decodeJSON(w, r, &req, "ApplyLeave") {
		return
	}
	// Always the caller; never taken from the body.
	req.EmployeeID = actor.EmployeeID
	req.ActorID = actor.EmployeeID

	application, err := l.leaveService.Apply(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave application submitted successfully", leave.NewLeaveApplicationResponse(application))
}

// ListApplications implements LeaveHandler.
func (l *LeaveHandlerImpl) ListApplications(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	employeeID, err := listScope(actor, r.URL.Query().Get("employee_id"), user.PermissionLeaveViewAll)
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

	filter := leave.ApplicationFilter{
		EmployeeID: employeeID,
		Status:     status,
		From:       from,
		To:         to,
		Page:       getIntQueryParam(r, "page", 1),
		PageSize:   getIntQueryParam(r, "page_size", 20),
	}

	applications, total, err := l.leaveService.ListApplications(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp := make([]leave.LeaveApplicationResponse, 0, len(applications))
	for _, a := range applications {
		resp = append(resp, leave.NewLeaveApplicationResponse(a))
	}
	response.SuccessWithMeta(w, resp, response.NewMeta(filter.Page, filter.PageSize, total))
}

// GetApplication implements LeaveHandler.
func (l *LeaveHandlerImpl) GetApplication(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	application, err := l.leaveService.GetApplication(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if !canSee(actor, application.EmployeeID, user.PermissionLeaveViewAll) {
		response.HandleError(w, leave.ErrLeaveApplicationNotFound)
		return
	}

	response.Success(w, leave.NewLeaveApplicationResponse(application))
}

// Decide implements LeaveHandler.
func (l *LeaveHandlerImpl) Decide(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req approval.DecideRequest
	if !decodeJSON(w, r, &req, "DecideLeave") {
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.ActorID = actor.EmployeeID

	application, err := l.leaveService.Decide(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave application "+string(application.Status), leave.NewLeaveApplicationResponse(application))
}

// GetBalances implements LeaveHandler.
func (l *LeaveHandlerImpl) GetBalances(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	employeeID, err := targetEmployee(actor, r.URL.Query().Get("employee_id"), user.PermissionLeaveViewAll)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	balances, err := l.leaveService.GetBalances(r.Context(), employeeID, getIntQueryParam(r, "year", time.Now().Year()))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balances)
}

// GetHistory implements LeaveHandler.
func (l *LeaveHandlerImpl) GetHistory(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	employeeID, err := targetEmployee(actor, r.URL.Query().Get("employee_id"), user.PermissionLeaveViewAll)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	history, err := l.leaveService.GetHistory(r.Context(), leave.HistoryRequest{
		EmployeeID: employeeID,
		StartDate:  r.URL.Query().Get("start_date"),
		EndDate:    r.URL.Query().Get("end_date"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, history)
}

// GetUsageTrend implements LeaveHandler.
func (l *LeaveHandlerImpl) GetUsageTrend(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	employeeID, err := targetEmployee(actor, r.URL.Query().Get("employee_id"), user.PermissionLeaveViewAll)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	trend, err := l.leaveService.GetUsageTrend(r.Context(), employeeID, getIntQueryParam(r, "year", time.Now().Year()))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, trend)
}
