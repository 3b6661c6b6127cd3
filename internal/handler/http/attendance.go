package http

import (
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	Mark(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	MonthlyReport(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{attendanceService: attendanceService}
}

// Mark records the caller's day. Managers may mark for someone else with
// ?employee_id=.
func (h *attendanceHandlerImpl) Mark(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	employeeID, err := targetEmployee(actor, r.URL.Query().Get("employee_id"), user.PermissionAttendanceViewAll)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req attendance.MarkAttendanceRequest
	if !decodeJSON(w, r, &req, "MarkAttendance") {
		return
	}
	req.EmployeeID = employeeID
	req.ActorID = actor.EmployeeID

	record, err := h.attendanceService.Mark(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance recorded successfully", attendance.NewAttendanceResponse(record))
}

func (h *attendanceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req attendance.UpdateAttendanceRequest
	if !decodeJSON(w, r, &req, "UpdateAttendance") {
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.ActorID = actor.EmployeeID

	record, err := h.attendanceService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance updated successfully", attendance.NewAttendanceResponse(record))
}

func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	record, err := h.attendanceService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if !canSee(actor, record.EmployeeID, user.PermissionAttendanceViewAll) {
		response.HandleError(w, attendance.ErrAttendanceNotFound)
		return
	}

	response.Success(w, attendance.NewAttendanceResponse(record))
}

func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	employeeID, err := listScope(actor, r.URL.Query().Get("employee_id"), user.PermissionAttendanceViewAll)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	req := attendance.ListAttendanceRequest{
		EmployeeID: employeeID,
		StartDate:  r.URL.Query().Get("start_date"),
		EndDate:    r.URL.Query().Get("end_date"),
		Status:     r.URL.Query().Get("status"),
		Page:       getIntQueryParam(r, "page", 1),
		PageSize:   getIntQueryParam(r, "page_size", 20),
	}

	records, total, err := h.attendanceService.List(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, attendance.NewAttendanceResponse(rec))
	}
	response.SuccessWithMeta(w, resp, response.NewMeta(req.Page, req.PageSize, total))
}

// MonthlyReport defaults to the current month.
func (h *attendanceHandlerImpl) MonthlyReport(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	employeeID, err := listScope(actor, r.URL.Query().Get("employee_id"), user.PermissionReportsView)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	now := time.Now()
	report, err := h.attendanceService.MonthlyReport(r.Context(), attendance.MonthlyReportRequest{
		EmployeeID: employeeID,
		Year:       getIntQueryParam(r, "year", now.Year()),
		Month:      getIntQueryParam(r, "month", int(now.Month())),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, report)
}
