package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/validator"
)

// actorFrom writes 401 and returns false when no caller is on the context.
func actorFrom(w http.ResponseWriter, r *http.Request) (user.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.HandleError(w, user.ErrInvalidToken)
		return user.Actor{}, false
	}
	return actor, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.Error(op+" decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

// getIntQueryParam gets an int query parameter with a default value
func getIntQueryParam(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

// getBoolQueryParam gets a bool query parameter with a default value
func getBoolQueryParam(r *http.Request, key string, defaultVal bool) bool {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	return val == "true" || val == "1"
}

// listScope resolves whose records a list call may see. Callers with
// viewAll see everyone unless they ask for one employee; everybody else
// only sees their own.
func listScope(actor user.Actor, requested string, viewAll user.Permission) (*string, error) {
	if actor.Can(viewAll) {
		if requested == "" {
			return nil, nil
		}
		return &requested, nil
	}
	if requested != "" && requested != actor.EmployeeID {
		return nil, user.ErrInsufficientPermissions
	}
	own := actor.EmployeeID
	return &own, nil
}

// targetEmployee resolves the single employee a call acts on, defaulting
// to the caller.
func targetEmployee(actor user.Actor, requested string, viewAll user.Permission) (string, error) {
	if requested == "" || requested == actor.EmployeeID {
		return actor.EmployeeID, nil
	}
	if !actor.Can(viewAll) {
		return "", user.ErrInsufficientPermissions
	}
	return requested, nil
}

// canSee reports whether actor may read a record owned by employeeID.
func canSee(actor user.Actor, employeeID string, viewAll user.Permission) bool {
	return employeeID == actor.EmployeeID || actor.Can(viewAll)
}

func parseStatusParam(r *http.Request) (*approval.Status, error) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return nil, nil
	}
	status := approval.Status(raw)
	if !status.IsValid() {
		var errs validator.ValidationErrors
		errs.Add("status", "status must be one of pending, approved, rejected")
		return nil, errs
	}
	return &status, nil
}

// parseDateWindow reads optional start_date and end_date query params.
func parseDateWindow(r *http.Request) (from, to *time.Time, err error) {
	var errs validator.ValidationErrors
	if raw := r.URL.Query().Get("start_date"); raw != "" {
		d, perr := calendar.ParseDate(raw)
		if perr != nil {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		} else {
			from = &d
		}
	}
	if raw := r.URL.Query().Get("end_date"); raw != "" {
		d, perr := calendar.ParseDate(raw)
		if perr != nil {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		} else {
			to = &d
		}
	}
	if err := errs.Err(); err != nil {
		return nil, nil, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, calendar.ErrInvalidRange
	}
	return from, to, nil
}
