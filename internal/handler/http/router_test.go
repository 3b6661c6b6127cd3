package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/repository/memory"
	attendanceService "github.com/cmlabs-hris/hris-timeoff-go/internal/service/attendance"
	leaveService "github.com/cmlabs-hris/hris-timeoff-go/internal/service/leave"
	notificationService "github.com/cmlabs-hris/hris-timeoff-go/internal/service/notification"
	overtimeService "github.com/cmlabs-hris/hris-timeoff-go/internal/service/overtime"
	regularizationService "github.com/cmlabs-hris/hris-timeoff-go/internal/service/regularization"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	*httptest.Server
	owner string
	staff string
	other string
	jwt   jwt.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	owner, err := store.PutEmployee(ctx, employee.Employee{UserID: "user-owner", FullName: "Ayu", Role: user.RoleOwner, IsActive: true})
	require.NoError(t, err)
	staff, err := store.PutEmployee(ctx, employee.Employee{UserID: "user-staff", FullName: "Budi", Role: user.RoleEmployee, MonthlySalary: decimal.NewFromInt(35200), IsActive: true})
	require.NoError(t, err)
	other, err := store.PutEmployee(ctx, employee.Employee{UserID: "user-other", FullName: "Citra", Role: user.RoleEmployee, IsActive: true})
	require.NoError(t, err)

	hub := sse.NewHub(8)
	notifSvc := notificationService.NewNotificationService(store.Notifications(), hub, notificationService.Config{FlushInterval: 10 * time.Millisecond})
	t.Cleanup(func() {
		notifSvc.Stop()
		hub.Close()
	})

	jwtSvc, err := jwt.NewJWTService("router-test-secret", "1h")
	require.NoError(t, err)

	handlers := Handlers{
		Leave: NewLeaveHandler(leaveService.NewLeaveService(store, store.LeaveTypes(), store.LeaveBalances(), store.LeaveApplications(), store.Employees(), notifSvc)),
		Attendance: NewAttendanceHandler(attendanceService.NewAttendanceService(store.Attendances(), store.LeaveApplications(), store.Employees(), notifSvc)),
		Regularization: NewRegularizationHandler(regularizationService.NewRegularizationService(store, store.Regularizations(), store.Attendances(), store.Employees(), notifSvc)),
		Overtime:       NewOvertimeHandler(overtimeService.NewOvertimeService(store, store.Overtimes(), store.Employees(), notifSvc, decimal.Zero)),
		Notification:   NewNotificationHandler(notifSvc, jwtSvc),
	}
	router := NewRouter(RouterConfig{AppName: "timeoff-test", Env: "test", AllowedOrigins: []string{"*"}, LogLevel: slog.LevelError}, jwtSvc, handlers)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	token := func(e employee.Employee) string {
		tok, _, err := jwtSvc.GenerateAccessToken(user.Actor{UserID: e.UserID, EmployeeID: e.ID, Role: e.Role})
		require.NoError(t, err)
		return tok
	}

	return &testServer{Server: srv, owner: token(owner), staff: token(staff), other: token(other), jwt: jwtSvc}
}

// call sends body as JSON and decodes the envelope.
func (s *testServer) call(t *testing.T, method, path, token string, body interface{}) (int, response.Response) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, s.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var envelope response.Response
	_ = json.NewDecoder(resp.Body).Decode(&envelope)
	return resp.StatusCode, envelope
}

func dataMap(t *testing.T, envelope response.Response) map[string]interface{} {
	t.Helper()
	m, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok, "data is %T", envelope.Data)
	return m
}

func TestRouter_RequiresToken(t *testing.T) {
	s := newTestServer(t)

	code, _ := s.call(t, http.MethodGet, "/api/v1/leave/applications", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	sseToken, _, err := s.jwt.GenerateSSEToken("user-staff")
	require.NoError(t, err)
	code, _ = s.call(t, http.MethodGet, "/api/v1/leave/applications", sseToken, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestRouter_LeaveLifecycle(t *testing.T) {
	s := newTestServer(t)

	code, envelope := s.call(t, http.MethodPost, "/api/v1/leave/types", s.staff, map[string]interface{}{"name": "Annual", "default_days": 5})
	require.Equal(t, http.StatusForbidden, code)

	code, envelope = s.call(t, http.MethodPost, "/api/v1/leave/types", s.owner, map[string]interface{}{"name": "Annual", "default_days": 5})
	require.Equal(t, http.StatusCreated, code)
	typeID := dataMap(t, envelope)["id"].(string)

	apply := map[string]string{"leave_type_id": typeID, "start_date": "2024-03-04", "end_date": "2024-03-06", "reason": "family"}
	code, envelope = s.call(t, http.MethodPost, "/api/v1/leave/applications", s.staff, apply)
	require.Equal(t, http.StatusCreated, code)
	app := dataMap(t, envelope)
	assert.Equal(t, "pending", app["status"])
	assert.EqualValues(t, 3, app["days"])
	appID := app["id"].(string)

	code, _ = s.call(t, http.MethodPost, "/api/v1/leave/applications", s.staff, apply)
	assert.Equal(t, http.StatusConflict, code, "overlap with own pending application")

	code, _ = s.call(t, http.MethodGet, "/api/v1/leave/applications/"+appID, s.other, nil)
	assert.Equal(t, http.StatusNotFound, code, "other employees cannot read it")

	code, _ = s.call(t, http.MethodPut, "/api/v1/leave/applications/"+appID+"/status", s.staff, map[string]string{"status": "approved"})
	assert.Equal(t, http.StatusForbidden, code)

	code, envelope = s.call(t, http.MethodPut, "/api/v1/leave/applications/"+appID+"/status", s.owner, map[string]string{"status": "approved"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "approved", dataMap(t, envelope)["status"])

	code, _ = s.call(t, http.MethodPut, "/api/v1/leave/applications/"+appID+"/status", s.owner, map[string]string{"status": "rejected", "rejection_reason": "late"})
	assert.Equal(t, http.StatusConflict, code)

	code, envelope = s.call(t, http.MethodGet, "/api/v1/leave/balances?year=2024", s.staff, nil)
	require.Equal(t, http.StatusOK, code)
	balances, ok := envelope.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, balances, 1)
	balance := balances[0].(map[string]interface{})
	assert.EqualValues(t, 5, balance["total_days"])
	assert.EqualValues(t, 3, balance["used_days"])
	assert.EqualValues(t, 2, balance["remaining_days"])
}

func TestRouter_ListScope(t *testing.T) {
	s := newTestServer(t)

	code, _ := s.call(t, http.MethodGet, "/api/v1/leave/applications?employee_id=someone-else", s.staff, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, envelope := s.call(t, http.MethodGet, "/api/v1/leave/applications", s.owner, nil)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, envelope.Meta)
	assert.Equal(t, 20, envelope.Meta.Limit)

	code, _ = s.call(t, http.MethodGet, "/api/v1/leave/applications?status=maybe", s.owner, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestRouter_AttendanceDuplicate(t *testing.T) {
	s := newTestServer(t)

	mark := map[string]string{"date": "2024-03-01", "check_in": "09:00", "check_out": "17:30"}
	code, envelope := s.call(t, http.MethodPost, "/api/v1/attendance", s.staff, mark)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "8.5", dataMap(t, envelope)["total_hours"])

	code, _ = s.call(t, http.MethodPost, "/api/v1/attendance", s.staff, mark)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = s.call(t, http.MethodPost, "/api/v1/attendance", s.staff, map[string]string{"date": "2024-03-02", "check_in": "09:00", "check_out": "08:00"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRouter_OvertimeAndRegularization(t *testing.T) {
	s := newTestServer(t)

	code, envelope := s.call(t, http.MethodPost, "/api/v1/overtime", s.staff, map[string]string{"date": "2024-03-01", "start_time": "18:00", "end_time": "20:00", "reason": "release"})
	require.Equal(t, http.StatusCreated, code)
	ot := dataMap(t, envelope)
	assert.Equal(t, "2", ot["total_hours"])
	assert.Equal(t, "600", ot["amount"])

	code, envelope = s.call(t, http.MethodPost, "/api/v1/regularizations", s.staff, map[string]string{"date": "2024-03-01", "check_in": "09:00", "check_out": "17:00", "reason": "badge reader down"})
	require.Equal(t, http.StatusCreated, code)
	regID := dataMap(t, envelope)["id"].(string)

	code, _ = s.call(t, http.MethodPut, "/api/v1/regularizations/"+regID+"/status", s.owner, map[string]string{"status": "maybe"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, envelope = s.call(t, http.MethodPut, "/api/v1/overtime/"+ot["id"].(string)+"/status", s.owner, map[string]string{"status": "rejected"})
	require.Equal(t, http.StatusOK, code, "rejection without a reason is accepted")
	assert.Equal(t, "rejected", dataMap(t, envelope)["status"])

	code, _ = s.call(t, http.MethodPut, "/api/v1/overtime/"+ot["id"].(string)+"/status", s.owner, map[string]string{"status": "approved"})
	assert.Equal(t, http.StatusConflict, code)

	code, envelope = s.call(t, http.MethodPut, "/api/v1/regularizations/"+regID+"/status", s.owner, map[string]string{"status": "approved"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "approved", dataMap(t, envelope)["status"])

	code, envelope = s.call(t, http.MethodGet, "/api/v1/attendance?start_date=2024-03-01&end_date=2024-03-01", s.staff, nil)
	require.Equal(t, http.StatusOK, code)
	records := envelope.Data.([]interface{})
	require.Len(t, records, 1)
	assert.Equal(t, "8", records[0].(map[string]interface{})["total_hours"])
}

func TestRouter_Notifications(t *testing.T) {
	s := newTestServer(t)

	code, _ := s.call(t, http.MethodPost, "/api/v1/overtime", s.staff, map[string]string{"date": "2024-03-01", "start_time": "18:00", "end_time": "20:00", "reason": "release"})
	require.Equal(t, http.StatusCreated, code)

	require.Eventually(t, func() bool {
		code, envelope := s.call(t, http.MethodGet, "/api/v1/notifications/unread-count", s.owner, nil)
		if code != http.StatusOK {
			return false
		}
		count, _ := dataMap(t, envelope)["unread_count"].(float64)
		return count == 1
	}, 2*time.Second, 20*time.Millisecond)

	code, _ = s.call(t, http.MethodPost, "/api/v1/notifications/read-all", s.owner, nil)
	require.Equal(t, http.StatusOK, code)

	code, envelope := s.call(t, http.MethodGet, "/api/v1/notifications/unread-count", s.owner, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 0, dataMap(t, envelope)["unread_count"])

	code, _ = s.call(t, http.MethodPost, "/api/v1/notifications/read", s.owner, map[string][]string{"notification_ids": {}})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestRouter_StreamRejectsAccessToken(t *testing.T) {
	s := newTestServer(t)

	resp, err := http.Get(fmt.Sprintf("%s/api/v1/notifications/stream?token=%s", s.URL, s.staff))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_StreamDeliversNotifications(t *testing.T) {
	s := newTestServer(t)

	code, envelope := s.call(t, http.MethodPost, "/api/v1/notifications/stream-token", s.owner, nil)
	require.Equal(t, http.StatusOK, code)
	streamToken := dataMap(t, envelope)["token"].(string)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL+"/api/v1/notifications/stream?token="+streamToken, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	nextEvent := func() (string, string) {
		var event, data string
		for lines.Scan() {
			line := lines.Text()
			switch {
			case strings.HasPrefix(line, "event: "):
				event = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				data = strings.TrimPrefix(line, "data: ")
			case line == "" && event != "":
				return event, data
			}
		}
		return event, data
	}

	event, data := nextEvent()
	assert.Equal(t, "connected", event)
	assert.JSONEq(t, `{"unread_count":0}`, data)

	code, _ = s.call(t, http.MethodPost, "/api/v1/overtime", s.staff, map[string]string{"date": "2024-03-01", "start_time": "18:00", "end_time": "20:00", "reason": "release"})
	require.Equal(t, http.StatusCreated, code)

	event, data = nextEvent()
	assert.Equal(t, "notification", event)
	assert.Contains(t, data, `"type":"overtime_request"`)
}
