package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
)

const (
	sseKeepaliveInterval = 30 * time.Second
	sseRetryMillis       = 5000
)

// NotificationHandler serves the in-app inbox of the calling user. Every
// operation is keyed by the token's user id, never by a path or body value.
type NotificationHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	UnreadCount(w http.ResponseWriter, r *http.Request)
	MarkAsRead(w http.ResponseWriter, r *http.Request)
	MarkAllAsRead(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)

	GetSSEToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type notificationHandlerImpl struct {
	inbox  notification.Service
	tokens jwt.Service
}

func NewNotificationHandler(inbox notification.Service, tokens jwt.Service) NotificationHandler {
	return &notificationHandlerImpl{inbox: inbox, tokens: tokens}
}

func (h *notificationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	result, err := h.inbox.GetNotifications(r.Context(), actor.UserID,
		getIntQueryParam(r, "page", 1),
		getIntQueryParam(r, "page_size", 20),
		getBoolQueryParam(r, "unread_only", false),
	)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *notificationHandlerImpl) UnreadCount(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	count, err := h.inbox.GetUnreadCount(r.Context(), actor.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, notification.UnreadCountResponse{UnreadCount: count})
}

func (h *notificationHandlerImpl) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req notification.MarkAsReadRequest
	if !decodeJSON(w, r, &req, "MarkAsRead") {
		return
	}
	if err := h.inbox.MarkAsRead(r.Context(), actor.UserID, req); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, fmt.Sprintf("%d notification(s) marked as read", len(req.NotificationIDs)), nil)
}

func (h *notificationHandlerImpl) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	if err := h.inbox.MarkAllAsRead(r.Context(), actor.UserID); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "All notifications marked as read", nil)
}

func (h *notificationHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	if err := h.inbox.Delete(r.Context(), actor.UserID, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Notification deleted", nil)
}

// GetSSEToken trades the bearer token for a short-lived stream token.
func (h *notificationHandlerImpl) GetSSEToken(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	token, expiresIn, err := h.tokens.GenerateSSEToken(actor.UserID)
	if err != nil {
		slog.Error("failed to generate sse token", "user_id", actor.UserID, "error", err)
		response.InternalServerError(w, "Failed to generate SSE token")
		return
	}
	response.Success(w, notification.SSETokenResponse{Token: token, ExpiresIn: expiresIn})
}

// sseWriter frames Server-Sent Events onto a flushing response.
type sseWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func (s sseWriter) send(id, event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if id != "" {
		fmt.Fprintf(s.w, "id: %s\n", id)
	}
	fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, data)
	s.flusher.Flush()
	return nil
}

func (s sseWriter) comment(text string) {
	fmt.Fprintf(s.w, ": %s\n\n", text)
	s.flusher.Flush()
}

// Stream pushes the caller's new notifications as they are stored. The
// EventSource API cannot set headers, so the stream token is read from
// ?token= and access tokens are refused.
func (h *notificationHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	userID, err := h.tokens.ValidateSSEToken(r.URL.Query().Get("token"))
	if err != nil {
		response.HandleError(w, user.ErrInvalidToken)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	unread, err := h.inbox.GetUnreadCount(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	events, cleanup := h.inbox.Subscribe(r.Context(), userID)
	defer cleanup()

	out := sseWriter{w: w, flusher: flusher}
	fmt.Fprintf(w, "retry: %d\n", sseRetryMillis)
	_ = out.send("", "connected", notification.UnreadCountResponse{UnreadCount: unread})

	keepalive := time.NewTicker(sseKeepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := out.send(event.Data.ID, event.Event, event.Data); err != nil {
				slog.Warn("failed to encode sse event", "user_id", userID, "error", err)
			}
		case <-keepalive.C:
			out.comment("ping")
		case <-r.Context().Done():
			return
		}
	}
}
