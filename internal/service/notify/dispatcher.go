// Package notify resolves workflow participants to user ids and hands the
// resulting notifications to the emitter. Every failure is logged and
// swallowed: a notification never undoes a committed decision.
package notify

import (
	"context"
	"log/slog"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/notification"
)

type Dispatcher struct {
	directory employee.Directory
	emitter   notification.Emitter
}

func NewDispatcher(directory employee.Directory, emitter notification.Emitter) *Dispatcher {
	return &Dispatcher{directory: directory, emitter: emitter}
}

// ToApprovers sends msg to every active manager and owner except the
// requester.
func (d *Dispatcher) ToApprovers(ctx context.Context, requesterID string, msg notification.CreateNotificationRequest) {
	approvers, err := d.directory.ListApprovers(ctx)
	if err != nil {
		slog.Warn("failed to resolve approvers for notification", "type", msg.Type, "error", err)
		return
	}

	sender := d.userIDOf(ctx, requesterID)
	batch := make([]notification.CreateNotificationRequest, 0, len(approvers))
	for _, a := range approvers {
		if a.ID == requesterID {
			continue
		}
		m := msg
		m.RecipientID = a.UserID
		m.SenderID = sender
		batch = append(batch, m)
	}
	if len(batch) == 0 {
		return
	}

	if err := d.emitter.QueueBulkNotification(ctx, batch); err != nil {
		slog.Warn("failed to queue approver notifications",
			"type", msg.Type,
			"recipients", len(batch),
			"error", err,
		)
	}
}

// ToEmployee sends msg to the user behind employeeID.
func (d *Dispatcher) ToEmployee(ctx context.Context, employeeID, actorEmployeeID string, msg notification.CreateNotificationRequest) {
	recipient := d.userIDOf(ctx, employeeID)
	if recipient == nil {
		return
	}
	msg.RecipientID = *recipient
	msg.SenderID = d.userIDOf(ctx, actorEmployeeID)
	d.emit(ctx, msg)
}

func (d *Dispatcher) userIDOf(ctx context.Context, employeeID string) *string {
	if employeeID == "" {
		return nil
	}
	e, err := d.directory.GetByID(ctx, employeeID)
	if err != nil {
		slog.Warn("failed to resolve employee for notification", "employee_id", employeeID, "error", err)
		return nil
	}
	return &e.UserID
}

func (d *Dispatcher) emit(ctx context.Context, msg notification.CreateNotificationRequest) {
	if err := d.emitter.QueueNotification(ctx, msg); err != nil {
		slog.Warn("failed to queue notification",
			"type", msg.Type,
			"recipient_id", msg.RecipientID,
			"error", err,
		)
	}
}
