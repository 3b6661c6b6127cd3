package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/notification"
)

type notificationRepository struct {
	s *Store
}

func (s *Store) Notifications() notification.Repository {
	return &notificationRepository{s: s}
}

func insertNotification(d *state, n *notification.Notification) error {
	if n.ID == "" {
		id, err := newID()
		if err != nil {
			return err
		}
		n.ID = id
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	d.notifications[n.ID] = *n
	return nil
}

func (r *notificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	return r.s.run(ctx, func(d *state) error {
		return insertNotification(d, n)
	})
}

func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []*notification.Notification) error {
	return r.s.run(ctx, func(d *state) error {
		for _, n := range notifications {
			if err := insertNotification(d, n); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *notificationRepository) GetByID(ctx context.Context, id string) (*notification.Notification, error) {
	var n notification.Notification
	err := r.s.run(ctx, func(d *state) error {
		found, ok := d.notifications[id]
		if !ok {
			return notification.ErrNotificationNotFound
		}
		n = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepository) GetByUserID(ctx context.Context, userID string, page, pageSize int, unreadOnly bool) ([]*notification.Notification, int, error) {
	matched := make([]*notification.Notification, 0)
	err := r.s.run(ctx, func(d *state) error {
		for _, n := range d.notifications {
			if n.RecipientID != userID || (unreadOnly && n.IsRead) {
				continue
			}
			n := n
			matched = append(matched, &n)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return paginate(matched, page, pageSize, false), len(matched), nil
}

func (r *notificationRepository) GetUnreadCount(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.s.run(ctx, func(d *state) error {
		for _, n := range d.notifications {
			if n.RecipientID == userID && !n.IsRead {
				count++
			}
		}
		return nil
	})
	return count, err
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, ids []string, userID string) error {
	return r.s.run(ctx, func(d *state) error {
		now := time.Now()
		for _, id := range ids {
			n, ok := d.notifications[id]
			if !ok || n.RecipientID != userID || n.IsRead {
				continue
			}
			n.IsRead = true
			n.ReadAt = &now
			d.notifications[id] = n
		}
		return nil
	})
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID string) error {
	return r.s.run(ctx, func(d *state) error {
		now := time.Now()
		for id, n := range d.notifications {
			if n.RecipientID == userID && !n.IsRead {
				n.IsRead = true
				n.ReadAt = &now
				d.notifications[id] = n
			}
		}
		return nil
	})
}

func (r *notificationRepository) Delete(ctx context.Context, id string, userID string) error {
	return r.s.run(ctx, func(d *state) error {
		n, ok := d.notifications[id]
		if !ok || n.RecipientID != userID {
			return notification.ErrNotificationNotFound
		}
		delete(d.notifications, id)
		return nil
	})
}
