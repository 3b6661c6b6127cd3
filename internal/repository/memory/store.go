// Package memory provides in-process implementations of the repository
// interfaces. It backs the "memory" storage driver and the service tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/regularization"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/database"
	"github.com/google/uuid"
)

type state struct {
	employees       map[string]employee.Employee
	leaveTypes      map[string]leave.LeaveType
	balances        map[leave.BalanceKey]leave.LeaveBalance
	applications    map[string]leave.LeaveApplication
	attendances     map[string]attendance.Attendance
	regularizations map[string]regularization.Regularization
	overtimes       map[string]overtime.Overtime
	notifications   map[string]notification.Notification
}

func newState() state {
	return state{
		employees:       make(map[string]employee.Employee),
		leaveTypes:      make(map[string]leave.LeaveType),
		balances:        make(map[leave.BalanceKey]leave.LeaveBalance),
		applications:    make(map[string]leave.LeaveApplication),
		attendances:     make(map[string]attendance.Attendance),
		regularizations: make(map[string]regularization.Regularization),
		overtimes:       make(map[string]overtime.Overtime),
		notifications:   make(map[string]notification.Notification),
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s state) clone() state {
	return state{
		employees:       cloneMap(s.employees),
		leaveTypes:      cloneMap(s.leaveTypes),
		balances:        cloneMap(s.balances),
		applications:    cloneMap(s.applications),
		attendances:     cloneMap(s.attendances),
		regularizations: cloneMap(s.regularizations),
		overtimes:       cloneMap(s.overtimes),
		notifications:   cloneMap(s.notifications),
	}
}

// Store holds every table in memory behind one mutex. A transaction holds
// the mutex for its whole duration and restores a snapshot when fn fails,
// so transactions are serialisable and never observe each other's writes.
type Store struct {
	mu   sync.Mutex
	data state
}

func NewStore() *Store {
	return &Store{data: newState()}
}

type txKey struct{}

func (s *Store) inTx(ctx context.Context) bool {
	owner, ok := ctx.Value(txKey{}).(*Store)
	return ok && owner == s
}

// WithinTransaction implements database.Transactor. Nested calls join the
// enclosing transaction.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	committed := false
	defer func() {
		if !committed {
			s.data = snapshot
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		return err
	}
	committed = true
	return nil
}

// run executes fn against the current state, taking the lock unless ctx is
// already inside one of this store's transactions.
func (s *Store) run(ctx context.Context, fn func(d *state) error) error {
	if s.inTx(ctx) {
		return fn(&s.data)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.data)
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return id.String(), nil
}

// paginate mirrors the SQL LIMIT/OFFSET defaults. A pageSize of 0 with
// all set returns every item.
func paginate[T any](items []T, page, pageSize int, all bool) []T {
	if all && pageSize <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

var _ database.Transactor = (*Store)(nil)
