package employee

import (
	"testing"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestHourlyRate(t *testing.T) {
	emp := Employee{MonthlySalary: decimal.NewFromInt(35200)}
	assert.True(t, emp.HourlyRate().Equal(decimal.NewFromInt(200)), "got %s", emp.HourlyRate())

	assert.True(t, HourlyRate(decimal.Zero).IsZero())
}

func TestCanApprove(t *testing.T) {
	assert.True(t, Employee{Role: user.RoleOwner}.CanApprove())
	assert.True(t, Employee{Role: user.RoleManager}.CanApprove())
	assert.False(t, Employee{Role: user.RoleEmployee}.CanApprove())
}
