//go:build unit

package user_test

import (
	"testing"

	"car-rental-api/internal/domain/user"
	"car-rental-api/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRole(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    user.Role
		wantErr error
	}{
		{name: "customer", input: "customer", want: user.RoleCustomer},
		{name: "staff", input: "staff", want: user.RoleStaff},
		{name: "admin", input: "admin", want: user.RoleAdmin},
		{name: "unknown role", input: "root", wantErr: user.ErrInvalidRole},
		{name: "empty", input: "", wantErr: user.ErrInvalidRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := user.NewRole(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.True(t, errs.IsKind(err, errs.ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRole_AtLeast(t *testing.T) {
	assert.True(t, user.RoleAdmin.AtLeast(user.RoleStaff))
	assert.True(t, user.RoleStaff.AtLeast(user.RoleStaff))
	assert.False(t, user.RoleCustomer.AtLeast(user.RoleStaff))
	assert.False(t, user.Role("ghost").AtLeast(user.RoleCustomer))
}

func TestActor_CanAccess(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	assert.True(t, user.NewActor(owner, user.RoleCustomer).CanAccess(owner))
	assert.False(t, user.NewActor(other, user.RoleCustomer).CanAccess(owner))
	assert.True(t, user.NewActor(other, user.RoleAdmin).CanAccess(owner))
	assert.False(t, user.NewActor(uuid.Nil, user.RoleCustomer).CanAccess(uuid.Nil))
}
