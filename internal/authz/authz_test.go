package authz

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/obstacle-registry/internal/models"
	"github.com/stretchr/testify/require"
)

func TestPermissionTable(t *testing.T) {
	enf, err := New()
	require.NoError(t, err)

	tests := []struct {
		role    models.Role
		obj     string
		act     string
		allowed bool
	}{
		{models.RolePilot, ObjReport, ActSave, true},
		{models.RolePilot, ObjReport, ActDelete, true},
		{models.RolePilot, ObjQueue, ActDecide, false},
		{models.RoleAdmin, ObjReport, ActSave, true},
		{models.RoleAdmin, ObjQueue, ActDecide, false},
		{models.RoleRegistrar, ObjQueue, ActDecide, true},
		{models.RoleRegistrar, ObjQueue, ActAssign, true},
		{models.RoleRegistrar, ObjReport, ActSave, false},
		{models.Role("guest"), ObjReport, ActReadOwn, false},
	}

	for _, tt := range tests {
		require.Equal(t, tt.allowed, enf.Allowed(tt.role, tt.obj, tt.act), "%s %s %s", tt.role, tt.obj, tt.act)
	}
}
