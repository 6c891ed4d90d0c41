package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/tuneboxd/internal/model"
)

func TestEnforcer_RoleHierarchy(t *testing.T) {
	e, err := NewEnforcer()
	require.NoError(t, err)

	user := model.Actor{UserID: "u", Role: model.RoleUser}
	mod := model.Actor{UserID: "m", Role: model.RoleModerator}
	admin := model.Actor{UserID: "a", Role: model.RoleAdmin}

	tests := []struct {
		name  string
		actor model.Actor
		cap   Capability
		want  bool
	}{
		{"user cannot moderate", user, ModerateContent, false},
		{"user cannot lock", user, LockThread, false},
		{"moderator moderates", mod, ModerateContent, true},
		{"moderator locks", mod, LockThread, true},
		{"moderator cannot manage users", mod, ManageUsers, false},
		{"admin inherits moderator", admin, LockThread, true},
		{"admin manages users", admin, ManageUsers, true},
		{"unknown role", model.Actor{UserID: "x", Role: "root"}, ModerateContent, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Can(tt.actor, tt.cap))
		})
	}
}

func TestLoadPolicy_Malformed(t *testing.T) {
	e, err := NewEnforcer()
	require.NoError(t, err)
	assert.Error(t, loadPolicy(e.enforcer, "p, only-two"))
}
