package session

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	user := &Identity{Roles: RoleList{{Name: "ROLE_USER"}}}
	admin := &Identity{Roles: RoleList{{Name: "ROLE_USER"}, {Name: "ROLE_ADMIN"}}}

	require.Equal(t, RedirectLogin, Check(nil, ""))
	require.Equal(t, RedirectLogin, Check(nil, "ROLE_ADMIN"))
	require.Equal(t, Allow, Check(user, ""))
	require.Equal(t, RedirectHome, Check(user, "ROLE_ADMIN"))
	require.Equal(t, Allow, Check(admin, "ROLE_ADMIN"))
}

func TestDecisionString(t *testing.T) {
	require.Equal(t, "allow", Allow.String())
	require.Equal(t, "redirect-login", RedirectLogin.String())
	require.Equal(t, "redirect-home", RedirectHome.String())
	require.Equal(t, "unknown", Decision(99).String())
}
