package session

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNormalizeAliasPreference(t *testing.T) {
	now := time.Now()

	cases := []struct {
		name string
		id   Identity
		want ID
	}{
		{"id wins", Identity{AliasID: "1", UserID: "2", LegacyID: "3"}, "1"},
		{"userId next", Identity{UserID: "2", LegacyID: "3"}, "2"},
		{"_id last", Identity{LegacyID: "3"}, "3"},
		{"primary already set", Identity{PrimaryID: "9", AliasID: "1"}, "9"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id := tc.id
			require.True(t, Normalize(&id, now))
			require.Equal(t, tc.want, id.PrimaryID)
			require.Equal(t, tc.want, id.AliasID)
			require.Equal(t, tc.want, id.UserID)
			require.Equal(t, tc.want, id.LegacyID)
			require.False(t, id.Degraded)
		})
	}
}

func TestNormalizePlaceholder(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	id := Identity{Username: "bob"}

	require.True(t, Normalize(&id, now))
	require.Equal(t, ID("user-bob-1700000000000"), id.PrimaryID)
	require.True(t, id.Degraded)
	require.Equal(t, id.PrimaryID, id.AliasID)
	require.Equal(t, id.PrimaryID, id.UserID)
	require.Equal(t, id.PrimaryID, id.LegacyID)
}

func TestNormalizeUnrecoverable(t *testing.T) {
	id := Identity{Token: "t", Roles: RoleList{{Name: "ROLE_ADMIN"}}}
	require.False(t, Normalize(&id, time.Now()))
}

func TestNormalizeDefaultsRoles(t *testing.T) {
	id := Identity{AliasID: "7"}
	require.True(t, Normalize(&id, time.Now()))
	require.Equal(t, RoleList{{Name: DefaultRole}}, id.Roles)

	// existing roles are never touched
	id = Identity{AliasID: "7", Roles: RoleList{{Name: "ROLE_ADMIN"}}}
	require.True(t, Normalize(&id, time.Now()))
	require.Equal(t, RoleList{{Name: "ROLE_ADMIN"}}, id.Roles)
}

func TestHasRole(t *testing.T) {
	id := &Identity{Roles: RoleList{{Name: "ROLE_USER"}, {Name: "ROLE_ADMIN"}}}
	require.True(t, HasRole(id, "ROLE_ADMIN"))
	require.False(t, HasRole(id, "ROLE_MODERATOR"))
	require.False(t, HasRole(nil, "ROLE_USER"))
	require.False(t, HasRole(&Identity{}, "ROLE_USER"))
}

func TestIDJSON(t *testing.T) {
	var id ID
	require.NoError(t, json.Unmarshal([]byte(`42`), &id))
	require.Equal(t, ID("42"), id)

	require.NoError(t, json.Unmarshal([]byte(`"abc"`), &id))
	require.Equal(t, ID("abc"), id)

	require.NoError(t, json.Unmarshal([]byte(`null`), &id))
	require.Equal(t, ID(""), id)

	// numeric values round-trip as JSON numbers, everything else as strings
	out, err := json.Marshal(ID("42"))
	require.NoError(t, err)
	require.Equal(t, `42`, string(out))

	out, err = json.Marshal(ID("user-bob-17"))
	require.NoError(t, err)
	require.Equal(t, `"user-bob-17"`, string(out))
}

func TestRoleJSON(t *testing.T) {
	var r Role
	require.NoError(t, json.Unmarshal([]byte(`"ROLE_ADMIN"`), &r))
	require.Equal(t, "ROLE_ADMIN", r.Name)

	require.NoError(t, json.Unmarshal([]byte(`{"name":"ROLE_USER","id":1}`), &r))
	require.Equal(t, "ROLE_USER", r.Name)

	out, err := json.Marshal(Role{Name: "ROLE_USER"})
	require.NoError(t, err)
	require.Equal(t, `"ROLE_USER"`, string(out))
}

func TestRoleListJSON(t *testing.T) {
	var l RoleList
	require.NoError(t, json.Unmarshal([]byte(`["ROLE_USER",{"name":"ROLE_ADMIN"}]`), &l))
	require.Equal(t, RoleList{{Name: "ROLE_USER"}, {Name: "ROLE_ADMIN"}}, l)

	// a single bare entry gets wrapped
	require.NoError(t, json.Unmarshal([]byte(`"ROLE_USER"`), &l))
	require.Equal(t, RoleList{{Name: "ROLE_USER"}}, l)

	require.NoError(t, json.Unmarshal([]byte(`null`), &l))
	require.Nil(t, l)
}

func TestAuthHeader(t *testing.T) {
	h := AuthHeader(&Identity{Token: "tok"})
	require.Equal(t, "Bearer tok", h.Get("Authorization"))

	require.Empty(t, AuthHeader(nil))
	require.Empty(t, AuthHeader(&Identity{Username: "bob"}))
}

func TestIdentityRoundTrip(t *testing.T) {
	id := Identity{AliasID: "5", Username: "ann", Token: "tok"}
	require.True(t, Normalize(&id, time.Now()))

	data, err := json.Marshal(&id)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), `"userId":5`), string(data))

	var back Identity
	require.NoError(t, json.Unmarshal(data, &back))
	require.Equal(t, id, back)
}
