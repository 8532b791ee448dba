// Package session owns the client's notion of the currently authenticated
// identity: it signs in against the backend, normalizes the inconsistent
// identity shapes older backends produced, persists the record to a single
// JSON credentials file, and answers role and header questions for the
// rest of the client.
package session

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DefaultRole is granted when the backend omits roles entirely.
const DefaultRole = "ROLE_USER"

// ID holds an account identifier that backends serve either as a JSON
// number or a string. The string form is kept internally; MarshalJSON
// re-emits integer values as numbers so persisted records keep the
// backend's shape.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*id = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*id = ID(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ID) String() string { return string(id) }

// Role is one role entry. Backends serve either a plain string
// ("ROLE_ADMIN") or an object with a name field; both decode to the same
// value and re-encode as the plain string.
type Role struct {
	Name string
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		r.Name = s
		return nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	r.Name = obj.Name
	return nil
}

func (r Role) MarshalJSON() ([]byte, error) { return json.Marshal(r.Name) }

// RoleList decodes either a JSON array of role entries or a single bare
// entry, which gets wrapped into a one-element list.
type RoleList []Role

func (l *RoleList) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*l = nil
		return nil
	}
	if strings.HasPrefix(s, "[") {
		var roles []Role
		if err := json.Unmarshal(data, &roles); err != nil {
			return err
		}
		*l = roles
		return nil
	}
	var r Role
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	*l = RoleList{r}
	return nil
}

// Identity is the record of the logged-in user. After Normalize it always
// has a primary identifier, a token and at least one role. The three
// legacy alias fields mirror PrimaryID on disk so older readers keyed to a
// specific alias still see a consistent value.
type Identity struct {
	PrimaryID ID       `json:"primaryId,omitempty"`
	AliasID   ID       `json:"id,omitempty"`
	UserID    ID       `json:"userId,omitempty"`
	LegacyID  ID       `json:"_id,omitempty"`
	Username  string   `json:"username,omitempty"`
	Email     string   `json:"email,omitempty"`
	Token     string   `json:"token,omitempty"`
	Roles     RoleList `json:"roles"`

	// Degraded marks a synthesized placeholder identifier: the backend
	// never issued it, so server-side operations keyed on the ID may fail.
	Degraded bool `json:"degraded,omitempty"`
}

// Normalize repairs an identity record in place: resolves the canonical
// identifier from the legacy aliases (preference order id, userId, _id),
// mirrors it back onto all of them, synthesizes a degraded placeholder
// from the username when no identifier exists at all, and guarantees a
// non-empty role list. Returns false when the record is unrecoverable
// (no identifier and no username); the caller must force
// re-authentication.
func Normalize(id *Identity, now time.Time) bool {
	if id.PrimaryID == "" {
		switch {
		case id.AliasID != "":
			id.PrimaryID = id.AliasID
		case id.UserID != "":
			id.PrimaryID = id.UserID
		case id.LegacyID != "":
			id.PrimaryID = id.LegacyID
		}
	}
	if id.PrimaryID == "" {
		if id.Username == "" {
			return false
		}
		id.PrimaryID = ID(fmt.Sprintf("user-%s-%d", id.Username, now.UnixMilli()))
		id.Degraded = true
	}
	id.AliasID, id.UserID, id.LegacyID = id.PrimaryID, id.PrimaryID, id.PrimaryID
	if len(id.Roles) == 0 {
		id.Roles = RoleList{{Name: DefaultRole}}
	}
	return true
}

// HasRole reports whether the identity carries the required role. A nil
// identity or empty role list never matches.
func HasRole(id *Identity, required string) bool {
	if id == nil {
		return false
	}
	for _, r := range id.Roles {
		if r.Name == required {
			return true
		}
	}
	return false
}

// AuthHeader returns the headers to attach to an authenticated request: a
// single Authorization bearer entry, or an empty set when no usable token
// exists.
func AuthHeader(id *Identity) http.Header {
	h := http.Header{}
	if id != nil && id.Token != "" {
		h.Set("Authorization", "Bearer "+id.Token)
	}
	return h
}
