package session

// Decision is the outcome of the authorization gate for a guarded view.
type Decision int

const (
	// Allow grants access.
	Allow Decision = iota
	// RedirectLogin denies an anonymous caller: no identity at all.
	RedirectLogin
	// RedirectHome denies a signed-in caller lacking the required role.
	RedirectHome
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect-login"
	case RedirectHome:
		return "redirect-home"
	}
	return "unknown"
}

// Check runs the authorization gate. requiredRole may be empty, meaning
// any authenticated identity passes. The two deny outcomes are distinct on
// purpose: an anonymous caller goes to login, a known caller without the
// privilege goes home.
func Check(id *Identity, requiredRole string) Decision {
	if id == nil {
		return RedirectLogin
	}
	if requiredRole == "" {
		return Allow
	}
	if !HasRole(id, requiredRole) {
		return RedirectHome
	}
	return Allow
}
