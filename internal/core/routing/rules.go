package routing

import (
	"strings"

	"github.com/fitmarket/session-gateway/internal/core/domain"
)

// AccessKind classifies who may enter a path.
type AccessKind int

const (
	// Public paths require no identity at all.
	Public AccessKind = iota
	// AnyAuthenticated paths require a session holding any recognized role.
	AnyAuthenticated
	// RoleRestricted paths require the caller's role to be on the rule's
	// explicit allow-list.
	RoleRestricted
)

// Access is the resolver's answer for a path.
type Access struct {
	Kind  AccessKind
	roles map[domain.Role]struct{}
}

// Allows reports whether a caller holding role may enter. Public paths allow
// everyone; unrecognized roles never pass a restricted rule.
func (a Access) Allows(role domain.Role) bool {
	switch a.Kind {
	case Public:
		return true
	case AnyAuthenticated:
		return role.Valid()
	default:
		_, ok := a.roles[role]
		return ok
	}
}

func public() Access { return Access{Kind: Public} }

func anyAuthenticated() Access { return Access{Kind: AnyAuthenticated} }

func restricted(roles ...domain.Role) Access {
	set := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return Access{Kind: RoleRestricted, roles: set}
}

// rule binds a path prefix to an access policy. A rule for /dashboard/admin
// also governs /dashboard/admin/settings; the most specific matching prefix
// wins.
type rule struct {
	prefix string
	access Access
}

// rules is the static protected-route table. It is defined once at build
// time and never mutated. Order is irrelevant: Resolve picks the longest
// matching prefix.
var rules = []rule{
	{"/", public()},
	{"/gyms", public()},
	{"/trainers", public()},
	{"/offers", public()},
	{"/auth", public()},
	{"/health", public()},
	{"/metrics", public()},
	{"/swagger", public()},

	{"/dashboard", anyAuthenticated()},
	{"/dashboard/admin", restricted(domain.RoleAdmin)},
	{"/dashboard/gym-staff", restricted(domain.RoleGymStaff)},
	{"/dashboard/pt", restricted(domain.RolePT)},
	{"/profile", anyAuthenticated()},
}

// Resolve returns the access policy governing path. Paths matched by no rule
// default to AnyAuthenticated: everything not explicitly public is protected.
func Resolve(path string) Access {
	best := anyAuthenticated()
	bestLen := -1
	for _, r := range rules {
		if !prefixMatch(r.prefix, path) {
			continue
		}
		if len(r.prefix) > bestLen {
			best = r.access
			bestLen = len(r.prefix)
		}
	}
	return best
}

// prefixMatch matches whole path segments: /gyms governs /gyms and /gyms/42
// but not /gymsuite. The root rule matches only "/" itself, otherwise it
// would shadow the protected-by-default policy for every path.
func prefixMatch(prefix, path string) bool {
	if prefix == "/" {
		return path == "/" || path == ""
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
