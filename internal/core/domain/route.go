package domain

// RequirementKind is the access policy declared on a route.
type RequirementKind int

const (
	// RequireNothing marks routes open to everyone (home, about, directory).
	RequireNothing RequirementKind = iota
	// RequirePublicOnly marks routes only anonymous visitors may see (login, register).
	RequirePublicOnly
	// RequireAuthenticated marks routes for any logged-in principal.
	RequireAuthenticated
	// RequireRole marks routes restricted to a set of roles.
	RequireRole
)

// Requirement is attached to a route when the shell is assembled.
type Requirement struct {
	Kind  RequirementKind
	Roles []Role
}

func Open() Requirement             { return Requirement{Kind: RequireNothing} }
func PublicOnly() Requirement       { return Requirement{Kind: RequirePublicOnly} }
func AnyAuthenticated() Requirement { return Requirement{Kind: RequireAuthenticated} }

// RoleIn restricts a route to the given roles. An empty set admits nobody.
func RoleIn(roles ...Role) Requirement {
	return Requirement{Kind: RequireRole, Roles: append([]Role(nil), roles...)}
}

// GuardState is the outcome of a single guard evaluation.
type GuardState string

const (
	GuardPending       GuardState = "pending"
	GuardUnauthorized  GuardState = "unauthorized"
	GuardForbidden     GuardState = "forbidden"
	GuardPublicBlocked GuardState = "public_blocked"
	GuardAllowed       GuardState = "allowed"
)

// Decision tells the shell whether to render the page or where to go instead.
type Decision struct {
	State      GuardState
	RedirectTo string
}

// Redirects reports whether the decision sends the browser elsewhere.
func (d Decision) Redirects() bool { return d.RedirectTo != "" }

// Well-known shell paths.
const (
	PathHome               = "/"
	PathLogin              = "/login"
	PathRegister           = "/register"
	PathDashboard          = "/dashboard"
	PathAdminDashboard     = "/admin/dashboard"
	PathLawyerRegistration = "/lawyer-registration"
)
