package service

import (
	"strings"

	"github.com/lawyer4u/portal/internal/core/domain"
)

// NavLink is one entry of the sidebar.
type NavLink struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// testAdminEmail is the account the login form sends to the admin dashboard
// even when "client" was picked in the role selector.
const testAdminEmail = "testadmin@gmail.com"

// Navigation projects the visible sidebar links from the identity's role.
// Nobody logged in, or a role outside the closed set, yields no links.
func Navigation(id *domain.Identity) []NavLink {
	if id == nil {
		return nil
	}

	switch id.Role {
	case domain.RoleClient:
		return []NavLink{
			{Label: "Dashboard", Path: "/dashboard"},
			{Label: "Find Lawyers", Path: "/find-lawyers"},
			{Label: "Appointments", Path: "/appointments"},
			{Label: "Payments", Path: "/payments"},
			{Label: "Reviews", Path: "/reviews"},
			{Label: "Profile", Path: "/profile"},
		}
	case domain.RoleLawyer:
		return []NavLink{
			{Label: "Dashboard", Path: "/dashboard"},
			{Label: "Appointments", Path: "/appointments"},
			{Label: "Reviews", Path: "/reviews"},
			{Label: "Profile", Path: "/profile"},
		}
	case domain.RoleAdmin:
		return []NavLink{
			{Label: "Dashboard", Path: "/admin/dashboard"},
			{Label: "Users", Path: "/admin/users"},
			{Label: "Lawyer Verification", Path: "/admin/verification"},
		}
	default:
		return []NavLink{}
	}
}

// HeaderLinks are shown to visitors who are not logged in.
func HeaderLinks() []NavLink {
	return []NavLink{
		{Label: "Find Lawyers", Path: "/find-lawyers"},
		{Label: "About", Path: "/about"},
		{Label: "Login", Path: domain.PathLogin},
		{Label: "Get Started", Path: domain.PathRegister},
	}
}

// LandingAfterLogin picks where a successful login goes. submittedRole is
// the role chosen on the form, id the identity the backend returned.
func LandingAfterLogin(email string, submittedRole domain.Role, id *domain.Identity) string {
	if submittedRole == domain.RoleClient && strings.EqualFold(strings.TrimSpace(email), testAdminEmail) {
		return domain.PathAdminDashboard
	}
	if id.HasRole(domain.RoleAdmin) {
		return domain.PathAdminDashboard
	}
	return domain.PathDashboard
}

// LandingAfterRegistration sends new lawyers to complete their profile.
func LandingAfterRegistration(role domain.Role) string {
	if role == domain.RoleLawyer {
		return domain.PathLawyerRegistration
	}
	return domain.PathDashboard
}
