package service

import "github.com/lawyer4u/portal/internal/core/domain"

// Decide evaluates a navigation target. It is a pure function of its inputs
// and is recomputed on every request. A session still restoring always yields
// Pending, whatever the requirement.
func Decide(s domain.Session, req domain.Requirement) domain.Decision {
	if s.Loading() {
		return domain.Decision{State: domain.GuardPending}
	}

	id := s.Identity
	switch req.Kind {
	case domain.RequirePublicOnly:
		if id != nil {
			return domain.Decision{State: domain.GuardPublicBlocked, RedirectTo: domain.PathDashboard}
		}
	case domain.RequireAuthenticated:
		if id == nil {
			return domain.Decision{State: domain.GuardUnauthorized, RedirectTo: domain.PathLogin}
		}
	case domain.RequireRole:
		if id == nil {
			return domain.Decision{State: domain.GuardUnauthorized, RedirectTo: domain.PathLogin}
		}
		if !id.HasRole(req.Roles...) {
			return domain.Decision{State: domain.GuardForbidden, RedirectTo: domain.PathDashboard}
		}
	}

	return domain.Decision{State: domain.GuardAllowed}
}
