package httpx

import "net/http"

// RequireAnyRole is the role-enforcement half of the access guard: the
// verified identity's role must be one of the listed values. Runs after
// AuthnMiddleware; an absent identity is a 401, a present identity with the
// wrong role is a 403. The two must stay distinct status codes.
func RequireAnyRole(roles ...string) Middleware {
	want := roleSet(roles)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				guardDenials.WithLabelValues("missing_identity").Inc()
				WriteError(w, http.StatusUnauthorized, MsgAuthRequired)
				return
			}
			if _, ok := want[id.Role]; !ok {
				guardDenials.WithLabelValues("role_mismatch").Inc()
				WriteError(w, http.StatusForbidden, MsgAccessDenied)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole enforces exactly one role.
func RequireRole(role string) Middleware {
	return RequireAnyRole(role)
}

// RequireAnyRoleRedirect is the page-route variant: a valid session with
// the wrong role is not sent to login (the session is fine, the destination
// is wrong) but to its own role's dashboard.
func RequireAnyRoleRedirect(dashboardFor func(role string) string, roles ...string) Middleware {
	want := roleSet(roles)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				WriteError(w, http.StatusUnauthorized, MsgAuthRequired)
				return
			}
			if _, ok := want[id.Role]; !ok {
				guardDenials.WithLabelValues("role_mismatch").Inc()
				http.Redirect(w, r, dashboardFor(id.Role), http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func roleSet(roles []string) map[string]struct{} {
	set := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		set[role] = struct{}{}
	}
	return set
}
