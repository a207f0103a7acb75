package router

import (
	"net/http"
	"strings"

	"github.com/samber/lo"

	"github.com/shandysiswandi/quickcart/internal/pkg/config"
)

// maintenanceRule matches a route pattern, optionally for one method only.
// A trailing "*" turns the pattern into a prefix.
type maintenanceRule struct {
	method  string
	pattern string
	prefix  bool
}

func parseMaintenanceRule(raw string) (maintenanceRule, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return maintenanceRule{}, false
	}

	var rule maintenanceRule
	if method, pattern, ok := strings.Cut(raw, " "); ok {
		rule.method = strings.ToUpper(method)
		raw = strings.TrimSpace(pattern)
	}
	if strings.HasSuffix(raw, "*") {
		rule.prefix = true
		raw = strings.TrimSuffix(raw, "*")
	}
	rule.pattern = raw

	return rule, rule.pattern != ""
}

func (m maintenanceRule) match(method, route string) bool {
	if m.method != "" && m.method != method {
		return false
	}
	if m.prefix {
		return strings.HasPrefix(route, m.pattern)
	}
	return route == m.pattern
}

// middlewareMaintenance answers 503 for routes listed in
// app.maintenance.endpoints. The list is read per request so a config reload
// toggles maintenance without a restart.
func middlewareMaintenance(cfg config.Config) Middleware {
	return func(next http.Handler) http.Handler {
		if cfg == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := routePattern(r)
			blocked := lo.SomeBy(cfg.GetArray("app.maintenance.endpoints"), func(raw string) bool {
				rule, ok := parseMaintenanceRule(raw)
				return ok && rule.match(r.Method, route)
			})
			if blocked {
				writeJSON(w, errorResponse{Message: "service is under maintenance"}, http.StatusServiceUnavailable)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
