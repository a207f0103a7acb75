// Package authz builds the casbin enforcer that guards resource actions.
//
// Policies are static and come from configuration as "subject, object, action"
// lines, e.g. "customer, product, write". The role claim embedded in the
// access token is the subject.
package authz

import (
	"errors"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/samber/lo"
)

const (
	ActRead  = "read"
	ActWrite = "write"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

// ErrInvalidPolicy is returned when a policy line does not have three fields.
var ErrInvalidPolicy = errors.New("authz: policy must be \"subject, object, action\"")

// Enforcer decides whether a subject may perform an action on an object.
type Enforcer interface {
	Enforce(rvals ...any) (bool, error)
}

// ParsePolicies splits policy lines into casbin rules. Blank lines are skipped.
func ParsePolicies(lines []string) ([][]string, error) {
	lines = lo.Filter(lines, func(line string, _ int) bool {
		return strings.TrimSpace(line) != ""
	})

	rules := make([][]string, 0, len(lines))
	for _, line := range lines {
		rule := lo.Map(strings.Split(line, ","), func(part string, _ int) string {
			return strings.TrimSpace(part)
		})
		if len(rule) != 3 || lo.Contains(rule, "") {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPolicy, line)
		}
		rules = append(rules, rule)
	}

	return lo.UniqBy(rules, func(rule []string) string {
		return strings.Join(rule, ",")
	}), nil
}

// NewEnforcer returns an in-memory enforcer loaded with the given policy lines.
func NewEnforcer(lines []string) (*casbin.Enforcer, error) {
	rules, err := ParsePolicies(lines)
	if err != nil {
		return nil, err
	}

	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	if len(rules) > 0 {
		if _, err := e.AddPolicies(rules); err != nil {
			return nil, err
		}
	}

	return e, nil
}
