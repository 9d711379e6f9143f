package access

import "strings"

// MethodAny matches every HTTP method.
const MethodAny = "*"

// Rule grants Role access to Path for the listed Methods.
type Rule struct {
	Role    string
	Path    string
	Methods []string
}

func (r Rule) allowsMethod(method string) bool {
	for _, m := range r.Methods {
		if m == MethodAny || strings.EqualFold(m, method) {
			return true
		}
	}
	return false
}

// Policy is an immutable permission table. It is built once at startup and
// safe for concurrent use.
type Policy struct {
	rules []Rule
}

// NewPolicy copies rules into a new Policy.
func NewPolicy(rules []Rule) *Policy {
	cp := make([]Rule, len(rules))
	for i, r := range rules {
		methods := make([]string, len(r.Methods))
		copy(methods, r.Methods)
		cp[i] = Rule{Role: r.Role, Path: Normalize(r.Path), Methods: methods}
	}
	return &Policy{rules: cp}
}

// Allows reports whether any rule grants role access to method on path.
// path is normalized before matching.
func (p *Policy) Allows(role, path, method string) bool {
	path = Normalize(path)
	for _, r := range p.rules {
		if r.Role == role && r.allowsMethod(method) && matchPath(r.Path, path) {
			return true
		}
	}
	return false
}

// Rules returns a copy of the table.
func (p *Policy) Rules() []Rule {
	out := make([]Rule, len(p.rules))
	copy(out, p.rules)
	return out
}

// DefaultRules is the permission table of the API.
func DefaultRules() []Rule {
	return []Rule{
		// admin
		{Role: RoleAdmin, Path: "/api/products", Methods: []string{"GET", "POST"}},
		{Role: RoleAdmin, Path: "/api/products/:id", Methods: []string{"GET", "PUT", "DELETE"}},
		{Role: RoleAdmin, Path: "/api/sales", Methods: []string{"GET", "POST"}},
		{Role: RoleAdmin, Path: "/api/sales/today", Methods: []string{"GET"}},
		{Role: RoleAdmin, Path: "/api/sales/:id", Methods: []string{"GET", "DELETE"}},
		{Role: RoleAdmin, Path: "/api/expenses", Methods: []string{"GET", "POST"}},
		{Role: RoleAdmin, Path: "/api/expenses/today", Methods: []string{"GET"}},
		{Role: RoleAdmin, Path: "/api/expenses/:id", Methods: []string{"DELETE"}},
		{Role: RoleAdmin, Path: "/api/reports", Methods: []string{"GET"}},
		{Role: RoleAdmin, Path: "/api/reports/*", Methods: []string{"GET"}},
		{Role: RoleAdmin, Path: "/api/reports/generate", Methods: []string{"POST"}},
		{Role: RoleAdmin, Path: "/api/auth/register", Methods: []string{"POST"}},
		{Role: RoleAdmin, Path: "/api/auth/me", Methods: []string{"GET"}},

		// employee
		{Role: RoleEmployee, Path: "/api/products", Methods: []string{"GET"}},
		{Role: RoleEmployee, Path: "/api/sales", Methods: []string{"GET", "POST"}},
		{Role: RoleEmployee, Path: "/api/sales/today", Methods: []string{"GET"}},
		{Role: RoleEmployee, Path: "/api/sales/:id", Methods: []string{"GET", "DELETE"}},
		{Role: RoleEmployee, Path: "/api/expenses", Methods: []string{"GET", "POST"}},
		{Role: RoleEmployee, Path: "/api/expenses/today", Methods: []string{"GET"}},
		{Role: RoleEmployee, Path: "/api/expenses/:id", Methods: []string{"DELETE"}},
		{Role: RoleEmployee, Path: "/api/auth/me", Methods: []string{"GET"}},
	}
}
