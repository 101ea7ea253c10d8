package domain

// Scope selects which reviews are aggregated on a product page.
type Scope string

// Scope values.
const (
	ScopeProduct Scope = "product"
	ScopeAll     Scope = "all"
)

// ValidScopes returns all supported scopes.
func ValidScopes() []Scope {
	return []Scope{ScopeProduct, ScopeAll}
}

// ParseScope maps a query value to a Scope. Anything other than "all"
// selects the single-product scope.
func ParseScope(s string) Scope {
	if Scope(s) == ScopeAll {
		return ScopeAll
	}
	return ScopeProduct
}

// Toggle returns the other scope.
func (s Scope) Toggle() Scope {
	if s == ScopeAll {
		return ScopeProduct
	}
	return ScopeAll
}
