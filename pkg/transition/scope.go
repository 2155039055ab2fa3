package transition

// Scope lets a descendant compose its own visual with the in-flight
// visuals of its ancestors. Ancestors publish through Provide; a descendant
// reads Effective and applies the result on top of its own transform.
//
// A nil *Scope is the root and yields Identity.
type Scope struct {
	parent   *Scope
	provide  func() Visual
	boundary bool
}

// Provide returns a child scope that adds fn's visual to everything
// inherited from s. fn is evaluated on every Effective call.
func (s *Scope) Provide(fn func() Visual) *Scope {
	return &Scope{parent: s, provide: fn}
}

// Boundary returns a child scope that hides every ancestor provider.
func (s *Scope) Boundary() *Scope {
	return &Scope{parent: s, boundary: true}
}

// Effective returns the product of the providers between s and the nearest
// boundary, outermost first.
func (s *Scope) Effective() Visual {
	v := Identity
	for cur := s; cur != nil && !cur.boundary; cur = cur.parent {
		if cur.provide != nil {
			v = cur.provide().Then(v)
		}
	}
	return v
}
