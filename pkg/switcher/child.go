package switcher

import (
	"reflect"

	"github.com/go-drift/switcher/pkg/errors"
)

// Child is one switchable unit: a payload the host knows how to draw,
// tagged with the key that decides whether two builds are the same item.
//
// The coordinator never looks inside Payload to decide identity. Two
// children with equal keys are the same logical item even when their
// payloads differ; the newer payload simply replaces the older one.
type Child struct {
	Key     any
	Payload any

	// Index orders children for direction inference. Only meaningful when
	// HasIndex is set.
	Index    int
	HasIndex bool
}

// Tag wraps payload with an identity key. key must be comparable.
func Tag(key, payload any) *Child {
	return &Child{Key: key, Payload: payload}
}

// WithIndex returns a copy of c ordered at index.
func (c *Child) WithIndex(index int) *Child {
	cp := *c
	cp.Index = index
	cp.HasIndex = true
	return &cp
}

// WithPayload returns a copy of c carrying payload under the same key.
func (c *Child) WithPayload(payload any) *Child {
	cp := *c
	cp.Payload = payload
	return &cp
}

type placeholderKey struct{}

type emptyKey struct{}

func (placeholderKey) String() string { return "<placeholder>" }
func (emptyKey) String() string       { return "<empty>" }

// PlaceholderKey is the identity of the placeholder shown while a switch is
// gated. Every placeholder shares it, so moving between two gated requests
// never animates the placeholder itself.
var PlaceholderKey any = placeholderKey{}

// keyOf returns the identity of c. A nil child is the empty slot.
func keyOf(c *Child) any {
	if c == nil {
		return emptyKey{}
	}
	return c.Key
}

// SameIdentity reports whether a and b are the same logical child.
//
// Identity comes from the keys alone. A child without a key, or with a key
// that cannot be compared, violates the tagging contract; outside debug
// mode the violation is reported and the payloads are compared
// structurally instead.
func SameIdentity(a, b *Child) bool {
	ka, kb := keyOf(a), keyOf(b)
	if !validKey(ka) || !validKey(kb) {
		errors.Assert(false, "switcher.SameIdentity", "child is missing a comparable identity key")
		return reflect.DeepEqual(payloadOf(a), payloadOf(b))
	}
	return ka == kb
}

func validKey(k any) bool {
	return k != nil && reflect.ValueOf(k).Comparable()
}

// keysEqual compares two keys without panicking on incomparable values.
func keysEqual(a, b any) bool {
	if !validKey(a) || !validKey(b) {
		return false
	}
	return a == b
}

func payloadOf(c *Child) any {
	if c == nil {
		return nil
	}
	return c.Payload
}
