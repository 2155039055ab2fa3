package transition

import (
	"fmt"
	"strings"

	"github.com/go-drift/switcher/pkg/errors"
)

// Kind selects how an entering or exiting child is transformed.
type Kind int

const (
	// KindFade crossfades the two children.
	KindFade Kind = iota
	// KindAxisVertical fades and slides along the vertical axis.
	KindAxisVertical
	// KindAxisHorizontal fades and slides along the horizontal axis.
	KindAxisHorizontal
	// KindScale fades while zooming through the center.
	KindScale
	// KindSlide slides whole child widths under a clip, without fading.
	KindSlide
	// KindInstant swaps children on the first frame.
	KindInstant
)

var kindNames = [...]string{
	KindFade:           "fade",
	KindAxisVertical:   "axisVertical",
	KindAxisHorizontal: "axisHorizontal",
	KindScale:          "scale",
	KindSlide:          "slide",
	KindInstant:        "instant",
}

// String returns the configuration name of the kind.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= 0 && int(k) < len(kindNames)
}

// ParseKind resolves a kind name. Matching ignores case, dashes and
// underscores; "scaled" is accepted as an alias of "scale".
func ParseKind(name string) (Kind, error) {
	key := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(name))
	if key == "scaled" {
		return KindScale, nil
	}
	for k, n := range kindNames {
		if strings.ToLower(n) == key {
			return Kind(k), nil
		}
	}
	return KindFade, &errors.ConfigError{
		Field:  "Kind",
		Value:  name,
		Reason: "unsupported transition kind",
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, &errors.ConfigError{Field: "Kind", Value: int(k), Reason: "unsupported transition kind"}
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so kinds can be read
// from configuration files.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Role is the part a child plays in a transition.
type Role int

const (
	// Entering is the incoming child: progress 0 is hidden, 1 is at rest.
	Entering Role = iota
	// Exiting is the outgoing child: progress 0 is at rest, 1 is gone.
	Exiting
)

func (r Role) String() string {
	if r == Exiting {
		return "exiting"
	}
	return "entering"
}
