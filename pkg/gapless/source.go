package gapless

import "fmt"

// EventKind classifies a decode event.
type EventKind int

const (
	// FrameReady carries a decoded frame.
	FrameReady EventKind = iota
	// FrameAbsent reports that no frame is available yet.
	FrameAbsent
	// LoadFailed reports that the content could not be loaded.
	LoadFailed
)

func (k EventKind) String() string {
	switch k {
	case FrameReady:
		return "frameReady"
	case FrameAbsent:
		return "frameAbsent"
	case LoadFailed:
		return "loadFailed"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one notification from a Source.
type Event struct {
	ContentID string
	Kind      EventKind
	Frame     any
	Err       error
}

// Source delivers frames keyed by content id. Events must be delivered on
// the UI thread.
type Source interface {
	// Cached returns a frame that is available without waiting.
	Cached(contentID string) (any, bool)

	// Subscribe starts delivering events for contentID to fn. The returned
	// function stops delivery; no event reaches fn after it returns.
	Subscribe(contentID string, fn func(Event)) (cancel func())
}
