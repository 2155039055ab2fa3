// Package switcher swaps one displayed child for another with a
// coordinated transition.
//
// A [Coordinator] keeps at most two children: the current one and the
// previous one that is still animating out. Each child is a [Child], a
// payload tagged with an explicit identity key. Rebuilding with an equal
// key updates the payload in place; a different key starts a switch.
//
// # Direction
//
// Children may carry an order index. Moving to a lower index plays the
// transition in reverse. At equal indices the coordinator remembers which
// key was left on the last forward switch, so toggling between two keyed
// states at the same index alternates direction correctly. Without indices
// every switch plays forward.
//
// # Gating
//
// Options.Delay and Options.Await hold a switch back. While gated the
// coordinator shows the placeholder or keeps the current child, depending
// on Options.GatePolicy. A newer request supersedes a gated one: the delay
// is stopped, the await context is cancelled, and a late result is
// dropped. A gate that never clears leaves the placeholder up.
//
// # Painting
//
// [Coordinator.Compose] returns the layers to paint for the current frame.
// Hosts call it after stepping tickers (animation.StepTickers).
package switcher
