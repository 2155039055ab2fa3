// Package testing provides a frame pump for testing switchers without a host.
//
// # Quick Start
//
// Create a tester, drive a coordinator, and advance frames:
//
//	func TestSwitch(t *testing.T) {
//	    tester := switchtest.NewTesterWithT(t)
//	    c, _ := switcher.New(switcher.DefaultOptions())
//	    c.SetChild(switcher.Tag("a", nil))
//	    c.SetChild(switcher.Tag("b", nil))
//
//	    tester.PumpAndSettle(time.Second)
//	    if got := len(c.Compose()); got != 1 {
//	        t.Errorf("expected 1 layer, got %d", got)
//	    }
//	}
//
// # Time
//
// The tester installs a [FakeClock] as the animation clock, so tickers only
// move when the test advances it:
//
//	tester.Clock().Advance(100 * time.Millisecond)
//	tester.Pump()
//
// # Dispatch
//
// The tester also installs itself as the platform dispatcher. Callbacks
// handed to platform.Dispatch from other goroutines run on the next Pump.
// [Tester.PumpUntil] keeps pumping in real time until a condition holds,
// which is how tests wait for work finished on another goroutine.
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import switchtest "github.com/go-drift/switcher/pkg/testing"
package testing
