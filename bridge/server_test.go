package bridge

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/brokenrobotz/franka-gripper-bridge/gripper"
	"github.com/brokenrobotz/franka-gripper-bridge/testutils/inject"
)

func TestDispatcherOutcome(t *testing.T) {
	ctx := context.Background()
	var deviceMu sync.Mutex

	t.Run("success has empty error", func(t *testing.T) {
		d := newDispatcher(&inject.Device{}, &deviceMu, golog.NewTestLogger(t))
		out := d.execute(ctx, "homing", func(ctx context.Context) error {
			return nil
		})
		test.That(t, out, test.ShouldResemble, outcome{Success: true, Error: ""})
	})

	t.Run("device error aborts with its message", func(t *testing.T) {
		logger, logs := golog.NewObservedTestLogger(t)
		d := newDispatcher(&inject.Device{}, &deviceMu, logger)
		out := d.execute(ctx, "grasp", func(ctx context.Context) error {
			return gripper.NewDeviceError("clamped at 0.03")
		})
		test.That(t, out.Success, test.ShouldBeFalse)
		test.That(t, out.Error, test.ShouldEqual, "clamped at 0.03")
		test.That(t, logs.FilterMessageSnippet("command failed").Len(), test.ShouldEqual, 1)
	})

	t.Run("empty error message is filled in", func(t *testing.T) {
		d := newDispatcher(&inject.Device{}, &deviceMu, golog.NewTestLogger(t))
		out := d.execute(ctx, "move", func(ctx context.Context) error {
			return errors.New("")
		})
		test.That(t, out.Success, test.ShouldBeFalse)
		test.That(t, out.Error, test.ShouldNotBeEmpty)
	})

	t.Run("endpoint stays live after a failure", func(t *testing.T) {
		d := newDispatcher(&inject.Device{}, &deviceMu, golog.NewTestLogger(t))
		out := d.execute(ctx, "move", func(ctx context.Context) error {
			return errors.New("boom")
		})
		test.That(t, out.Success, test.ShouldBeFalse)
		out = d.execute(ctx, "move", func(ctx context.Context) error {
			return nil
		})
		test.That(t, out.Success, test.ShouldBeTrue)
	})
}

// Device calls must never overlap, whether they come from command endpoints
// or from the state sampler.
func TestDeviceAccessSerialized(t *testing.T) {
	logger := golog.NewTestLogger(t)

	var inFlight, maxInFlight int32
	enter := func() {
		cur := atomic.AddInt32(&inFlight, 1)
		for {
			max := atomic.LoadInt32(&maxInFlight)
			if cur <= max || atomic.CompareAndSwapInt32(&maxInFlight, max, cur) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
	}

	dev := &inject.Device{
		HomeFunc: func(ctx context.Context) error {
			enter()
			return nil
		},
		MoveFunc: func(ctx context.Context, width, speed float64) error {
			enter()
			return nil
		},
		StateFunc: func(ctx context.Context) (gripper.State, error) {
			enter()
			return gripper.State{}, nil
		},
	}

	var deviceMu sync.Mutex
	d := newDispatcher(dev, &deviceMu, logger)
	smp := newSampler(dev, &deviceMu, 10, clock.New(), logger)

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			d.execute(ctx, "homing", func(ctx context.Context) error {
				return dev.Home(ctx)
			})
		}()
		go func() {
			defer wg.Done()
			d.execute(ctx, "move", func(ctx context.Context) error {
				return dev.Move(ctx, 0.05, 0.1)
			})
		}()
		go func() {
			defer wg.Done()
			smp.sampleOnce()
		}()
	}
	wg.Wait()

	test.That(t, atomic.LoadInt32(&maxInFlight), test.ShouldEqual, 1)
}
