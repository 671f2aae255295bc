package bridge

import (
	"context"
	"sync"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/bluenviron/goroslib/v2/pkg/msgs/sensor_msgs"
	"github.com/edaniels/golog"
	"go.viam.com/test"

	"github.com/brokenrobotz/franka-gripper-bridge/gripper"
	"github.com/brokenrobotz/franka-gripper-bridge/testutils/inject"
)

// recordingWriter captures published joint states in place of a ROS topic.
type recordingWriter struct {
	mu   sync.Mutex
	msgs []*sensor_msgs.JointState
}

func (w *recordingWriter) Write(msg interface{}) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.msgs = append(w.msgs, msg.(*sensor_msgs.JointState))
}

func (w *recordingWriter) all() []*sensor_msgs.JointState {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]*sensor_msgs.JointState, len(w.msgs))
	copy(out, w.msgs)
	return out
}

var jointNames = []string{"panda_finger_joint1", "panda_finger_joint2"}

func newTelemetryPair(t *testing.T, clk clock.Clock, dev gripper.Device) (*recordingWriter, *sampler, *publisher) {
	t.Helper()
	logger := golog.NewTestLogger(t)
	var deviceMu sync.Mutex
	smp := newSampler(dev, &deviceMu, 10, clk, logger)
	writer := &recordingWriter{}
	pub := newPublisher(writer, smp, jointNames, 30, clk)
	return writer, smp, pub
}

func TestPublishOnce(t *testing.T) {
	mock := clock.NewMock()
	dev := &inject.Device{
		StateFunc: func(ctx context.Context) (gripper.State, error) {
			return gripper.State{Width: 0.08}, nil
		},
	}
	writer, smp, pub := newTelemetryPair(t, mock, dev)

	// before the first sample the zero width is published as [0, 0]
	test.That(t, pub.publishOnce(), test.ShouldBeTrue)
	smp.sampleOnce()
	test.That(t, pub.publishOnce(), test.ShouldBeTrue)

	published := writer.all()
	test.That(t, len(published), test.ShouldEqual, 2)
	test.That(t, published[0].Name, test.ShouldResemble, jointNames)
	test.That(t, published[0].Position, test.ShouldResemble, []float64{0, 0})
	test.That(t, published[1].Position, test.ShouldResemble, []float64{0.04, 0.04})
	for _, m := range published {
		test.That(t, m.Position[0], test.ShouldEqual, m.Position[1])
		test.That(t, m.Velocity, test.ShouldResemble, []float64{0, 0})
		test.That(t, m.Effort, test.ShouldResemble, []float64{0, 0})
		test.That(t, m.Header.Stamp.Equal(mock.Now()), test.ShouldBeTrue)
	}
}

func TestPublishSkipsWhileSamplerHoldsSlot(t *testing.T) {
	mock := clock.NewMock()
	writer, smp, pub := newTelemetryPair(t, mock, &inject.Device{})

	smp.mu.Lock()
	test.That(t, pub.publishOnce(), test.ShouldBeFalse)
	smp.mu.Unlock()

	test.That(t, len(writer.all()), test.ShouldEqual, 0)
	test.That(t, pub.publishOnce(), test.ShouldBeTrue)
	test.That(t, len(writer.all()), test.ShouldEqual, 1)
}

func TestPublisherRunLoop(t *testing.T) {
	mock := clock.NewMock()
	dev := &inject.Device{
		StateFunc: func(ctx context.Context) (gripper.State, error) {
			return gripper.State{Width: 0.08}, nil
		},
	}
	writer, _, pub := newTelemetryPair(t, mock, dev)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- pub.Run(ctx)
	}()

	// advance inside the poll: the ticker is created on the Run goroutine, so
	// a single early Add could land before it exists
	for i := 0; i < 5; i++ {
		waitFor(t, func() bool {
			mock.Add(rateInterval(30))
			return len(writer.all()) >= i+1
		})
	}

	cancel()
	err := <-done
	test.That(t, err, test.ShouldBeError, context.Canceled)
	test.That(t, len(writer.all()), test.ShouldBeGreaterThanOrEqualTo, 5)
}
