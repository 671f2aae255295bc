package bridge

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/bluenviron/goroslib/v2/pkg/msgs/sensor_msgs"
	"github.com/bluenviron/goroslib/v2/pkg/msgs/std_msgs"
	goutils "go.viam.com/utils"
)

// jointStateWriter is the slice of goroslib's Publisher the telemetry loop
// needs; tests substitute a recorder.
type jointStateWriter interface {
	Write(msg interface{})
}

// publisher republishes the latest sampled state as a two-joint state
// message. The device reports a single scalar width, modeled as two prismatic
// finger joints mirroring around the center, so each joint gets half.
type publisher struct {
	writer     jointStateWriter
	sampler    *sampler
	jointNames []string
	interval   time.Duration
	clock      clock.Clock
}

func newPublisher(
	writer jointStateWriter,
	smp *sampler,
	jointNames []string,
	rateHz float64,
	clk clock.Clock,
) *publisher {
	return &publisher{
		writer:     writer,
		sampler:    smp,
		jointNames: jointNames,
		interval:   rateInterval(rateHz),
		clock:      clk,
	}
}

// Run publishes until ctx is cancelled. It runs on the caller's goroutine so
// a long-running command can never starve telemetry.
func (p *publisher) Run(ctx context.Context) error {
	ticker := p.clock.Ticker(p.interval)
	defer ticker.Stop()
	for {
		if !goutils.SelectContextOrWaitChan(ctx, ticker.C) {
			return ctx.Err()
		}
		p.publishOnce()
	}
}

// publishOnce publishes the latest sample, or reports false when the sampler
// held the slot and the tick was skipped. Skipping keeps publish latency
// bounded; the next tick sees a strictly newer sample.
func (p *publisher) publishOnce() bool {
	state, ok := p.sampler.TryLatest()
	if !ok {
		return false
	}
	half := state.Width / 2
	p.writer.Write(&sensor_msgs.JointState{
		Header:   std_msgs.Header{Stamp: p.clock.Now()},
		Name:     []string{p.jointNames[0], p.jointNames[1]},
		Position: []float64{half, half},
		Velocity: []float64{0, 0},
		Effort:   []float64{0, 0},
	})
	return true
}
