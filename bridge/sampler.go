package bridge

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	goutils "go.viam.com/utils"

	"github.com/brokenrobotz/franka-gripper-bridge/gripper"
)

// sampler periodically reads the device state into a latest-value slot. It is
// the slot's only writer; the publisher reads the slot with a try-lock and
// everyone else stays away from it.
type sampler struct {
	dev      gripper.Device
	deviceMu *sync.Mutex
	interval time.Duration
	clock    clock.Clock
	logger   golog.Logger

	mu    sync.Mutex
	state gripper.State

	ticker                  *clock.Ticker
	cancelCtx               context.Context
	cancel                  func()
	activeBackgroundWorkers sync.WaitGroup
}

func newSampler(
	dev gripper.Device,
	deviceMu *sync.Mutex,
	rateHz float64,
	clk clock.Clock,
	logger golog.Logger,
) *sampler {
	cancelCtx, cancel := context.WithCancel(context.Background())
	return &sampler{
		dev:       dev,
		deviceMu:  deviceMu,
		interval:  rateInterval(rateHz),
		clock:     clk,
		logger:    logger,
		cancelCtx: cancelCtx,
		cancel:    cancel,
	}
}

// Start launches the sampling worker. The ticker is created here, before the
// worker goroutine, so a mock clock can be advanced as soon as Start returns.
func (s *sampler) Start() {
	s.ticker = s.clock.Ticker(s.interval)
	s.activeBackgroundWorkers.Add(1)
	goutils.ManagedGo(s.run, s.activeBackgroundWorkers.Done)
}

func (s *sampler) run() {
	defer s.ticker.Stop()
	for {
		if !goutils.SelectContextOrWaitChan(s.cancelCtx, s.ticker.C) {
			return
		}
		s.sampleOnce()
	}
}

// sampleOnce holds the slot mutex for the whole read so the publisher skips
// ticks instead of waiting behind a slow device. The device mutex is taken
// inside the slot mutex; the publisher never touches the device mutex, so the
// ordering cannot cycle.
func (s *sampler) sampleOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deviceMu.Lock()
	state, err := s.dev.State(s.cancelCtx)
	s.deviceMu.Unlock()
	if err != nil {
		s.logger.Errorw("failed to read gripper state", "error", err)
		return
	}
	s.state = state
}

// Latest returns the most recent complete sample, or the zero state before
// the first successful read.
func (s *sampler) Latest() gripper.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// TryLatest returns the latest sample without waiting on the slot. ok is
// false while the sampler holds the slot for a read.
func (s *sampler) TryLatest() (gripper.State, bool) {
	if !s.mu.TryLock() {
		return gripper.State{}, false
	}
	defer s.mu.Unlock()
	return s.state, true
}

// Stop signals the worker and waits for it to finish its current read.
func (s *sampler) Stop() {
	s.cancel()
	s.activeBackgroundWorkers.Wait()
}
