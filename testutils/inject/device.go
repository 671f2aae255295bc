// Package inject provides dependency-injected gripper devices for testing.
package inject

import (
	"context"

	"github.com/brokenrobotz/franka-gripper-bridge/gripper"
)

// Device is an injected gripper device.
type Device struct {
	gripper.Device
	HomeFunc  func(ctx context.Context) error
	StopFunc  func(ctx context.Context) error
	MoveFunc  func(ctx context.Context, width, speed float64) error
	GraspFunc func(ctx context.Context, width, speed, force, epsInner, epsOuter float64) error
	StateFunc func(ctx context.Context) (gripper.State, error)
	CloseFunc func() error
}

// Home calls the injected Home or the real version.
func (d *Device) Home(ctx context.Context) error {
	if d.HomeFunc == nil {
		return d.Device.Home(ctx)
	}
	return d.HomeFunc(ctx)
}

// Stop calls the injected Stop or the real version.
func (d *Device) Stop(ctx context.Context) error {
	if d.StopFunc == nil {
		return d.Device.Stop(ctx)
	}
	return d.StopFunc(ctx)
}

// Move calls the injected Move or the real version.
func (d *Device) Move(ctx context.Context, width, speed float64) error {
	if d.MoveFunc == nil {
		return d.Device.Move(ctx, width, speed)
	}
	return d.MoveFunc(ctx, width, speed)
}

// Grasp calls the injected Grasp or the real version.
func (d *Device) Grasp(ctx context.Context, width, speed, force, epsInner, epsOuter float64) error {
	if d.GraspFunc == nil {
		return d.Device.Grasp(ctx, width, speed, force, epsInner, epsOuter)
	}
	return d.GraspFunc(ctx, width, speed, force, epsInner, epsOuter)
}

// State calls the injected State or the real version.
func (d *Device) State(ctx context.Context) (gripper.State, error) {
	if d.StateFunc == nil {
		return d.Device.State(ctx)
	}
	return d.StateFunc(ctx)
}

// Close calls the injected Close or the real version.
func (d *Device) Close() error {
	if d.CloseFunc == nil {
		return d.Device.Close()
	}
	return d.CloseFunc()
}
