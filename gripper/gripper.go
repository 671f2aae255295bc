// Package gripper provides a client for the network control interface of a
// two-finger parallel gripper.
package gripper

import (
	"context"
	"fmt"
)

// State is a snapshot of what the device reports about itself. A fresh value
// is produced on every read and never mutated afterwards.
type State struct {
	// Width is the current gap between the fingers, in meters.
	Width float64
	// MaxWidth is the maximum opening established by the last homing run.
	MaxWidth float64
	// Temperature is the controller temperature in degrees Celsius.
	Temperature float64
}

// A Device is a single gripper reachable over its network control interface.
// Motion commands block until the device reports the motion finished; there is
// no way to interrupt a command already sent other than Stop from another
// caller. Implementations are not safe for concurrent use and callers must
// serialize access themselves.
type Device interface {
	// Home calibrates the fingers and re-establishes the maximum width.
	Home(ctx context.Context) error

	// Stop aborts a running motion.
	Stop(ctx context.Context) error

	// Move moves the fingers to the given opening width at the given speed.
	Move(ctx context.Context, width, speed float64) error

	// Grasp closes the fingers on an object of the given expected width with
	// the given speed and force. The device reports success only when the
	// final width lands within [width-epsInner, width+epsOuter].
	Grasp(ctx context.Context, width, speed, force, epsInner, epsOuter float64) error

	// State reads the current device state. Unlike the motion commands this
	// returns quickly.
	State(ctx context.Context) (State, error)

	Close() error
}

// DeviceError is a failure reported by the device or its control connection.
type DeviceError struct {
	msg   string
	cause error
}

// NewDeviceError returns a DeviceError with the given formatted message.
func NewDeviceError(format string, args ...interface{}) *DeviceError {
	return &DeviceError{msg: fmt.Sprintf(format, args...)}
}

// WrapDeviceError returns a DeviceError around a connection-level failure,
// keeping err reachable as the cause.
func WrapDeviceError(err error, format string, args ...interface{}) *DeviceError {
	return &DeviceError{msg: fmt.Sprintf(format, args...) + ": " + err.Error(), cause: err}
}

func (e *DeviceError) Error() string {
	return e.msg
}

func (e *DeviceError) Unwrap() error {
	return e.cause
}
