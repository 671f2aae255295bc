// Package msgs contains the ROS action definitions of the franka_gripper
// interface. Every command result carries success plus a human-readable error
// that is empty exactly when the command succeeded.
package msgs

import (
	"github.com/bluenviron/goroslib/v2/pkg/msg"
)

// HomingActionGoal requests a homing run.
type HomingActionGoal struct{}

// HomingActionResult reports the outcome of a homing run.
type HomingActionResult struct {
	Success bool
	Error   string
}

// HomingActionFeedback is empty; homing publishes no feedback.
type HomingActionFeedback struct{}

// HomingAction homes the gripper, re-establishing its maximum width.
type HomingAction struct {
	msg.Package `ros:"franka_gripper"`
	HomingActionGoal
	HomingActionResult
	HomingActionFeedback
}

// StopActionGoal requests an abort of the current motion.
type StopActionGoal struct{}

// StopActionResult reports the outcome of a stop.
type StopActionResult struct {
	Success bool
	Error   string
}

// StopActionFeedback is empty; stop publishes no feedback.
type StopActionFeedback struct{}

// StopAction aborts a running motion.
type StopAction struct {
	msg.Package `ros:"franka_gripper"`
	StopActionGoal
	StopActionResult
	StopActionFeedback
}

// MoveActionGoal moves the fingers to a target opening width.
type MoveActionGoal struct {
	Width float64
	Speed float64
}

// MoveActionResult reports the outcome of a move.
type MoveActionResult struct {
	Success bool
	Error   string
}

// MoveActionFeedback is empty; move publishes no feedback.
type MoveActionFeedback struct{}

// MoveAction moves the fingers to a target opening width.
type MoveAction struct {
	msg.Package `ros:"franka_gripper"`
	MoveActionGoal
	MoveActionResult
	MoveActionFeedback
}

// GraspActionGoal closes the fingers on an object of the expected width. The
// grasp succeeds when the final width lands within
// [width-epsilon_inner, width+epsilon_outer].
type GraspActionGoal struct {
	Width        float64
	Speed        float64
	Force        float64
	EpsilonInner float64
	EpsilonOuter float64
}

// GraspActionResult reports the outcome of a grasp.
type GraspActionResult struct {
	Success bool
	Error   string
}

// GraspActionFeedback is empty; grasp publishes no feedback.
type GraspActionFeedback struct{}

// GraspAction grasps an object with a given force and width tolerance.
type GraspAction struct {
	msg.Package `ros:"franka_gripper"`
	GraspActionGoal
	GraspActionResult
	GraspActionFeedback
}
