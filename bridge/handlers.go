package bridge

import (
	"context"

	"github.com/bluenviron/goroslib/v2/pkg/msgs/control_msgs"

	"github.com/brokenrobotz/franka-gripper-bridge/gripper"
	"github.com/brokenrobotz/franka-gripper-bridge/msgs"
)

// Command handlers. Each one forwards a single goal to a single device
// primitive; failures travel back to the dispatcher untouched.

func homing(ctx context.Context, dev gripper.Device, _ *msgs.HomingActionGoal) error {
	return dev.Home(ctx)
}

func stop(ctx context.Context, dev gripper.Device, _ *msgs.StopActionGoal) error {
	return dev.Stop(ctx)
}

func move(ctx context.Context, dev gripper.Device, goal *msgs.MoveActionGoal) error {
	return dev.Move(ctx, goal.Width, goal.Speed)
}

func grasp(ctx context.Context, dev gripper.Device, goal *msgs.GraspActionGoal) error {
	return dev.Grasp(ctx, goal.Width, goal.Speed, goal.Force, goal.EpsilonInner, goal.EpsilonOuter)
}

// gripperCommand adapts the stock control_msgs interface. A positive
// max_effort means grasp with that force; zero means a plain move. The
// position is the full opening width, matching the device's own convention;
// the joint state split happens at publish time.
func gripperCommand(
	ctx context.Context,
	dev gripper.Device,
	goal *control_msgs.GripperCommandActionGoal,
	defaultSpeed, widthTolerance float64,
) error {
	if goal.Command.MaxEffort > 0 {
		return dev.Grasp(ctx, goal.Command.Position, defaultSpeed, goal.Command.MaxEffort, widthTolerance, widthTolerance)
	}
	return dev.Move(ctx, goal.Command.Position, defaultSpeed)
}
