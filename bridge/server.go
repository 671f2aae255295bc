package bridge

import (
	"context"
	"sync"

	"github.com/bluenviron/goroslib/v2"
	"github.com/bluenviron/goroslib/v2/pkg/msgs/control_msgs"
	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/brokenrobotz/franka-gripper-bridge/gripper"
	"github.com/brokenrobotz/franka-gripper-bridge/msgs"
)

// outcome is what one executed goal reports back on its endpoint.
type outcome struct {
	Success bool
	Error   string
}

// dispatcher runs command goals against the device one at a time. The device
// handle is not thread-safe, so every vendor call across all endpoints and
// the sampler goes through one mutex.
type dispatcher struct {
	dev      gripper.Device
	deviceMu *sync.Mutex
	logger   golog.Logger
}

func newDispatcher(dev gripper.Device, deviceMu *sync.Mutex, logger golog.Logger) *dispatcher {
	return &dispatcher{dev: dev, deviceMu: deviceMu, logger: logger}
}

// execute runs op under the device-access discipline and folds its error into
// an outcome. Success is true exactly when the handler returned normally, and
// the error message is non-empty exactly when it did not.
func (d *dispatcher) execute(ctx context.Context, endpoint string, op func(ctx context.Context) error) outcome {
	d.deviceMu.Lock()
	err := op(ctx)
	d.deviceMu.Unlock()
	if err != nil {
		d.logger.Errorw("command failed", "endpoint", endpoint, "error", err)
		msg := err.Error()
		if msg == "" {
			msg = "command failed"
		}
		return outcome{Success: false, Error: msg}
	}
	return outcome{Success: true}
}

// report finishes the active goal on the given endpoint. Aborted goals leave
// the endpoint live for the next one.
func report(sas *goroslib.SimpleActionServer, out outcome, res interface{}) {
	if out.Success {
		sas.SetSucceeded(res)
	} else {
		sas.SetAborted(res)
	}
}

// registerEndpoints binds the five command endpoints to the node. Goals run on
// goroslib's per-server executors; a cancel arriving during a blocking vendor
// call cannot interrupt it, the call finishes and its result is reported. The
// stop endpoint is the supported way to abort motion.
func registerEndpoints(
	node *goroslib.Node,
	d *dispatcher,
	cfg *Config,
	cancelCtx context.Context,
) ([]*goroslib.SimpleActionServer, error) {
	var servers []*goroslib.SimpleActionServer
	fail := func(name string, err error) ([]*goroslib.SimpleActionServer, error) {
		for _, s := range servers {
			s.Close()
		}
		return nil, errors.Wrapf(err, "cannot register %s endpoint", name)
	}

	homingSrv, err := goroslib.NewSimpleActionServer(goroslib.SimpleActionServerConf{
		Node:   node,
		Name:   "homing",
		Action: &msgs.HomingAction{},
		OnExecute: func(sas *goroslib.SimpleActionServer, goal *msgs.HomingActionGoal) {
			out := d.execute(cancelCtx, "homing", func(ctx context.Context) error {
				return homing(ctx, d.dev, goal)
			})
			report(sas, out, &msgs.HomingActionResult{Success: out.Success, Error: out.Error})
		},
	})
	if err != nil {
		return fail("homing", err)
	}
	servers = append(servers, homingSrv)

	stopSrv, err := goroslib.NewSimpleActionServer(goroslib.SimpleActionServerConf{
		Node:   node,
		Name:   "stop",
		Action: &msgs.StopAction{},
		OnExecute: func(sas *goroslib.SimpleActionServer, goal *msgs.StopActionGoal) {
			out := d.execute(cancelCtx, "stop", func(ctx context.Context) error {
				return stop(ctx, d.dev, goal)
			})
			report(sas, out, &msgs.StopActionResult{Success: out.Success, Error: out.Error})
		},
	})
	if err != nil {
		return fail("stop", err)
	}
	servers = append(servers, stopSrv)

	moveSrv, err := goroslib.NewSimpleActionServer(goroslib.SimpleActionServerConf{
		Node:   node,
		Name:   "move",
		Action: &msgs.MoveAction{},
		OnExecute: func(sas *goroslib.SimpleActionServer, goal *msgs.MoveActionGoal) {
			out := d.execute(cancelCtx, "move", func(ctx context.Context) error {
				return move(ctx, d.dev, goal)
			})
			report(sas, out, &msgs.MoveActionResult{Success: out.Success, Error: out.Error})
		},
	})
	if err != nil {
		return fail("move", err)
	}
	servers = append(servers, moveSrv)

	graspSrv, err := goroslib.NewSimpleActionServer(goroslib.SimpleActionServerConf{
		Node:   node,
		Name:   "grasp",
		Action: &msgs.GraspAction{},
		OnExecute: func(sas *goroslib.SimpleActionServer, goal *msgs.GraspActionGoal) {
			out := d.execute(cancelCtx, "grasp", func(ctx context.Context) error {
				return grasp(ctx, d.dev, goal)
			})
			report(sas, out, &msgs.GraspActionResult{Success: out.Success, Error: out.Error})
		},
	})
	if err != nil {
		return fail("grasp", err)
	}
	servers = append(servers, graspSrv)

	commandSrv, err := goroslib.NewSimpleActionServer(goroslib.SimpleActionServerConf{
		Node:   node,
		Name:   "gripper_action",
		Action: &control_msgs.GripperCommandAction{},
		OnExecute: func(sas *goroslib.SimpleActionServer, goal *control_msgs.GripperCommandActionGoal) {
			out := d.execute(cancelCtx, "gripper_action", func(ctx context.Context) error {
				return gripperCommand(ctx, d.dev, goal, cfg.DefaultSpeed, cfg.WidthTolerance)
			})
			report(sas, out, &control_msgs.GripperCommandActionResult{
				Position:    goal.Command.Position,
				Effort:      goal.Command.MaxEffort,
				Stalled:     !out.Success,
				ReachedGoal: out.Success,
			})
		},
	})
	if err != nil {
		return fail("gripper_action", err)
	}
	servers = append(servers, commandSrv)

	return servers, nil
}
