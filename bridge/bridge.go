package bridge

import (
	"context"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/bluenviron/goroslib/v2"
	"github.com/bluenviron/goroslib/v2/pkg/msgs/sensor_msgs"
	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"github.com/brokenrobotz/franka-gripper-bridge/gripper"
)

// nodeName is the ROS graph name of the bridge node.
const nodeName = "franka_gripper"

// Bridge owns the ROS node, the five command endpoints and the telemetry pair
// for one gripper.
type Bridge struct {
	cfg    *Config
	logger golog.Logger

	node    *goroslib.Node
	pub     *goroslib.Publisher
	servers []*goroslib.SimpleActionServer

	deviceMu  sync.Mutex
	sampler   *sampler
	telemetry *publisher

	cancel func()
}

// New connects the given device to ROS. The caller keeps ownership of the
// device but must not use it directly while the bridge runs.
func New(cfg *Config, dev gripper.Device, logger golog.Logger) (*Bridge, error) {
	b := &Bridge{cfg: cfg, logger: logger}
	var cancelCtx context.Context
	cancelCtx, b.cancel = context.WithCancel(context.Background())

	node, err := goroslib.NewNode(goroslib.NodeConf{
		Name:          nodeName,
		MasterAddress: cfg.MasterAddr,
	})
	if err != nil {
		b.cancel()
		return nil, errors.Wrapf(err, "cannot start ROS node %s", nodeName)
	}
	b.node = node

	pub, err := goroslib.NewPublisher(goroslib.PublisherConf{
		Node:  node,
		Topic: "joint_states",
		Msg:   &sensor_msgs.JointState{},
	})
	if err != nil {
		node.Close()
		b.cancel()
		return nil, errors.Wrap(err, "cannot advertise joint_states")
	}
	b.pub = pub

	d := newDispatcher(dev, &b.deviceMu, logger)
	servers, err := registerEndpoints(node, d, cfg, cancelCtx)
	if err != nil {
		pub.Close()
		node.Close()
		b.cancel()
		return nil, err
	}
	b.servers = servers

	clk := clock.New()
	b.sampler = newSampler(dev, &b.deviceMu, cfg.SamplerRateHz, clk, logger)
	b.telemetry = newPublisher(pub, b.sampler, cfg.JointNames, cfg.PublishRateHz, clk)
	return b, nil
}

// Run starts the sampler and publishes joint states on the calling goroutine
// until ctx is cancelled. Cancellation is a normal shutdown, not an error.
func (b *Bridge) Run(ctx context.Context) error {
	b.sampler.Start()
	b.logger.Infow("gripper bridge running",
		"robot", b.cfg.RobotAddr,
		"publish_rate", b.cfg.PublishRateHz,
		"sampler_rate", b.cfg.SamplerRateHz,
	)
	return goutils.FilterOutError(b.telemetry.Run(ctx), context.Canceled)
}

// Close joins the sampler, then tears down the endpoints, the publisher and
// the node. The device handle stays open; its owner closes it afterwards.
func (b *Bridge) Close() {
	b.cancel()
	b.sampler.Stop()
	for _, s := range b.servers {
		s.Close()
	}
	b.pub.Close()
	b.node.Close()
}
