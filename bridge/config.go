// Package bridge exposes a two-finger network gripper to ROS as a set of
// action endpoints and a joint state topic.
package bridge

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"
)

// Defaults for the optional configuration fields.
const (
	DefaultMasterAddr     = "127.0.0.1:11311"
	DefaultPublishRateHz  = 30.0
	DefaultSamplerRateHz  = 10.0
	DefaultSpeed          = 0.1
	DefaultWidthTolerance = 0.01
)

// Config is the startup configuration of the bridge node. It is immutable
// once validated.
type Config struct {
	// RobotAddr is the network address of the gripper control interface.
	RobotAddr string `json:"robot_ip"`
	// MasterAddr is the address of the ROS master.
	MasterAddr string `json:"ros_master,omitempty"`
	// JointNames names the two published finger joints.
	JointNames []string `json:"joint_names"`
	// PublishRateHz is the joint state publish rate.
	PublishRateHz float64 `json:"publish_rate,omitempty"`
	// SamplerRateHz is the device state read rate.
	SamplerRateHz float64 `json:"sampler_rate,omitempty"`
	// DefaultSpeed is the finger speed used by the gripper_action endpoint,
	// in m/s.
	DefaultSpeed float64 `json:"default_speed,omitempty"`
	// WidthTolerance is the grasp tolerance used by the gripper_action
	// endpoint, in meters.
	WidthTolerance float64 `json:"width_tolerance,omitempty"`
}

// Validate checks the required fields and fills in defaults for the rest.
func (c *Config) Validate() error {
	if c.RobotAddr == "" {
		return errors.New("robot_ip is required")
	}
	if len(c.JointNames) != 2 {
		return errors.Errorf("joint_names must name exactly the two finger joints, got %d", len(c.JointNames))
	}
	if c.MasterAddr == "" {
		c.MasterAddr = DefaultMasterAddr
	}
	rates := []struct {
		name string
		val  *float64
		def  float64
	}{
		{"publish_rate", &c.PublishRateHz, DefaultPublishRateHz},
		{"sampler_rate", &c.SamplerRateHz, DefaultSamplerRateHz},
		{"default_speed", &c.DefaultSpeed, DefaultSpeed},
		{"width_tolerance", &c.WidthTolerance, DefaultWidthTolerance},
	}
	for _, r := range rates {
		switch {
		case *r.val == 0:
			*r.val = r.def
		case *r.val < 0:
			return errors.Errorf("%s must be positive, got %v", r.name, *r.val)
		}
	}
	return nil
}

// ReadConfig loads and validates a bridge configuration from a JSON file.
func ReadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}
	return &cfg, nil
}

// rateInterval converts a rate in Hz into a tick interval.
func rateInterval(rateHz float64) time.Duration {
	return time.Duration(float64(time.Second) / rateHz)
}
