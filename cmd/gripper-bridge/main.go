// Package main is the Franka gripper bridge node: it exposes a network
// gripper to ROS as action endpoints and a joint state topic.
package main

import (
	"context"

	"github.com/edaniels/golog"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"

	"github.com/brokenrobotz/franka-gripper-bridge/bridge"
	"github.com/brokenrobotz/franka-gripper-bridge/gripper"
)

var logger = golog.NewDevelopmentLogger("franka_gripper")

func main() {
	goutils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	ConfigFile string `flag:"config,required,usage=path to the bridge config file"`
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) (err error) {
	var argsParsed Arguments
	if err := goutils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}

	cfg, err := bridge.ReadConfig(argsParsed.ConfigFile)
	if err != nil {
		return err
	}

	dev, err := gripper.Dial(cfg.RobotAddr, logger)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, dev.Close())
	}()

	b, err := bridge.New(cfg, dev, logger)
	if err != nil {
		return err
	}
	defer b.Close()

	return b.Run(ctx)
}
