package gripper

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
)

// DefaultPort is the TCP port of the gripper control interface.
const DefaultPort = 1338

// client talks the line-oriented control protocol: one command per line, one
// reply per line. Motion commands answer "done" when the motion ends or
// "error <reason>" when the device rejects or fails it.
type client struct {
	conn   net.Conn
	rd     *bufio.Reader
	logger golog.Logger
}

// Dial connects to the control interface of the gripper at the given address.
// A bare host gets the default control port appended.
func Dial(addr string, logger golog.Logger) (Device, error) {
	if !strings.Contains(addr, ":") {
		addr = fmt.Sprintf("%s:%d", addr, DefaultPort)
	}
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot reach gripper at %s", addr)
	}
	logger.Infow("connected to gripper", "address", addr)
	return &client{conn: conn, rd: bufio.NewReader(conn), logger: logger}, nil
}

func (c *client) Home(ctx context.Context) error {
	return c.run(ctx, "home")
}

func (c *client) Stop(ctx context.Context) error {
	return c.run(ctx, "stop")
}

func (c *client) Move(ctx context.Context, width, speed float64) error {
	return c.run(ctx, fmt.Sprintf("move %g %g", width, speed))
}

func (c *client) Grasp(ctx context.Context, width, speed, force, epsInner, epsOuter float64) error {
	return c.run(ctx, fmt.Sprintf("grasp %g %g %g %g %g", width, speed, force, epsInner, epsOuter))
}

func (c *client) State(ctx context.Context) (State, error) {
	reply, err := c.roundTrip(ctx, "state")
	if err != nil {
		return State{}, err
	}
	fields := strings.Fields(reply)
	if len(fields) != 4 || fields[0] != "state" {
		return State{}, NewDeviceError("malformed state reply %q", reply)
	}
	var vals [3]float64
	for i, f := range fields[1:] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return State{}, NewDeviceError("malformed state reply %q", reply)
		}
		vals[i] = v
	}
	return State{Width: vals[0], MaxWidth: vals[1], Temperature: vals[2]}, nil
}

func (c *client) Close() error {
	return c.conn.Close()
}

// run sends a motion command and waits for its terminal reply. The context is
// consulted before sending only; a command already accepted by the device runs
// to completion.
func (c *client) run(ctx context.Context, cmd string) error {
	reply, err := c.roundTrip(ctx, cmd)
	if err != nil {
		return err
	}
	if reply != "done" {
		return NewDeviceError("unexpected reply %q to %q", reply, cmd)
	}
	return nil
}

func (c *client) roundTrip(ctx context.Context, cmd string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := fmt.Fprintf(c.conn, "%s\r\n", cmd); err != nil {
		return "", WrapDeviceError(err, "sending %q to gripper", cmd)
	}
	line, err := c.rd.ReadString('\n')
	if err != nil {
		return "", WrapDeviceError(err, "reading reply to %q", cmd)
	}
	line = strings.TrimSpace(line)
	if rest, ok := strings.CutPrefix(line, "error"); ok {
		msg := strings.TrimSpace(rest)
		if msg == "" {
			msg = fmt.Sprintf("device rejected %q", cmd)
		}
		return "", NewDeviceError("%s", msg)
	}
	return line, nil
}
