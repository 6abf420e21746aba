// Package waydroid controls the Waydroid container through its
// command-line tool.
package waydroid

import (
	"context"
	"log/slog"
)

// Binary is the name of the Waydroid command-line tool.
const Binary = "waydroid"

// Client runs Waydroid commands. Fire-and-forget commands log their
// failures instead of returning them.
type Client struct {
	runner Runner
	binary string
	logger *slog.Logger
}

func New(runner Runner, logger *slog.Logger) *Client {
	if runner == nil {
		runner = ExecRunner{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		runner: runner,
		binary: Binary,
		logger: logger,
	}
}

func (c *Client) detach(args ...string) {
	err := c.runner.Start(c.binary, args...)
	if err != nil {
		c.logger.Error("failed to start waydroid", "args", args, "err", err)
		return
	}
	c.logger.Debug("started waydroid", "args", args)
}

// Launch starts the application with the given package.
func (c *Client) Launch(pkg string) {
	c.detach("app", "launch", pkg)
}

func (c *Client) StartSession() {
	c.detach("container", "start")
}

func (c *Client) StopSession() {
	c.detach("container", "stop")
}

// ShowFullUI shows the whole Android interface in its own window.
func (c *Client) ShowFullUI() {
	c.detach("show-full-ui")
}

// Status reports whether the session is running. The boolean is only
// meaningful if the Result is OK.
func (c *Client) Status(ctx context.Context) (bool, Result) {
	r := c.runner.Run(ctx, c.binary, "status")
	if !r.OK() {
		return false, r
	}
	return ParseRunning(r.Output), r
}

// Apps lists the installed applications.
func (c *Client) Apps(ctx context.Context) ([]AppEntry, Result) {
	r := c.runner.Run(ctx, c.binary, "app", "list")
	if !r.OK() {
		return nil, r
	}
	return ParseApps(r.Output), r
}
