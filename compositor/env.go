package compositor

import (
	"os"
	"strconv"
	"strings"
)

const (
	// ModeEnv selects embedded-compositor mode when truthy.
	ModeEnv = "DASHBOARD_COMPOSITOR"

	// ChannelEnv overrides the name of the compositor's socket.
	ChannelEnv = "DASHBOARD_WAYLAND_DISPLAY"

	DefaultChannel = "dashboard-wayland-0"
)

// ChannelName returns the socket name from the environment, or
// DefaultChannel if it is unset or empty.
func ChannelName() string {
	name := strings.TrimSpace(os.Getenv(ChannelEnv))
	if name == "" {
		return DefaultChannel
	}
	return name
}

// Enabled reports whether the environment asks for embedded-compositor
// mode instead of overlay mode.
func Enabled() bool {
	return truthy(os.Getenv(ModeEnv))
}

func truthy(v string) bool {
	v = strings.TrimSpace(v)
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	switch strings.ToLower(v) {
	case "yes", "on", "y":
		return true
	}
	return false
}
