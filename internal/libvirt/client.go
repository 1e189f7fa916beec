package libvirt

import (
	"fmt"
	"time"

	"github.com/digitalocean/go-libvirt"
	"github.com/digitalocean/go-libvirt/socket/dialers"
)

// DefaultSocketPath is the system libvirt daemon socket.
const DefaultSocketPath = "/var/run/libvirt/libvirt-sock"

// Client wraps a go-libvirt connection and implements the control-plane
// surface the flow package needs.
type Client struct {
	libvirt *libvirt.Libvirt
	domains domainClient
}

// Connect establishes a connection to the local libvirt daemon. The returned
// Client must be closed via Close when done.
//
// If socketPath is empty, DefaultSocketPath is used. If timeout is zero, it
// defaults to 5 seconds.
func Connect(socketPath string, timeout time.Duration) (*Client, error) {
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	dialer := dialers.NewLocal(
		dialers.WithSocket(socketPath),
		dialers.WithLocalTimeout(timeout),
	)

	l := libvirt.NewWithDialer(dialer)
	if err := l.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to libvirt at %s: %w", socketPath, err)
	}

	return &Client{libvirt: l, domains: l}, nil
}

// Close closes the libvirt connection. It is safe to call on a nil
// connection.
func (c *Client) Close() error {
	if c.libvirt == nil {
		return nil
	}
	if err := c.libvirt.Disconnect(); err != nil {
		return fmt.Errorf("failed to disconnect from libvirt: %w", err)
	}
	return nil
}

// Ping verifies the connection is alive by asking for the library version.
func (c *Client) Ping() error {
	if c.libvirt == nil {
		return fmt.Errorf("client not connected")
	}
	if _, err := c.libvirt.ConnectGetLibVersion(); err != nil {
		return fmt.Errorf("libvirt connection is dead: %w", err)
	}
	return nil
}
