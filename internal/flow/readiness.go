package flow

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/vmpilot/vmpilot/internal/config"
)

// nodeStatuser defines the single control-plane operation NodeReadiness
// needs. *proxmox.Client satisfies this.
type nodeStatuser interface {
	NodeOnline(ctx context.Context, node string) (bool, error)
}

// NodeReadiness gates starts on the owning node reporting online through the
// control plane. A failed check counts as not ready.
type NodeReadiness struct {
	client nodeStatuser
	log    *slog.Logger
}

// NewNodeReadiness builds a NodeReadiness backed by the given client.
func NewNodeReadiness(client nodeStatuser, log *slog.Logger) *NodeReadiness {
	return &NodeReadiness{client: client, log: log}
}

// IsReady reports whether the target's node is online. "Could not verify"
// is treated as "not ready".
func (r *NodeReadiness) IsReady(ctx context.Context, t config.LaunchTarget) bool {
	online, err := r.client.NodeOnline(ctx, t.Node)
	if err != nil {
		r.log.Warn("node readiness check failed", "node", t.Node, "error", err)
		return false
	}
	return online
}

// TCPReadiness probes a per-node TCP address. It is an alternate strategy
// for setups where the control plane has no node-status endpoint.
type TCPReadiness struct {
	// Addrs maps node name to a host:port to probe.
	Addrs map[string]string
	// Timeout bounds each probe; zero means 3 seconds.
	Timeout time.Duration

	dial func(network, addr string, timeout time.Duration) (net.Conn, error)
}

// IsReady dials the node's configured address. Nodes without a configured
// address cannot be verified and report not ready.
func (r *TCPReadiness) IsReady(_ context.Context, t config.LaunchTarget) bool {
	addr, ok := r.Addrs[t.Node]
	if !ok {
		return false
	}

	timeout := r.Timeout
	if timeout == 0 {
		timeout = 3 * time.Second
	}
	dial := r.dial
	if dial == nil {
		dial = net.DialTimeout
	}

	conn, err := dial("tcp", addr, timeout)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// AlwaysReady skips readiness checking. Useful for single-node setups where
// reaching the control plane at all implies the node is up.
type AlwaysReady struct{}

// IsReady always reports ready.
func (AlwaysReady) IsReady(context.Context, config.LaunchTarget) bool { return true }
