package libvirt

import (
	"context"
	"fmt"
	"strconv"

	"github.com/digitalocean/go-libvirt"
	"libvirt.org/go/libvirtxml"

	"github.com/vmpilot/vmpilot/internal/config"
)

// domainClient defines the libvirt operations needed to drive targets.
// In production, this is satisfied by *libvirt.Libvirt directly.
// In tests, this is satisfied by mock implementations.
type domainClient interface {
	// DomainLookupByName looks up a domain by name
	DomainLookupByName(name string) (libvirt.Domain, error)

	// DomainGetState gets the state of a domain
	DomainGetState(dom libvirt.Domain, flags uint32) (state int32, reason int32, err error)

	// DomainCreate starts a domain
	DomainCreate(dom libvirt.Domain) error

	// DomainShutdown requests a graceful shutdown of a domain
	DomainShutdown(dom libvirt.Domain) error

	// DomainGetXMLDesc returns the domain's XML description
	DomainGetXMLDesc(dom libvirt.Domain, flags libvirt.DomainXMLFlags) (string, error)
}

// domainName resolves a launch target to a libvirt domain name.
func domainName(t config.LaunchTarget) string {
	if t.Name != "" {
		return t.Name
	}
	return strconv.Itoa(t.ID)
}

// Status returns the target's status normalized to the same strings the
// Proxmox backend reports.
func (c *Client) Status(_ context.Context, t config.LaunchTarget) (string, error) {
	dom, err := c.domains.DomainLookupByName(domainName(t))
	if err != nil {
		return "", fmt.Errorf("lookup domain %s: %w", domainName(t), err)
	}

	state, _, err := c.domains.DomainGetState(dom, 0)
	if err != nil {
		return "", fmt.Errorf("get state of domain %s: %w", domainName(t), err)
	}

	return stateToStatus(state), nil
}

// Start boots the target's domain.
func (c *Client) Start(_ context.Context, t config.LaunchTarget) error {
	dom, err := c.domains.DomainLookupByName(domainName(t))
	if err != nil {
		return fmt.Errorf("lookup domain %s: %w", domainName(t), err)
	}

	if err := c.domains.DomainCreate(dom); err != nil {
		return fmt.Errorf("start domain %s: %w", domainName(t), err)
	}
	return nil
}

// Stop requests a graceful shutdown of the target's domain. The guest decides
// when to actually power off.
func (c *Client) Stop(_ context.Context, t config.LaunchTarget) error {
	dom, err := c.domains.DomainLookupByName(domainName(t))
	if err != nil {
		return fmt.Errorf("lookup domain %s: %w", domainName(t), err)
	}

	if err := c.domains.DomainShutdown(dom); err != nil {
		return fmt.Errorf("shutdown domain %s: %w", domainName(t), err)
	}
	return nil
}

// DisplayName returns the domain's title from its XML description, falling
// back to the domain name. Used for friendlier notification lines.
func (c *Client) DisplayName(_ context.Context, t config.LaunchTarget) string {
	name := domainName(t)

	dom, err := c.domains.DomainLookupByName(name)
	if err != nil {
		return name
	}
	xml, err := c.domains.DomainGetXMLDesc(dom, 0)
	if err != nil {
		return name
	}

	var desc libvirtxml.Domain
	if err := desc.Unmarshal(xml); err != nil {
		return name
	}
	if desc.Title != "" {
		return desc.Title
	}
	if desc.Name != "" {
		return desc.Name
	}
	return name
}

// stateToStatus maps libvirt domain state to the shared status strings.
func stateToStatus(state int32) string {
	switch state {
	case 1:
		return "running"
	case 3:
		return "paused"
	case 4, 5:
		return "stopped"
	default:
		return "unknown"
	}
}
