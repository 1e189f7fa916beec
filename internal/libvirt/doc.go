// Package libvirt provides the local-hypervisor backend for vmpilot.
//
// It wraps github.com/digitalocean/go-libvirt and exposes the same
// status/start surface as the Proxmox client, so the flow package can drive
// a single libvirt host with no cluster control plane. Targets are resolved
// to domains by name; when a launch target carries no name, the numeric id
// is used as the domain name.
//
// The Client type satisfies flow.Client. Tests inject a mock for the small
// domainClient interface instead of talking to a real daemon.
package libvirt
