package lspclient

import "github.com/sansio/lspclient/internal/rpc"

// capabilityRegistry holds the server's capability snapshot plus any
// dynamically registered capabilities, per spec §4.4.
type capabilityRegistry struct {
	server        rpc.ServerCapabilities
	haveSnapshot  bool
	registrations map[string]rpc.Registration
}

func newCapabilityRegistry() *capabilityRegistry {
	return &capabilityRegistry{registrations: make(map[string]rpc.Registration)}
}

// setSnapshot records the server capabilities from a successful initialize response.
func (r *capabilityRegistry) setSnapshot(caps rpc.ServerCapabilities) {
	r.server = caps
	r.haveSnapshot = true
}

// snapshot returns the stored server capabilities and whether initialize
// has completed yet.
func (r *capabilityRegistry) snapshot() (rpc.ServerCapabilities, bool) {
	return r.server, r.haveSnapshot
}

// register adds or replaces a dynamic registration. Re-registering the
// same id replaces the entry, per spec §4.4.
func (r *capabilityRegistry) register(reg rpc.Registration) {
	r.registrations[reg.ID] = reg
}

// unregister removes a dynamic registration. Unregistering an unknown id
// is a tolerated no-op, per spec §4.4.
func (r *capabilityRegistry) unregister(id string) {
	delete(r.registrations, id)
}
