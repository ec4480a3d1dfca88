package server

import "sync"

// TagPacket is the immutable broadcast packet C1 produces, the
// concatenation of every protocol-visible tag registry's descriptor in
// declaration order.
type TagPacket struct {
	Registries []TagRegistryDescriptor
}

// tagCache is a lazily materialised, invalidatable cell wrapping the single
// tag-registry broadcast packet (spec.md §4.1). Build reads are thread-safe
// and idempotent: concurrent callers observe either the previous value or
// the freshly built one, never a half-built one.
type tagCache struct {
	registries Registries

	mu    sync.Mutex
	built bool
	value TagPacket
}

// newTagCache wraps registries in a lazy cell. registries is never nil in
// practice, but a nil value degrades to an always-empty packet rather than
// panicking.
func newTagCache(registries Registries) *tagCache {
	return &tagCache{registries: registries}
}

// get returns the cached packet, building it on first access or after the
// most recent invalidate.
func (c *tagCache) get() TagPacket {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.built {
		return c.value
	}
	c.value = c.build()
	c.built = true
	return c.value
}

func (c *tagCache) build() TagPacket {
	if c.registries == nil {
		return TagPacket{}
	}
	descriptors := make([]TagRegistryDescriptor, 0, len(tagRegistryOrder))
	for _, kind := range tagRegistryOrder {
		descriptors = append(descriptors, c.registries.Tags(kind))
	}
	return TagPacket{Registries: descriptors}
}

// invalidate discards the memoised value; the next get rebuilds it. Safe to
// call with no outstanding readers and with readers in flight: a reader that
// started before invalidate still observes a complete, internally
// consistent packet (either the old one or a subsequently rebuilt one).
func (c *tagCache) invalidate() {
	c.mu.Lock()
	c.built = false
	c.value = TagPacket{}
	c.mu.Unlock()
}
