// Package reconcile keeps a live collection of block hosts in step with the
// block descriptor sequence produced by each parse cycle.
//
// The engine diffs positionally: positions are compared in order until the
// first structural divergence, after which the tail is replaced. Hosts whose
// content is unchanged are never recreated.
package reconcile

import "github.com/yaklabco/gomdview/pkg/block"

// Host is the live visual counterpart of one block descriptor.
//
// A Host that also implements selection.Unit is registered with the engine's
// tracker on creation and deregistered before it is destroyed.
type Host interface {
	// Descriptor returns the descriptor the host currently renders.
	Descriptor() *block.Descriptor

	// Refresh replaces the host's descriptor after a content change of the
	// same kind.
	Refresh(d *block.Descriptor)

	// Position tells the host whether it is the first and/or last block.
	// It is called for every live host after each reconciliation.
	Position(first, last bool)

	// Destroy releases the host's rendering resources.
	Destroy()
}

// Factory creates hosts for new descriptors.
type Factory interface {
	NewHost(d *block.Descriptor) Host
}

// FactoryFunc adapts a function to the Factory interface.
type FactoryFunc func(d *block.Descriptor) Host

// NewHost calls f(d).
func (f FactoryFunc) NewHost(d *block.Descriptor) Host {
	return f(d)
}

// Stats summarizes one reconciliation.
type Stats struct {
	Unchanged int
	Changed   int
	Inserted  int
	Removed   int

	// Divergence is the first position whose kind differed, or -1.
	Divergence int
}
