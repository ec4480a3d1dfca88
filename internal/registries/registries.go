// Package registries is a minimal stand-in for the registry data source the
// connection-lifecycle core consumes through server.Registries. Loading and
// owning real game-content definitions (biomes, enchantments, and the rest)
// is an out-of-scope external collaborator; this package exists only so a
// running server has something to wire in.
package registries

import server "github.com/ashenkeep/voxelserver"

// Static implements server.Registries by returning a fixed, empty
// descriptor for every kind. A production deployment replaces this with a
// loader backed by the game's actual content definitions.
type Static struct{}

// NewStatic returns a Registries collaborator with no content loaded.
func NewStatic() Static {
	return Static{}
}

func (Static) RegistryData(kind server.RegistryKind, excludeVanilla bool) server.RegistryDataPacket {
	return registryDataStub{Kind: kind, ExcludeVanilla: excludeVanilla}
}

func (Static) Tags(kind server.RegistryKind) server.TagRegistryDescriptor {
	return tagStub{Kind: kind}
}

type registryDataStub struct {
	Kind           server.RegistryKind
	ExcludeVanilla bool
}

type tagStub struct {
	Kind server.RegistryKind
}
