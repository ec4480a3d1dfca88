package server

// RegistryKind enumerates the protocol-visible registries this core sends
// during configuration. The wire orders are tagRegistryOrder and
// registryDataOrder below (spec.md §4.1 and §4.4 step 9c); the declaration
// order of these constants carries no meaning.
type RegistryKind string

const (
	RegistryBannerPattern    RegistryKind = "banner_pattern"
	RegistryBiome            RegistryKind = "worldgen/biome"
	RegistryBlocks           RegistryKind = "blocks"
	RegistryCatVariant       RegistryKind = "cat_variant"
	RegistryDamageType       RegistryKind = "damage_type"
	RegistryDialog           RegistryKind = "dialog"
	RegistryEnchantment      RegistryKind = "enchantment"
	RegistryEntityType       RegistryKind = "entity_type"
	RegistryFluid            RegistryKind = "fluid"
	RegistryGameEvent        RegistryKind = "game_event"
	RegistryInstrument       RegistryKind = "instrument"
	RegistryMaterial         RegistryKind = "material"
	RegistryPaintingVariant  RegistryKind = "painting_variant"
	RegistryChatType         RegistryKind = "chat_type"
	RegistryDimensionType    RegistryKind = "dimension_type"
	RegistryTrimMaterial     RegistryKind = "trim_material"
	RegistryTrimPattern      RegistryKind = "trim_pattern"
	RegistryJukeboxSong      RegistryKind = "jukebox_song"
	RegistryWolfVariant      RegistryKind = "wolf_variant"
	RegistryWolfSoundVariant RegistryKind = "wolf_sound_variant"
	RegistryChickenVariant   RegistryKind = "chicken_variant"
	RegistryCowVariant       RegistryKind = "cow_variant"
	RegistryFrogVariant      RegistryKind = "frog_variant"
	RegistryPigVariant       RegistryKind = "pig_variant"
)

// tagRegistryOrder is the fixed, protocol-visible order C1 concatenates tag
// descriptors in (spec.md §4.1).
var tagRegistryOrder = []RegistryKind{
	RegistryBannerPattern,
	RegistryBiome,
	RegistryBlocks,
	RegistryCatVariant,
	RegistryDamageType,
	RegistryDialog,
	RegistryEnchantment,
	RegistryEntityType,
	RegistryFluid,
	RegistryGameEvent,
	RegistryInstrument,
	RegistryMaterial,
	RegistryPaintingVariant,
}

// registryDataOrder is the fixed send order for registry-data packets during
// configuration (spec.md §4.4 step 9c).
var registryDataOrder = []RegistryKind{
	RegistryChatType,
	RegistryDimensionType,
	RegistryBiome,
	RegistryDialog,
	RegistryDamageType,
	RegistryTrimMaterial,
	RegistryTrimPattern,
	RegistryBannerPattern,
	RegistryEnchantment,
	RegistryPaintingVariant,
	RegistryJukeboxSong,
	RegistryInstrument,
	RegistryWolfVariant,
	RegistryWolfSoundVariant,
	RegistryCatVariant,
	RegistryChickenVariant,
	RegistryCowVariant,
	RegistryFrogVariant,
	RegistryPigVariant,
}

// KnownPackEntry mirrors the wire shape of a "known pack" the client claims
// to already hold locally (spec.md §4.4 step 9b).
type KnownPackEntry struct {
	Namespace string
	ID        string
	Version   string
}

// CorePack is the built-in pack this core advertises and requests in the
// known-packs round trip (spec.md §4.4 step 3).
var CorePack = KnownPackEntry{Namespace: "minecraft", ID: "core", Version: "1.0"}

// RegistryDataPacket is the opaque packet Registries.RegistryData produces;
// its wire shape is owned by the external packet-encoding collaborator.
type RegistryDataPacket any

// TagRegistryDescriptor is the opaque descriptor Registries.Tags produces
// for a single registry; concatenated in order to build the cached tag
// packet (C1).
type TagRegistryDescriptor any

// Registries is the external collaborator providing registry content
// (spec.md §6). The core never inspects the contents, only the ordering.
type Registries interface {
	// RegistryData returns the registry-data packet for kind, parameterised
	// by whether vanilla entries should be excluded.
	RegistryData(kind RegistryKind, excludeVanilla bool) RegistryDataPacket

	// Tags returns the tag-registry descriptor for kind.
	Tags(kind RegistryKind) TagRegistryDescriptor
}
