package constants

// Node styling
const (
	// PassageShape and PassageColor style every passage node
	PassageShape = "box"
	PassageColor = "orange"

	// EntityShape is the vis-network default circular shape
	EntityShape = "dot"

	// EntityBaseSize and EntitySizeFactor give size = base + factor*count
	EntityBaseSize   = 10
	EntitySizeFactor = 5
)

// Category colors
const (
	PersonColor    = "#4e79a7"
	PlaceColor     = "#59a14f"
	ThemeColor     = "#b07aa1"
	HighlightColor = "#e15759"
)

// Edge styling
const (
	AttributionEdgeColor  = "gray"
	CooccurrenceEdgeColor = "#9ecae1"
)

// UnknownReference labels a fetched passage that came back without a reference
const UnknownReference = "Unknown Reference"

// Upstream defaults
const (
	// DefaultMaxPassages is how many references a topic lookup returns by default
	DefaultMaxPassages = 5

	// MaxResponseBytes bounds how much of an upstream body is read
	MaxResponseBytes = 2 << 20
)

// Discord constants
const (
	// DiscordTopEntities is how many entities the summary embed lists
	DiscordTopEntities = 10

	// DiscordEmbedColor is the embed accent (matches PassageColor)
	DiscordEmbedColor = 0xFFA500
)
