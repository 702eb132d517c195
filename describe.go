package pod

// Tag enumerates the variadic description dialect's descriptor kinds,
// shared by both the compose and extract directions. The dialect is
// realized as first-class data — ComposeField/ExtractField values built
// by the constructors in compose.go/extract.go — rather than macro glue,
// per SPEC_FULL.md §9.
type Tag int

// The fixed set of descriptor tags.
const (
	TagBool Tag = iota
	TagId
	TagInt
	TagLong
	TagFloat
	TagDouble
	TagString
	TagBytes
	TagRectangle
	TagFraction
	TagFd
	TagPointer
	TagArray     // a nested Array of one child Tag
	TagPod       // a borrowed/embedded raw value of any kind
	TagPodChoice // a borrowed/embedded Choice, unfixated
	TagPodObject // a borrowed/embedded Object
)

// AnyKey is the Object property key that, used in an ExtractField,
// matches any property whose value satisfies the field's Tag — spec
// §4.3's "wildcard key 0".
const AnyKey uint32 = 0
