package pod

// Type is the closed catalogue of POD value kinds. A Type is encoded as
// the second 32-bit word of every value's 8-byte header, after the body
// size.
type Type uint32

// The fixed set of value kinds. Order matches spec §3.2.
const (
	TypeNone Type = iota
	TypeBool
	TypeId
	TypeInt
	TypeLong
	TypeFloat
	TypeDouble
	TypeString
	TypeBytes
	TypeRectangle
	TypeFraction
	TypeBitmap
	TypePointer
	TypeFd
	TypeArray
	TypeChoice
	TypeStruct
	TypeObject
	TypeSequence
)

var typeNames = map[Type]string{
	TypeNone:      "None",
	TypeBool:      "Bool",
	TypeId:        "Id",
	TypeInt:       "Int",
	TypeLong:      "Long",
	TypeFloat:     "Float",
	TypeDouble:    "Double",
	TypeString:    "String",
	TypeBytes:     "Bytes",
	TypeRectangle: "Rectangle",
	TypeFraction:  "Fraction",
	TypeBitmap:    "Bitmap",
	TypePointer:   "Pointer",
	TypeFd:        "Fd",
	TypeArray:     "Array",
	TypeChoice:    "Choice",
	TypeStruct:    "Struct",
	TypeObject:    "Object",
	TypeSequence:  "Sequence",
}

// String renders the type id for logging and JSON-free debug output.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// ChoiceKind enumerates how a Choice's children constrain its default.
type ChoiceKind uint32

// The fixed set of choice kinds.
const (
	ChoiceNone ChoiceKind = iota
	ChoiceRange
	ChoiceStep
	ChoiceEnum
	ChoiceFlags
)

const (
	// HeaderSize is the size in bytes of the universal value header
	// (u32 body_size; u32 type_id) that precedes every value.
	HeaderSize = 8

	// Alignment is the byte boundary every value is aligned to inside its
	// container.
	Alignment = 8

	// arrayPrefixSize is the (u32 child_size; u32 child_type) prefix at
	// the start of an Array body.
	arrayPrefixSize = 8

	// choicePrefixSize is the (u32 choice_kind; u32 flags; u32 child_size;
	// u32 child_type) prefix at the start of a Choice body.
	choicePrefixSize = 16

	// objectPrefixSize is the (u32 object_type; u32 object_id) prefix at
	// the start of an Object body.
	objectPrefixSize = 8

	// sequencePrefixSize is the (u32 unit; u32 pad) prefix at the start
	// of a Sequence body.
	sequencePrefixSize = 8

	// propertyHeaderSize is the (u32 key; u32 flags) prefix of a Property
	// record inside an Object.
	propertyHeaderSize = 8

	// controlHeaderSize is the (u32 offset; u32 type) prefix of a Control
	// record inside a Sequence.
	controlHeaderSize = 8

	// MaxFrameDepth bounds the builder's frame stack. Deeply nested POD
	// trees used for control-plane parameter exchange never approach
	// this. The stack itself is a slice that grows up to this depth.
	MaxFrameDepth = 32
)

// minBodySize is the smallest legal body size for each kind, used by the
// Is* predicates. Variable-length kinds (String, Bytes, Bitmap, Struct) and
// the prefixed containers accept any size down to their own prefix.
func minBodySize(t Type) (uint32, bool) {
	switch t {
	case TypeNone:
		return 0, true
	case TypeBool, TypeId, TypeInt, TypeFloat:
		return 4, true
	case TypeLong, TypeDouble, TypeRectangle, TypeFraction, TypeFd:
		return 8, true
	case TypeString:
		return 1, true // at least the terminating NUL
	case TypeBytes, TypeBitmap, TypeStruct:
		return 0, true
	case TypePointer:
		return 16, true
	case TypeArray:
		return arrayPrefixSize, true
	case TypeChoice:
		return choicePrefixSize, true
	case TypeObject:
		return objectPrefixSize, true
	case TypeSequence:
		return sequencePrefixSize, true
	default:
		return 0, false
	}
}

// AlignUp rounds n up to the next multiple of Alignment.
func AlignUp(n uint32) uint32 {
	return (n + Alignment - 1) &^ (Alignment - 1)
}
