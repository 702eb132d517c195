package pod

// ComposeField is one (key, descriptor) entry in the compose direction of
// the variadic dialect: a tag plus the literal value (or, for Array/
// Choice, nested fields) to emit. Build one with the constructor matching
// its Tag (Bool, Int, Array, Choice, ...) — the zero value is not valid.
type ComposeField struct {
	Key uint32
	tag Tag

	boolV   bool
	idV     uint32
	intV    int32
	longV   int64
	floatV  float32
	doubleV float64
	strV    string
	bytesV  []byte
	rectV   Rectangle
	fracV   Fraction
	fdV     int64
	ptrType Type
	ptrAddr uint64
	rawV    []byte

	container *containerSpec
}

type containerSpec struct {
	isChoice    bool
	choiceKind  ChoiceKind
	choiceFlags uint32
	childTag    Tag
	items       []ComposeField
}

// Bool builds a Bool-valued compose field.
func Bool(key uint32, v bool) ComposeField { return ComposeField{Key: key, tag: TagBool, boolV: v} }

// Id builds an Id-valued compose field.
func Id(key uint32, v uint32) ComposeField { return ComposeField{Key: key, tag: TagId, idV: v} }

// Int builds an Int-valued compose field.
func Int(key uint32, v int32) ComposeField { return ComposeField{Key: key, tag: TagInt, intV: v} }

// Long builds a Long-valued compose field.
func Long(key uint32, v int64) ComposeField { return ComposeField{Key: key, tag: TagLong, longV: v} }

// Float builds a Float-valued compose field.
func Float(key uint32, v float32) ComposeField {
	return ComposeField{Key: key, tag: TagFloat, floatV: v}
}

// Double builds a Double-valued compose field.
func Double(key uint32, v float64) ComposeField {
	return ComposeField{Key: key, tag: TagDouble, doubleV: v}
}

// Str builds a String-valued compose field.
func Str(key uint32, v string) ComposeField { return ComposeField{Key: key, tag: TagString, strV: v} }

// Bin builds a Bytes-valued compose field.
func Bin(key uint32, v []byte) ComposeField { return ComposeField{Key: key, tag: TagBytes, bytesV: v} }

// Rect builds a Rectangle-valued compose field.
func Rect(key uint32, v Rectangle) ComposeField {
	return ComposeField{Key: key, tag: TagRectangle, rectV: v}
}

// Frac builds a Fraction-valued compose field.
func Frac(key uint32, v Fraction) ComposeField {
	return ComposeField{Key: key, tag: TagFraction, fracV: v}
}

// FdRef builds an Fd-valued compose field referencing a side-channel
// table index.
func FdRef(key uint32, index int64) ComposeField {
	return ComposeField{Key: key, tag: TagFd, fdV: index}
}

// Ptr builds a Pointer-valued compose field.
func Ptr(key uint32, typeTag Type, address uint64) ComposeField {
	return ComposeField{Key: key, tag: TagPointer, ptrType: typeTag, ptrAddr: address}
}

// RawPod embeds a fully pre-encoded value verbatim as this field's value.
func RawPod(key uint32, encoded []byte) ComposeField {
	return ComposeField{Key: key, tag: TagPod, rawV: encoded}
}

// Array builds an Array compose field whose packed children all share
// childTag; items' Keys are ignored.
func Array(key uint32, childTag Tag, items ...ComposeField) ComposeField {
	return ComposeField{Key: key, tag: TagArray, container: &containerSpec{childTag: childTag, items: items}}
}

// Choice builds a Choice compose field of the given kind and flags; the
// first of items is the default. Items' Keys are ignored.
func Choice(key uint32, kind ChoiceKind, flags uint32, childTag Tag, items ...ComposeField) ComposeField {
	return ComposeField{Key: key, tag: TagArray, container: &containerSpec{
		isChoice: true, choiceKind: kind, choiceFlags: flags, childTag: childTag, items: items,
	}}
}

// BuildObject emits a complete Object value — header, {object_type,
// object_id} prefix, and one Property per field — through b.
func BuildObject(b *Builder, objectType, objectID uint32, fields ...ComposeField) (uint32, error) {
	start, err := b.PushObject(objectType, objectID)
	if err != nil {
		return 0, err
	}
	for _, f := range fields {
		if err := b.Prop(f.Key, 0); err != nil {
			return 0, err
		}
		if err := emitComposeField(b, f); err != nil {
			return 0, err
		}
	}
	if _, err := b.Pop(); err != nil {
		return 0, err
	}
	return start, nil
}

// ComposeValues emits each field's value directly into b, one after
// another with no enclosing frame — the variadic façade's "emit a value
// stream" form (spec §2 component 5), used for a flat stream of sibling
// values such as spec §8 scenario B rather than an Object's properties.
func ComposeValues(b *Builder, fields ...ComposeField) error {
	for _, f := range fields {
		if err := emitComposeField(b, f); err != nil {
			return err
		}
	}
	return nil
}

func emitComposeField(b *Builder, f ComposeField) error {
	switch f.tag {
	case TagBool:
		_, err := b.Bool(f.boolV)
		return err
	case TagId:
		_, err := b.Id(f.idV)
		return err
	case TagInt:
		_, err := b.Int(f.intV)
		return err
	case TagLong:
		_, err := b.Long(f.longV)
		return err
	case TagFloat:
		_, err := b.Float(f.floatV)
		return err
	case TagDouble:
		_, err := b.Double(f.doubleV)
		return err
	case TagString:
		_, err := b.String(f.strV)
		return err
	case TagBytes:
		_, err := b.Bin(f.bytesV)
		return err
	case TagRectangle:
		_, err := b.Rectangle(f.rectV)
		return err
	case TagFraction:
		_, err := b.Fraction(f.fracV)
		return err
	case TagFd:
		_, err := b.Fd(f.fdV)
		return err
	case TagPointer:
		_, err := b.Pointer(f.ptrType, f.ptrAddr)
		return err
	case TagPod, TagPodChoice, TagPodObject:
		_, err := b.Pod(f.rawV)
		return err
	case TagArray:
		return emitContainer(b, f.container)
	default:
		return ErrKindMismatch
	}
}

func emitContainer(b *Builder, c *containerSpec) error {
	var err error
	if c.isChoice {
		_, err = b.PushChoice(c.choiceKind, c.choiceFlags)
	} else {
		_, err = b.PushArray()
	}
	if err != nil {
		return err
	}
	for _, item := range c.items {
		item.tag = c.childTag
		if err := emitComposeField(b, item); err != nil {
			return err
		}
	}
	_, err = b.Pop()
	return err
}
