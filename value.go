package pod

import (
	"encoding/binary"
	"math"
)

// Rectangle is the body of a Rectangle value: {u32 width, u32 height}.
type Rectangle struct {
	Width  uint32
	Height uint32
}

// Fraction is the body of a Fraction value: {u32 num, u32 denom}.
type Fraction struct {
	Num   uint32
	Denom uint32
}

// Pointer is the body of a Pointer value: {u32 type_tag, u32 pad, uptr
// address}. Pointer values are process-local; transporting a buffer that
// contains one across a process boundary requires out-of-band translation
// of Address by the receiving collaborator.
type Pointer struct {
	TypeTag Type
	Address uint64
}

// Property is a single record inside an Object body: {u32 key, u32 flags,
// <value>}. Key namespace is defined by the object's schema (its ObjectType).
type Property struct {
	Key   uint32
	Flags uint32
	Value Pod
}

// Control is a single record inside a Sequence body: {u32 offset, u32 type,
// <value>}. Offset is a monotonically non-decreasing timestamp in the
// sequence's Unit.
type Control struct {
	Offset uint32
	Type   uint32
	Value  Pod
}

// Pod is a non-owning handle to a single decoded value: its kind and a
// slice of its body bytes inside the caller's buffer. A Pod is produced
// either by reading a full header-prefixed value (ReadAt, Iterator.Next)
// or reconstructed header-less from a packed Array/Choice child, where
// Kind and Body are known from the container's prefix rather than from a
// per-child header.
type Pod struct {
	Kind Type
	Body []byte
}

// Size is the total encoded size (header + body) this value would occupy
// if it were written with its own header — meaningful for values read via
// ReadAt, not for header-less Array/Choice children.
func (p Pod) Size() uint32 {
	return HeaderSize + uint32(len(p.Body))
}

// ReadAt decodes the value whose header begins at offset within buf. It
// returns the decoded Pod and the step to its next sibling (8 +
// round_up_8(body_size)), or ErrMalformed if the header or body falls
// outside buf.
func ReadAt(buf []byte, offset uint32) (Pod, uint32, error) {
	if !headerFits(buf, offset) {
		return Pod{}, 0, ErrMalformed
	}
	bodySize := binary.NativeEndian.Uint32(buf[offset : offset+4])
	kind := Type(binary.NativeEndian.Uint32(buf[offset+4 : offset+8]))
	bodyStart := offset + HeaderSize
	bodyEnd := bodyStart + bodySize
	if bodyEnd < bodyStart || uint64(bodyEnd) > uint64(len(buf)) {
		return Pod{}, 0, ErrMalformed
	}
	step := HeaderSize + AlignUp(bodySize)
	return Pod{Kind: kind, Body: buf[bodyStart:bodyEnd:bodyEnd]}, step, nil
}

// Contains reports whether the value whose header begins at offset is
// fully addressable within buf: its header is present and its declared
// body lies within buf.
func Contains(buf []byte, offset uint32) bool {
	_, _, err := ReadAt(buf, offset)
	return err == nil
}

func headerFits(buf []byte, offset uint32) bool {
	end := offset + HeaderSize
	return end >= offset && uint64(end) <= uint64(len(buf))
}

// is reports whether the value's kind matches t and its body meets t's
// minimum encoding size.
func (p Pod) is(t Type) bool {
	if p.Kind != t {
		return false
	}
	min, ok := minBodySize(t)
	return ok && uint32(len(p.Body)) >= min
}

// IsNone reports whether this is the absent/null sentinel.
func (p Pod) IsNone() bool { return p.Kind == TypeNone }

// IsBool reports whether this value is a well-formed Bool.
func (p Pod) IsBool() bool { return p.is(TypeBool) }

// Bool extracts a Bool's value, or ErrKindMismatch.
func (p Pod) Bool() (bool, error) {
	if !p.IsBool() {
		return false, ErrKindMismatch
	}
	return binary.NativeEndian.Uint32(p.Body[:4]) != 0, nil
}

// IsId reports whether this value is a well-formed Id.
func (p Pod) IsId() bool { return p.is(TypeId) }

// Id extracts an Id's value, or ErrKindMismatch.
func (p Pod) Id() (uint32, error) {
	if !p.IsId() {
		return 0, ErrKindMismatch
	}
	return binary.NativeEndian.Uint32(p.Body[:4]), nil
}

// IsInt reports whether this value is a well-formed Int.
func (p Pod) IsInt() bool { return p.is(TypeInt) }

// Int extracts an Int's value, or ErrKindMismatch.
func (p Pod) Int() (int32, error) {
	if !p.IsInt() {
		return 0, ErrKindMismatch
	}
	return int32(binary.NativeEndian.Uint32(p.Body[:4])), nil
}

// IsLong reports whether this value is a well-formed Long.
func (p Pod) IsLong() bool { return p.is(TypeLong) }

// Long extracts a Long's value, or ErrKindMismatch.
func (p Pod) Long() (int64, error) {
	if !p.IsLong() {
		return 0, ErrKindMismatch
	}
	return int64(binary.NativeEndian.Uint64(p.Body[:8])), nil
}

// IsFloat reports whether this value is a well-formed Float.
func (p Pod) IsFloat() bool { return p.is(TypeFloat) }

// Float extracts a Float's value, or ErrKindMismatch.
func (p Pod) Float() (float32, error) {
	if !p.IsFloat() {
		return 0, ErrKindMismatch
	}
	return math.Float32frombits(binary.NativeEndian.Uint32(p.Body[:4])), nil
}

// IsDouble reports whether this value is a well-formed Double.
func (p Pod) IsDouble() bool { return p.is(TypeDouble) }

// Double extracts a Double's value, or ErrKindMismatch.
func (p Pod) Double() (float64, error) {
	if !p.IsDouble() {
		return 0, ErrKindMismatch
	}
	return math.Float64frombits(binary.NativeEndian.Uint64(p.Body[:8])), nil
}

// IsString reports whether this value is a well-formed, NUL-terminated
// String.
func (p Pod) IsString() bool {
	if !p.is(TypeString) {
		return false
	}
	return p.Body[len(p.Body)-1] == 0
}

// String extracts a String's value without its terminating NUL, or
// ErrKindMismatch if the body is missing, too small, or unterminated.
func (p Pod) String() (string, error) {
	if !p.IsString() {
		return "", ErrKindMismatch
	}
	return string(p.Body[:len(p.Body)-1]), nil
}

// IsBytes reports whether this value is a well-formed Bytes.
func (p Pod) IsBytes() bool { return p.is(TypeBytes) }

// Bytes returns a borrowed view of a Bytes value's body, or
// ErrKindMismatch.
func (p Pod) Bytes() ([]byte, error) {
	if !p.IsBytes() {
		return nil, ErrKindMismatch
	}
	return p.Body, nil
}

// IsRectangle reports whether this value is a well-formed Rectangle.
func (p Pod) IsRectangle() bool { return p.is(TypeRectangle) }

// Rectangle extracts a Rectangle's value, or ErrKindMismatch.
func (p Pod) Rectangle() (Rectangle, error) {
	if !p.IsRectangle() {
		return Rectangle{}, ErrKindMismatch
	}
	return Rectangle{
		Width:  binary.NativeEndian.Uint32(p.Body[0:4]),
		Height: binary.NativeEndian.Uint32(p.Body[4:8]),
	}, nil
}

// IsFraction reports whether this value is a well-formed Fraction.
func (p Pod) IsFraction() bool { return p.is(TypeFraction) }

// Fraction extracts a Fraction's value, or ErrKindMismatch.
func (p Pod) Fraction() (Fraction, error) {
	if !p.IsFraction() {
		return Fraction{}, ErrKindMismatch
	}
	return Fraction{
		Num:   binary.NativeEndian.Uint32(p.Body[0:4]),
		Denom: binary.NativeEndian.Uint32(p.Body[4:8]),
	}, nil
}

// IsBitmap reports whether this value is a well-formed Bitmap.
func (p Pod) IsBitmap() bool { return p.is(TypeBitmap) }

// Bitmap returns a borrowed view of a Bitmap value's packed bits, or
// ErrKindMismatch.
func (p Pod) Bitmap() ([]byte, error) {
	if !p.IsBitmap() {
		return nil, ErrKindMismatch
	}
	return p.Body, nil
}

// IsPointer reports whether this value is a well-formed Pointer.
func (p Pod) IsPointer() bool { return p.is(TypePointer) }

// Pointer extracts a Pointer's value, or ErrKindMismatch. The returned
// Address is process-local.
func (p Pod) Pointer() (Pointer, error) {
	if !p.IsPointer() {
		return Pointer{}, ErrKindMismatch
	}
	return Pointer{
		TypeTag: Type(binary.NativeEndian.Uint32(p.Body[0:4])),
		Address: binary.NativeEndian.Uint64(p.Body[8:16]),
	}, nil
}

// IsFd reports whether this value is a well-formed Fd.
func (p Pod) IsFd() bool { return p.is(TypeFd) }

// Fd extracts an Fd value's side-channel table index, or ErrKindMismatch.
func (p Pod) Fd() (int64, error) {
	if !p.IsFd() {
		return 0, ErrKindMismatch
	}
	return int64(binary.NativeEndian.Uint64(p.Body[:8])), nil
}

// IsStruct reports whether this value is a well-formed Struct.
func (p Pod) IsStruct() bool { return p.is(TypeStruct) }

// Struct returns an iterator over this Struct's heterogeneous, individually
// 8-byte-aligned children, or ErrKindMismatch.
func (p Pod) Struct() (*Iterator, error) {
	if !p.IsStruct() {
		return nil, ErrKindMismatch
	}
	return NewIterator(p.Body), nil
}

// IsArray reports whether this value is a well-formed Array.
func (p Pod) IsArray() bool { return p.is(TypeArray) }

// ArrayInfo describes an Array or Choice body's prefix: the exact kind
// and body size shared by every packed child.
type ArrayInfo struct {
	ChildType Type
	ChildSize uint32
	Count     uint32
}

// Array returns the Array's child description, or ErrKindMismatch. Use
// ArrayChildren for the packed, header-less children themselves.
func (p Pod) Array() (ArrayInfo, error) {
	if !p.IsArray() {
		return ArrayInfo{}, ErrKindMismatch
	}
	return arrayInfo(p.Body, arrayPrefixSize)
}

// ArrayChildren returns every packed child of an Array as header-less
// Pod values of the declared child kind, or ErrKindMismatch.
func (p Pod) ArrayChildren() ([]Pod, error) {
	info, err := p.Array()
	if err != nil {
		return nil, err
	}
	return packedChildren(p.Body, arrayPrefixSize, info), nil
}

// IsChoice reports whether this value is a well-formed Choice.
func (p Pod) IsChoice() bool { return p.is(TypeChoice) }

// Choice returns a Choice's kind/flags prefix and its child description,
// or ErrKindMismatch.
func (p Pod) Choice() (ChoiceKind, uint32, ArrayInfo, error) {
	if !p.IsChoice() {
		return 0, 0, ArrayInfo{}, ErrKindMismatch
	}
	kind := ChoiceKind(binary.NativeEndian.Uint32(p.Body[0:4]))
	flags := binary.NativeEndian.Uint32(p.Body[4:8])
	info, err := arrayInfo(p.Body, choicePrefixSize)
	if err != nil {
		return 0, 0, ArrayInfo{}, err
	}
	return kind, flags, info, nil
}

// ChoiceChildren returns every packed alternative of a Choice as
// header-less Pod values, the first of which is the default, or
// ErrKindMismatch.
func (p Pod) ChoiceChildren() ([]Pod, error) {
	_, _, info, err := p.Choice()
	if err != nil {
		return nil, err
	}
	return packedChildren(p.Body, choicePrefixSize, info), nil
}

// ChoiceDefault returns a Choice's default (first) alternative,
// ErrKindMismatch if p is not a Choice, or ErrMalformed if the Choice has
// no children.
func (p Pod) ChoiceDefault() (Pod, error) {
	children, err := p.ChoiceChildren()
	if err != nil {
		return Pod{}, err
	}
	if len(children) == 0 {
		return Pod{}, ErrMalformed
	}
	return children[0], nil
}

func arrayInfo(body []byte, prefix uint32) (ArrayInfo, error) {
	if uint32(len(body)) < prefix {
		return ArrayInfo{}, ErrMalformed
	}
	// The child_size/child_type pair always sits in the last 8 bytes of
	// the prefix, regardless of whether it is an Array (8-byte prefix) or
	// a Choice (16-byte prefix).
	childSize := binary.NativeEndian.Uint32(body[prefix-8 : prefix-4])
	childType := Type(binary.NativeEndian.Uint32(body[prefix-4 : prefix]))
	packed := uint32(len(body)) - prefix
	var count uint32
	if childSize > 0 {
		count = packed / childSize
	}
	return ArrayInfo{ChildType: childType, ChildSize: childSize, Count: count}, nil
}

func packedChildren(body []byte, prefix uint32, info ArrayInfo) []Pod {
	if info.ChildSize == 0 {
		return nil
	}
	children := make([]Pod, 0, info.Count)
	pos := prefix
	for i := uint32(0); i < info.Count; i++ {
		children = append(children, Pod{Kind: info.ChildType, Body: body[pos : pos+info.ChildSize]})
		pos += info.ChildSize
	}
	return children
}

// IsObject reports whether this value is a well-formed Object.
func (p Pod) IsObject() bool { return p.is(TypeObject) }

// ObjectHeader is an Object body's prefix: {u32 object_type, u32 object_id}.
type ObjectHeader struct {
	ObjectType uint32
	ObjectID   uint32
}

// Object returns an Object's type/id prefix, or ErrKindMismatch.
func (p Pod) Object() (ObjectHeader, error) {
	if !p.IsObject() {
		return ObjectHeader{}, ErrKindMismatch
	}
	return ObjectHeader{
		ObjectType: binary.NativeEndian.Uint32(p.Body[0:4]),
		ObjectID:   binary.NativeEndian.Uint32(p.Body[4:8]),
	}, nil
}

// Properties returns every Property record in an Object, in wire order,
// or ErrKindMismatch.
func (p Pod) Properties() ([]Property, error) {
	if !p.IsObject() {
		return nil, ErrKindMismatch
	}
	body := p.Body[objectPrefixSize:]
	var props []Property
	offset := uint32(0)
	for offset < uint32(len(body)) {
		if uint64(offset)+propertyHeaderSize > uint64(len(body)) {
			return nil, ErrMalformed
		}
		key := binary.NativeEndian.Uint32(body[offset : offset+4])
		flags := binary.NativeEndian.Uint32(body[offset+4 : offset+8])
		v, step, err := ReadAt(body, offset+propertyHeaderSize)
		if err != nil {
			return nil, err
		}
		props = append(props, Property{Key: key, Flags: flags, Value: v})
		offset += propertyHeaderSize + step
	}
	return props, nil
}

// FindProperty returns the first Property in obj's Object body whose key
// equals key, and true, or a zero Property and false if no match exists.
func FindProperty(obj Pod, key uint32) (Property, bool) {
	props, err := obj.Properties()
	if err != nil {
		return Property{}, false
	}
	for _, p := range props {
		if p.Key == key {
			return p, true
		}
	}
	return Property{}, false
}

// IsSequence reports whether this value is a well-formed Sequence.
func (p Pod) IsSequence() bool { return p.is(TypeSequence) }

// SequenceHeader is a Sequence body's prefix: {u32 unit, u32 pad}.
type SequenceHeader struct {
	Unit uint32
}

// Sequence returns a Sequence's unit prefix, or ErrKindMismatch.
func (p Pod) Sequence() (SequenceHeader, error) {
	if !p.IsSequence() {
		return SequenceHeader{}, ErrKindMismatch
	}
	return SequenceHeader{Unit: binary.NativeEndian.Uint32(p.Body[0:4])}, nil
}

// Controls returns every Control record in a Sequence, in wire order, or
// ErrKindMismatch. The ordering of the records' Offset values is not
// checked.
func (p Pod) Controls() ([]Control, error) {
	if !p.IsSequence() {
		return nil, ErrKindMismatch
	}
	body := p.Body[sequencePrefixSize:]
	var ctrls []Control
	offset := uint32(0)
	for offset < uint32(len(body)) {
		if uint64(offset)+controlHeaderSize > uint64(len(body)) {
			return nil, ErrMalformed
		}
		off := binary.NativeEndian.Uint32(body[offset : offset+4])
		typ := binary.NativeEndian.Uint32(body[offset+4 : offset+8])
		v, step, err := ReadAt(body, offset+controlHeaderSize)
		if err != nil {
			return nil, err
		}
		ctrls = append(ctrls, Control{Offset: off, Type: typ, Value: v})
		offset += controlHeaderSize + step
	}
	return ctrls, nil
}
