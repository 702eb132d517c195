package pod

import (
	"encoding/binary"
	"math"
)

type frameKind uint8

const (
	frameArray frameKind = iota
	frameChoice
	frameStruct
	frameObject
	frameSequence
)

// frame records one open container on the builder's stack: where its
// header (if it has one) and body begin, and — for Array/Choice — the
// (type, size) template captured from its first child.
type frame struct {
	kind      frameKind
	valueType Type // this frame's own Type (TypeArray, TypeObject, ...)

	hasHeader bool   // false when this frame is itself a header-less Array/Choice child
	headerAt  uint32 // valid when hasHeader
	bodyStart uint32

	childType Type
	childSize uint32
	haveChild bool

	pendingProp    bool
	pendingControl bool
}

// Builder is a streaming writer over a caller-owned byte buffer. It
// writes forward, tracking a logical offset, a stack of open frames, and
// whether any write has been dropped for exceeding the buffer's capacity.
// A Builder never allocates the bytes it emits beyond small scalar
// staging arrays; it holds no reference to anything but buf and its own
// frame stack.
type Builder struct {
	buf      []byte
	offset   uint32
	overflow bool
	frames   []frame
}

// NewBuilder returns a Builder that writes into buf from offset 0.
func NewBuilder(buf []byte) *Builder {
	return &Builder{buf: buf}
}

// Reset rebinds the builder to buf and clears all state, so the same
// Builder can be reused across many encodes without reallocating its
// frame stack.
func (b *Builder) Reset(buf []byte) {
	b.buf = buf
	b.offset = 0
	b.overflow = false
	b.frames = b.frames[:0]
}

// Offset returns the builder's current logical offset.
func (b *Builder) Offset() uint32 { return b.offset }

// Depth returns the number of currently open frames.
func (b *Builder) Depth() int { return len(b.frames) }

// Overflowed reports whether any write so far would have exceeded the
// destination buffer's capacity. Once true, it stays true for the
// lifetime of the builder (until Reset).
func (b *Builder) Overflowed() bool { return b.overflow }

// RequiredSize reports the number of bytes a buffer would need to hold
// everything written so far, including any bytes dropped because the
// destination buffer was too small.
func (b *Builder) RequiredSize() uint32 { return b.offset }

// Bytes returns the portion of the destination buffer written so far. If
// Overflowed reports true, retry the whole encode with a fresh buffer of
// at least RequiredSize bytes — a builder does not support resuming a
// partial, overflowed encode in place.
func (b *Builder) Bytes() []byte {
	if b.overflow {
		return b.buf
	}
	return b.buf[:b.offset]
}

func (b *Builder) topFrame() *frame {
	if len(b.frames) == 0 {
		return nil
	}
	return &b.frames[len(b.frames)-1]
}

// reserve advances the logical offset by n and returns the writable
// slice of the destination buffer for those n bytes — shorter than n,
// or nil, once the buffer's capacity is exhausted. Writes into fewer
// bytes than requested never touch memory beyond buf's length.
func (b *Builder) reserve(n uint32) []byte {
	start := b.offset
	end := start + n
	b.offset = end
	if uint64(end) <= uint64(len(b.buf)) {
		return b.buf[start:end]
	}
	b.overflow = true
	if uint64(start) < uint64(len(b.buf)) {
		return b.buf[start:len(b.buf)]
	}
	return nil
}

func (b *Builder) writeUint32(v uint32) {
	dst := b.reserve(4)
	if len(dst) == 4 {
		binary.NativeEndian.PutUint32(dst, v)
	}
}

func (b *Builder) writeUint64(v uint64) {
	dst := b.reserve(8)
	if len(dst) == 8 {
		binary.NativeEndian.PutUint64(dst, v)
	}
}

func (b *Builder) writeBytes(payload []byte) {
	dst := b.reserve(uint32(len(payload)))
	copy(dst, payload)
}

func (b *Builder) patchUint32(at uint32, v uint32) {
	if uint64(at)+4 <= uint64(len(b.buf)) {
		binary.NativeEndian.PutUint32(b.buf[at:at+4], v)
	}
}

// align pads the output with zero bytes up to the next 8-byte boundary.
func (b *Builder) align() {
	pad := AlignUp(b.offset) - b.offset
	if pad == 0 {
		return
	}
	dst := b.reserve(pad)
	for i := range dst {
		dst[i] = 0
	}
}

// consumePending clears any outstanding Prop/Control awaiting a value on
// the current frame — called at the start of every value emission.
func (b *Builder) consumePending() {
	if f := b.topFrame(); f != nil {
		f.pendingProp = false
		f.pendingControl = false
	}
}

func registerArrayChild(f *frame, t Type, size uint32) error {
	if !f.haveChild {
		f.childType = t
		f.childSize = size
		f.haveChild = true
		return nil
	}
	if f.childType != t || f.childSize != size {
		return ErrArrayHeterogeneous
	}
	return nil
}

// emitValue writes one scalar-shaped value of kind t with body bytes
// body. If the current frame is an open Array/Choice, body is packed
// tightly with no per-child header, per the array homogeneity invariant;
// otherwise a full 8-byte header precedes the (8-byte aligned) body.
func (b *Builder) emitValue(t Type, body []byte) (uint32, error) {
	b.consumePending()
	if f := b.topFrame(); f != nil && (f.kind == frameArray || f.kind == frameChoice) {
		if err := registerArrayChild(f, t, uint32(len(body))); err != nil {
			return 0, err
		}
		start := b.offset
		b.writeBytes(body)
		return start, nil
	}
	b.align()
	start := b.offset
	b.writeUint32(uint32(len(body)))
	b.writeUint32(uint32(t))
	b.writeBytes(body)
	return start, nil
}

// None emits the absent/null sentinel value.
func (b *Builder) None() (uint32, error) { return b.emitValue(TypeNone, nil) }

// Bool emits a Bool value.
func (b *Builder) Bool(v bool) (uint32, error) {
	var buf [4]byte
	if v {
		binary.NativeEndian.PutUint32(buf[:], 1)
	}
	return b.emitValue(TypeBool, buf[:])
}

// Id emits an Id value.
func (b *Builder) Id(v uint32) (uint32, error) {
	var buf [4]byte
	binary.NativeEndian.PutUint32(buf[:], v)
	return b.emitValue(TypeId, buf[:])
}

// Int emits a signed 32-bit Int value.
func (b *Builder) Int(v int32) (uint32, error) {
	var buf [4]byte
	binary.NativeEndian.PutUint32(buf[:], uint32(v))
	return b.emitValue(TypeInt, buf[:])
}

// Long emits a signed 64-bit Long value.
func (b *Builder) Long(v int64) (uint32, error) {
	var buf [8]byte
	binary.NativeEndian.PutUint64(buf[:], uint64(v))
	return b.emitValue(TypeLong, buf[:])
}

// Float emits an IEEE-754 single Float value.
func (b *Builder) Float(v float32) (uint32, error) {
	var buf [4]byte
	binary.NativeEndian.PutUint32(buf[:], math.Float32bits(v))
	return b.emitValue(TypeFloat, buf[:])
}

// Double emits an IEEE-754 double Double value.
func (b *Builder) Double(v float64) (uint32, error) {
	var buf [8]byte
	binary.NativeEndian.PutUint64(buf[:], math.Float64bits(v))
	return b.emitValue(TypeDouble, buf[:])
}

// String emits a UTF-8 String value. The terminating NUL is appended
// automatically; callers never supply one.
func (b *Builder) String(s string) (uint32, error) {
	body := make([]byte, len(s)+1)
	copy(body, s)
	return b.emitValue(TypeString, body)
}

// Bin emits an opaque Bytes value.
func (b *Builder) Bin(data []byte) (uint32, error) {
	return b.emitValue(TypeBytes, data)
}

// Bitmap emits a packed Bitmap value.
func (b *Builder) Bitmap(bits []byte) (uint32, error) {
	return b.emitValue(TypeBitmap, bits)
}

// Rectangle emits a Rectangle value.
func (b *Builder) Rectangle(r Rectangle) (uint32, error) {
	var buf [8]byte
	binary.NativeEndian.PutUint32(buf[0:4], r.Width)
	binary.NativeEndian.PutUint32(buf[4:8], r.Height)
	return b.emitValue(TypeRectangle, buf[:])
}

// Fraction emits a Fraction value.
func (b *Builder) Fraction(f Fraction) (uint32, error) {
	var buf [8]byte
	binary.NativeEndian.PutUint32(buf[0:4], f.Num)
	binary.NativeEndian.PutUint32(buf[4:8], f.Denom)
	return b.emitValue(TypeFraction, buf[:])
}

// Pointer emits a process-local Pointer value.
func (b *Builder) Pointer(typeTag Type, address uint64) (uint32, error) {
	var buf [16]byte
	binary.NativeEndian.PutUint32(buf[0:4], uint32(typeTag))
	binary.NativeEndian.PutUint64(buf[8:16], address)
	return b.emitValue(TypePointer, buf[:])
}

// Fd emits an Fd value referencing index within the side-channel
// descriptor table carried out-of-band alongside this buffer.
func (b *Builder) Fd(index int64) (uint32, error) {
	var buf [8]byte
	binary.NativeEndian.PutUint64(buf[:], uint64(index))
	return b.emitValue(TypeFd, buf[:])
}

// Pod embeds a fully pre-encoded value (its own header and body) verbatim
// as the next value, honoring alignment like any other emit. Used to
// splice an already-built fragment — e.g. a Choice built elsewhere —
// without re-decoding and re-emitting it.
func (b *Builder) Pod(encoded []byte) (uint32, error) {
	b.consumePending()
	b.align()
	start := b.offset
	b.writeBytes(encoded)
	return start, nil
}

// IntArray emits an Array of Int children in one call.
func (b *Builder) IntArray(vals []int32) (uint32, error) {
	if _, err := b.PushArray(); err != nil {
		return 0, err
	}
	for _, v := range vals {
		if _, err := b.Int(v); err != nil {
			return 0, err
		}
	}
	return b.Pop()
}

// LongArray emits an Array of Long children in one call.
func (b *Builder) LongArray(vals []int64) (uint32, error) {
	if _, err := b.PushArray(); err != nil {
		return 0, err
	}
	for _, v := range vals {
		if _, err := b.Long(v); err != nil {
			return 0, err
		}
	}
	return b.Pop()
}

// IdArray emits an Array of Id children in one call.
func (b *Builder) IdArray(vals []uint32) (uint32, error) {
	if _, err := b.PushArray(); err != nil {
		return 0, err
	}
	for _, v := range vals {
		if _, err := b.Id(v); err != nil {
			return 0, err
		}
	}
	return b.Pop()
}

// pushFrame opens a new container frame of the given kind/Type, writing
// its outer header (unless it is itself a header-less Array/Choice
// child) followed by writePrefix's body-prefix fields.
func (b *Builder) pushFrame(kind frameKind, t Type, writePrefix func()) (uint32, error) {
	b.consumePending()
	if len(b.frames) >= MaxFrameDepth {
		return 0, ErrFrameDepth
	}
	parent := b.topFrame()
	inArrayChild := parent != nil && (parent.kind == frameArray || parent.kind == frameChoice)

	var headerAt uint32
	if !inArrayChild {
		b.align()
		headerAt = b.offset
		b.writeUint32(0) // placeholder body size, fixed up on Pop
		b.writeUint32(uint32(t))
	}
	bodyStart := b.offset
	writePrefix()

	b.frames = append(b.frames, frame{
		kind:      kind,
		valueType: t,
		hasHeader: !inArrayChild,
		headerAt:  headerAt,
		bodyStart: bodyStart,
	})
	if inArrayChild {
		return bodyStart, nil
	}
	return headerAt, nil
}

// PushArray opens an Array frame. Its children must all share one
// (size, type) — enforced as they are emitted — and are packed with no
// per-child header.
func (b *Builder) PushArray() (uint32, error) {
	return b.pushFrame(frameArray, TypeArray, func() {
		b.writeUint32(0) // child_size placeholder
		b.writeUint32(0) // child_type placeholder
	})
}

// PushChoice opens a Choice frame of the given kind and flags. Its first
// child becomes the default; later children constrain it per kind
// (Range: {default,min,max}; Step: {default,min,max,step}; Enum: allowed
// values; Flags: admissible bits).
func (b *Builder) PushChoice(kind ChoiceKind, flags uint32) (uint32, error) {
	return b.pushFrame(frameChoice, TypeChoice, func() {
		b.writeUint32(uint32(kind))
		b.writeUint32(flags)
		b.writeUint32(0) // child_size placeholder
		b.writeUint32(0) // child_type placeholder
	})
}

// PushStruct opens a Struct frame: a sequence of heterogeneous,
// individually 8-byte-aligned child values.
func (b *Builder) PushStruct() (uint32, error) {
	return b.pushFrame(frameStruct, TypeStruct, func() {})
}

// PushObject opens an Object frame with the given schema type and id.
// Properties are added with Prop followed by one value emission each.
func (b *Builder) PushObject(objectType, objectID uint32) (uint32, error) {
	return b.pushFrame(frameObject, TypeObject, func() {
		b.writeUint32(objectType)
		b.writeUint32(objectID)
	})
}

// PushSequence opens a Sequence frame with the given time unit. Controls
// are added with Control followed by one value emission each.
func (b *Builder) PushSequence(unit uint32) (uint32, error) {
	return b.pushFrame(frameSequence, TypeSequence, func() {
		b.writeUint32(unit)
		b.writeUint32(0) // pad
	})
}

// Prop begins a Property record inside the open Object frame: it writes
// the record's key and flags, and the very next value emission (any
// scalar, or a pushed frame once popped) becomes that property's value.
func (b *Builder) Prop(key, flags uint32) error {
	f := b.topFrame()
	if f == nil || f.kind != frameObject {
		return ErrNoOpenFrame
	}
	if f.pendingProp {
		return ErrPendingValue
	}
	b.align()
	b.writeUint32(key)
	b.writeUint32(flags)
	f.pendingProp = true
	return nil
}

// Control begins a Control record inside the open Sequence frame: it
// writes the record's timestamp offset and type, and the very next value
// emission becomes that control's value.
func (b *Builder) Control(offset, controlType uint32) error {
	f := b.topFrame()
	if f == nil || f.kind != frameSequence {
		return ErrNoOpenFrame
	}
	if f.pendingControl {
		return ErrPendingValue
	}
	b.align()
	b.writeUint32(offset)
	b.writeUint32(controlType)
	f.pendingControl = true
	return nil
}

// Pop closes the most recently opened frame, fixing up its header's body
// size and — for Array/Choice — its (child_size, child_type) prefix from
// the template captured off its first child. It returns the offset the
// closed value's header (or, for a header-less Array/Choice child, its
// body) begins at.
func (b *Builder) Pop() (uint32, error) {
	if len(b.frames) == 0 {
		return 0, ErrNoOpenFrame
	}
	f := b.frames[len(b.frames)-1]
	if f.pendingProp || f.pendingControl {
		return 0, ErrPendingValue
	}
	b.frames = b.frames[:len(b.frames)-1]

	bodySize := b.offset - f.bodyStart
	if f.hasHeader {
		b.patchUint32(f.headerAt, bodySize)
	}

	if f.kind == frameArray || f.kind == frameChoice {
		at := f.bodyStart
		if f.kind == frameChoice {
			at += 8 // past {choice_kind, flags}
		}
		var cs, ct uint32
		if f.haveChild {
			cs, ct = f.childSize, uint32(f.childType)
		}
		b.patchUint32(at, cs)
		b.patchUint32(at+4, ct)
	}

	if parent := b.topFrame(); parent != nil && !f.hasHeader {
		if err := registerArrayChild(parent, f.valueType, bodySize); err != nil {
			return 0, err
		}
	}

	if f.hasHeader {
		return f.headerAt, nil
	}
	return f.bodyStart, nil
}
