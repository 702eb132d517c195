package pod

import "encoding/binary"

// Fixate rewrites every Choice found while walking the Object whose
// header begins at offset within buf, replacing each in place with its
// default (first child) value. Object-valued properties are visited
// recursively.
//
// Per the chosen resolution of spec §9's open question (recorded in
// SPEC_FULL.md), Fixate never shrinks a rewritten value's declared body
// size: a Choice's slot keeps its original footprint, so the stepping
// math used to walk sibling properties is undisturbed and no ancestor's
// body size ever needs rewriting. The slot is rewritten to a normal
// header-prefixed value of the default's kind, its content copied to the
// front, and the remainder of the slot zeroed. This is exact for every
// fixed-size kind (Bool, Id, Int, Long, Float, Double, Rectangle,
// Fraction, Pointer, Fd, None) — the only kinds spec's own Choice
// examples ever default to — and is not defined for a Choice whose
// default is itself variable-length (String, Bytes, Bitmap); see
// DESIGN.md.
//
// A byte-exact-shrunk rewrite (a hypothetical CompactChoices pass that
// also rewrites every ancestor body size) is not implemented: nothing
// in spec.md requires shrunk output from fixation.
//
// Fixate is destructive on buf and defined only on well-formed input.
func Fixate(buf []byte, offset uint32) error {
	v, _, err := ReadAt(buf, offset)
	if err != nil {
		return err
	}
	if !v.IsObject() {
		return ErrKindMismatch
	}
	return fixateObjectAt(buf, offset)
}

func fixateObjectAt(buf []byte, objOffset uint32) error {
	v, _, err := ReadAt(buf, objOffset)
	if err != nil {
		return err
	}
	if !v.IsObject() {
		return ErrKindMismatch
	}
	bodyStart := objOffset + HeaderSize + objectPrefixSize
	bodyLen := uint32(len(v.Body)) - objectPrefixSize

	pos := uint32(0)
	for pos < bodyLen {
		if uint64(pos)+propertyHeaderSize > uint64(bodyLen) {
			return ErrMalformed
		}
		valueOffset := bodyStart + pos + propertyHeaderSize
		val, step, err := ReadAt(buf, valueOffset)
		if err != nil {
			return err
		}
		if err := fixateValueAt(buf, valueOffset, val); err != nil {
			return err
		}
		pos += propertyHeaderSize + step
	}
	return nil
}

func fixateValueAt(buf []byte, offset uint32, v Pod) error {
	switch {
	case v.IsChoice():
		return fixateChoiceAt(buf, offset, v)
	case v.IsObject():
		return fixateObjectAt(buf, offset)
	default:
		return nil
	}
}

func fixateChoiceAt(buf []byte, offset uint32, v Pod) error {
	def, err := v.ChoiceDefault()
	if err != nil {
		return err
	}
	originalBodySize := uint32(len(v.Body))
	defBody := def.Body

	if uint32(len(defBody)) > originalBodySize {
		// Can only happen for a variable-length default bigger than the
		// Choice's own declared body, which never occurs for the fixed
		// (min, max[, step]) / enum / flags children this codec's own
		// Choice builder produces.
		return ErrMalformed
	}

	binary.NativeEndian.PutUint32(buf[offset:offset+4], originalBodySize)
	binary.NativeEndian.PutUint32(buf[offset+4:offset+8], uint32(def.Kind))

	contentStart := offset + HeaderSize
	n := copy(buf[contentStart:contentStart+originalBodySize], defBody)
	for i := contentStart + uint32(n); i < contentStart+originalBodySize; i++ {
		buf[i] = 0
	}
	return nil
}
