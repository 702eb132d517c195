package pod

// ExtractField is one (key, binding) entry in the extract direction of
// the variadic dialect: a tag plus a pointer to decode a matching
// property's value into. Build one with the constructor matching its
// Tag (ExtractBool, ExtractInt, PodOut, ...), optionally wrapped in Opt to make it
// non-fatal when absent.
type ExtractField struct {
	key      uint32
	tag      Tag
	optional bool

	boolOut   *bool
	idOut     *uint32
	intOut    *int32
	longOut   *int64
	floatOut  *float32
	doubleOut *float64
	strOut    *string
	bytesOut  *[]byte
	rectOut   *Rectangle
	fracOut   *Fraction
	fdOut     *int64
	ptrOut    *Pointer
	podOut    *Pod

	arrInfoOut     *ArrayInfo
	arrChildrenOut *[]Pod
}

// Opt marks f as optional: ParseObject leaves its output untouched and
// does not fail when no property satisfies it, instead of returning
// ErrMissingKey.
func Opt(f ExtractField) ExtractField {
	f.optional = true
	return f
}

// ExtractBool binds key's Bool value into out.
func ExtractBool(key uint32, out *bool) ExtractField {
	return ExtractField{key: key, tag: TagBool, boolOut: out}
}

// ExtractId binds key's Id value into out.
func ExtractId(key uint32, out *uint32) ExtractField {
	return ExtractField{key: key, tag: TagId, idOut: out}
}

// ExtractInt binds key's Int value into out.
func ExtractInt(key uint32, out *int32) ExtractField {
	return ExtractField{key: key, tag: TagInt, intOut: out}
}

// ExtractLong binds key's Long value into out.
func ExtractLong(key uint32, out *int64) ExtractField {
	return ExtractField{key: key, tag: TagLong, longOut: out}
}

// ExtractFloat binds key's Float value into out.
func ExtractFloat(key uint32, out *float32) ExtractField {
	return ExtractField{key: key, tag: TagFloat, floatOut: out}
}

// ExtractDouble binds key's Double value into out.
func ExtractDouble(key uint32, out *float64) ExtractField {
	return ExtractField{key: key, tag: TagDouble, doubleOut: out}
}

// ExtractString binds key's String value into out.
func ExtractString(key uint32, out *string) ExtractField {
	return ExtractField{key: key, tag: TagString, strOut: out}
}

// ExtractBytes binds key's Bytes value into out.
func ExtractBytes(key uint32, out *[]byte) ExtractField {
	return ExtractField{key: key, tag: TagBytes, bytesOut: out}
}

// ExtractRect binds key's Rectangle value into out.
func ExtractRect(key uint32, out *Rectangle) ExtractField {
	return ExtractField{key: key, tag: TagRectangle, rectOut: out}
}

// ExtractFrac binds key's Fraction value into out.
func ExtractFrac(key uint32, out *Fraction) ExtractField {
	return ExtractField{key: key, tag: TagFraction, fracOut: out}
}

// ExtractFd binds key's Fd side-channel index into out.
func ExtractFd(key uint32, out *int64) ExtractField {
	return ExtractField{key: key, tag: TagFd, fdOut: out}
}

// ExtractPtr binds key's Pointer value into out.
func ExtractPtr(key uint32, out *Pointer) ExtractField {
	return ExtractField{key: key, tag: TagPointer, ptrOut: out}
}

// PodOut borrows key's value, of any kind, as a raw Pod into out —
// without fixating a Choice or descending into an Object.
func PodOut(key uint32, out *Pod) ExtractField {
	return ExtractField{key: key, tag: TagPod, podOut: out}
}

// PodChoiceOut borrows key's value, which must be a Choice, as a raw Pod
// into out, unfixated.
func PodChoiceOut(key uint32, out *Pod) ExtractField {
	return ExtractField{key: key, tag: TagPodChoice, podOut: out}
}

// PodObjectOut borrows key's value, which must be an Object, as a raw
// Pod into out.
func PodObjectOut(key uint32, out *Pod) ExtractField {
	return ExtractField{key: key, tag: TagPodObject, podOut: out}
}

// ExtractArray binds key's Array value into an (ArrayInfo, children)
// pair: info reports the packed (child type, child size, count), and
// children the decoded child values.
func ExtractArray(key uint32, info *ArrayInfo, children *[]Pod) ExtractField {
	return ExtractField{key: key, tag: TagArray, arrInfoOut: info, arrChildrenOut: children}
}

// kindSatisfies reports whether value's kind matches what f's tag asks
// for — the check applied to every candidate property when resolving a
// field against an Object's properties.
func kindSatisfies(value Pod, f ExtractField) bool {
	switch f.tag {
	case TagBool:
		return value.IsBool()
	case TagId:
		return value.IsId()
	case TagInt:
		return value.IsInt()
	case TagLong:
		return value.IsLong()
	case TagFloat:
		return value.IsFloat()
	case TagDouble:
		return value.IsDouble()
	case TagString:
		return value.IsString()
	case TagBytes:
		return value.IsBytes()
	case TagRectangle:
		return value.IsRectangle()
	case TagFraction:
		return value.IsFraction()
	case TagFd:
		return value.IsFd()
	case TagPointer:
		return value.IsPointer()
	case TagArray:
		return value.IsArray()
	case TagPod:
		return true
	case TagPodChoice:
		return value.IsChoice()
	case TagPodObject:
		return value.IsObject()
	default:
		return false
	}
}

// bindField writes value, already known to satisfy f's tag, into f's
// output pointer.
func bindField(f ExtractField, value Pod) error {
	switch f.tag {
	case TagBool:
		v, err := value.Bool()
		if err != nil {
			return err
		}
		*f.boolOut = v
	case TagId:
		v, err := value.Id()
		if err != nil {
			return err
		}
		*f.idOut = v
	case TagInt:
		v, err := value.Int()
		if err != nil {
			return err
		}
		*f.intOut = v
	case TagLong:
		v, err := value.Long()
		if err != nil {
			return err
		}
		*f.longOut = v
	case TagFloat:
		v, err := value.Float()
		if err != nil {
			return err
		}
		*f.floatOut = v
	case TagDouble:
		v, err := value.Double()
		if err != nil {
			return err
		}
		*f.doubleOut = v
	case TagString:
		v, err := value.String()
		if err != nil {
			return err
		}
		*f.strOut = v
	case TagBytes:
		v, err := value.Bytes()
		if err != nil {
			return err
		}
		*f.bytesOut = v
	case TagRectangle:
		v, err := value.Rectangle()
		if err != nil {
			return err
		}
		*f.rectOut = v
	case TagFraction:
		v, err := value.Fraction()
		if err != nil {
			return err
		}
		*f.fracOut = v
	case TagFd:
		v, err := value.Fd()
		if err != nil {
			return err
		}
		*f.fdOut = v
	case TagPointer:
		v, err := value.Pointer()
		if err != nil {
			return err
		}
		*f.ptrOut = v
	case TagPod, TagPodChoice, TagPodObject:
		*f.podOut = value
	case TagArray:
		info, err := value.Array()
		if err != nil {
			return err
		}
		children, err := value.ArrayChildren()
		if err != nil {
			return err
		}
		*f.arrInfoOut = info
		*f.arrChildrenOut = children
	default:
		return ErrKindMismatch
	}
	return nil
}

// ParseObject matches obj — which must declare expectedType — against
// fields. Every field is resolved independently against obj's
// properties: a field whose key is AnyKey matches the first property
// whose value satisfies the field's tag, and the same property may
// satisfy more than one field, since matching a field never consumes
// the property (spec §8 scenario F). A required field with no
// satisfying property fails the whole call with ErrMissingKey; an
// optional one (wrapped in Opt) is simply left unbound. ParseObject
// returns the number of fields successfully bound.
func ParseObject(obj Pod, expectedType uint32, fields ...ExtractField) (int, error) {
	header, err := obj.Object()
	if err != nil {
		return 0, err
	}
	if header.ObjectType != expectedType {
		return 0, ErrWrongObjectType
	}
	props, err := obj.Properties()
	if err != nil {
		return 0, err
	}

	bound := 0
	for _, f := range fields {
		matched := false
		for _, p := range props {
			if f.key != AnyKey && p.Key != f.key {
				continue
			}
			if !kindSatisfies(p.Value, f) {
				continue
			}
			if err := bindField(f, p.Value); err != nil {
				return bound, err
			}
			matched = true
			bound++
			break
		}
		if !matched && !f.optional {
			return bound, ErrMissingKey
		}
	}
	return bound, nil
}
