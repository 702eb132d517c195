package pod

import "testing"

// buildVideoFormat constructs Concrete Scenario E's Object and returns the
// buffer and the Object's start offset.
func buildVideoFormat(t *testing.T) ([]byte, uint32) {
	t.Helper()
	buf := make([]byte, 512)
	b := NewBuilder(buf)

	const (
		keyMediaType     = 1
		keyMediaSubtype  = 2
		keyVideoFormat   = 3
		keyVideoSize     = 4
		keyVideoFramerate = 5

		idVideo = 100
		idRaw   = 101
		idI420  = 1
		idYUY2  = 2
	)

	start, err := b.PushObject(1 /* Format */, 0)
	if err != nil {
		t.Fatalf("PushObject: %v", err)
	}

	if err := b.Prop(keyMediaType, 0); err != nil {
		t.Fatalf("Prop: %v", err)
	}
	if _, err := b.Id(idVideo); err != nil {
		t.Fatalf("Id: %v", err)
	}

	if err := b.Prop(keyMediaSubtype, 0); err != nil {
		t.Fatalf("Prop: %v", err)
	}
	if _, err := b.Id(idRaw); err != nil {
		t.Fatalf("Id: %v", err)
	}

	if err := b.Prop(keyVideoFormat, 0); err != nil {
		t.Fatalf("Prop: %v", err)
	}
	if _, err := b.PushChoice(ChoiceEnum, 0); err != nil {
		t.Fatalf("PushChoice: %v", err)
	}
	for _, id := range []uint32{idI420, idI420, idYUY2} {
		if _, err := b.Id(id); err != nil {
			t.Fatalf("Id: %v", err)
		}
	}
	if _, err := b.Pop(); err != nil {
		t.Fatalf("Pop Choice: %v", err)
	}

	if err := b.Prop(keyVideoSize, 0); err != nil {
		t.Fatalf("Prop: %v", err)
	}
	if _, err := b.PushChoice(ChoiceRange, 0); err != nil {
		t.Fatalf("PushChoice: %v", err)
	}
	for _, r := range []Rectangle{{320, 242}, {1, 1}, {0x7fffffff, 0x7fffffff}} {
		if _, err := b.Rectangle(r); err != nil {
			t.Fatalf("Rectangle: %v", err)
		}
	}
	if _, err := b.Pop(); err != nil {
		t.Fatalf("Pop Choice: %v", err)
	}

	if err := b.Prop(keyVideoFramerate, 0); err != nil {
		t.Fatalf("Prop: %v", err)
	}
	if _, err := b.PushChoice(ChoiceRange, 0); err != nil {
		t.Fatalf("PushChoice: %v", err)
	}
	for _, f := range []Fraction{{25, 1}, {0, 1}, {1000, 1}} {
		if _, err := b.Fraction(f); err != nil {
			t.Fatalf("Fraction: %v", err)
		}
	}
	if _, err := b.Pop(); err != nil {
		t.Fatalf("Pop Choice: %v", err)
	}

	if _, err := b.Pop(); err != nil {
		t.Fatalf("Pop Object: %v", err)
	}
	return buf, start
}

// TestFixateChoiceDefault pins Testable Property 7 and Concrete Scenario
// E's fixation check.
func TestFixateChoiceDefault(t *testing.T) {
	buf, start := buildVideoFormat(t)

	if err := Fixate(buf, start); err != nil {
		t.Fatalf("Fixate: %v", err)
	}

	obj, _, err := ReadAt(buf, start)
	if err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	props, err := obj.Properties()
	if err != nil {
		t.Fatalf("Properties: %v", err)
	}
	byKey := make(map[uint32]Pod, len(props))
	for _, p := range props {
		byKey[p.Key] = p.Value
	}

	format, err := byKey[3].Id()
	if err != nil || format != 1 {
		t.Errorf("VIDEO_format = (%d, %v), want (1, nil)", format, err)
	}
	size, err := byKey[4].Rectangle()
	if err != nil || size != (Rectangle{320, 242}) {
		t.Errorf("VIDEO_size = (%v, %v), want ({320 242}, nil)", size, err)
	}
	rate, err := byKey[5].Fraction()
	if err != nil || rate != (Fraction{25, 1}) {
		t.Errorf("VIDEO_framerate = (%v, %v), want ({25 1}, nil)", rate, err)
	}
}

func TestFixateRejectsNonObject(t *testing.T) {
	buf := make([]byte, 16)
	b := NewBuilder(buf)
	if _, err := b.Int(1); err != nil {
		t.Fatalf("Int: %v", err)
	}
	if err := Fixate(buf, 0); err != ErrKindMismatch {
		t.Errorf("Fixate on an Int = %v, want ErrKindMismatch", err)
	}
}

func TestFixateRecursesIntoNestedObjects(t *testing.T) {
	buf := make([]byte, 256)
	b := NewBuilder(buf)
	outerStart, err := b.PushObject(1, 0)
	if err != nil {
		t.Fatalf("PushObject: %v", err)
	}
	if err := b.Prop(1, 0); err != nil {
		t.Fatalf("Prop: %v", err)
	}
	if _, err := b.PushObject(2, 0); err != nil {
		t.Fatalf("PushObject inner: %v", err)
	}
	if err := b.Prop(1, 0); err != nil {
		t.Fatalf("Prop inner: %v", err)
	}
	if _, err := b.PushChoice(ChoiceEnum, 0); err != nil {
		t.Fatalf("PushChoice: %v", err)
	}
	for _, n := range []int32{7, 9} {
		if _, err := b.Int(n); err != nil {
			t.Fatalf("Int: %v", err)
		}
	}
	if _, err := b.Pop(); err != nil {
		t.Fatalf("Pop Choice: %v", err)
	}
	if _, err := b.Pop(); err != nil {
		t.Fatalf("Pop inner Object: %v", err)
	}
	if _, err := b.Pop(); err != nil {
		t.Fatalf("Pop outer Object: %v", err)
	}

	if err := Fixate(buf, outerStart); err != nil {
		t.Fatalf("Fixate: %v", err)
	}

	outer, _, err := ReadAt(buf, outerStart)
	if err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	innerProp, ok := FindProperty(outer, 1)
	if !ok {
		t.Fatalf("FindProperty(1) not found on outer")
	}
	if !innerProp.Value.IsObject() {
		t.Fatalf("outer property 1 is not an Object")
	}
	leaf, ok := FindProperty(innerProp.Value, 1)
	if !ok {
		t.Fatalf("FindProperty(1) not found on inner")
	}
	got, err := leaf.Value.Int()
	if err != nil || got != 7 {
		t.Errorf("fixated nested Choice = (%d, %v), want (7, nil)", got, err)
	}
}
