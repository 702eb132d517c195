package pod

import "testing"

// TestScenarioBOffsets pins Concrete Scenario B: emitting twelve values of
// mixed kinds in order returns the monotonic offset sequence the spec
// gives, once header size and 8-byte alignment are accounted for.
func TestScenarioBOffsets(t *testing.T) {
	buf := make([]byte, 256)
	b := NewBuilder(buf)

	var got []uint32
	emit := func(off uint32, err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("emit: %v", err)
		}
		got = append(got, off)
	}

	emit(b.None())
	emit(b.Bool(true))
	emit(b.Id(1 /* Object_type_id */))
	emit(b.Int(21))
	emit(b.Float(0.8))
	emit(b.Double(-1.56))
	emit(b.String("test"))
	emit(b.Bin([]byte("PipeWire")))
	emit(b.Pointer(TypeObject, 0))
	emit(b.Fd(4))
	emit(b.Rectangle(Rectangle{320, 240}))
	emit(b.Fraction(Fraction{25, 1}))

	want := []uint32{0, 8, 24, 40, 56, 72, 88, 104, 120, 144, 160, 176}
	if len(got) != len(want) {
		t.Fatalf("got %d offsets, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("offset[%d] = %d, want %d", i, got[i], want[i])
		}
	}

	// Every offset is itself a multiple of the alignment (Testable
	// Property 3), and each value is reachable by walking next() from 0.
	it := NewIterator(b.Bytes())
	for i := range want {
		if it.Offset()%Alignment != 0 {
			t.Errorf("iterator offset %d is not 8-aligned", it.Offset())
		}
		if _, err := it.Next(); err != nil {
			t.Fatalf("Next() at value %d: %v", i, err)
		}
	}
}
