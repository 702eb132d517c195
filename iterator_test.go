package pod

import "testing"

func TestIteratorForEach(t *testing.T) {
	buf := make([]byte, 64)
	b := NewBuilder(buf)
	if _, err := b.Int(1); err != nil {
		t.Fatalf("Int: %v", err)
	}
	if _, err := b.Int(2); err != nil {
		t.Fatalf("Int: %v", err)
	}
	if _, err := b.Int(3); err != nil {
		t.Fatalf("Int: %v", err)
	}

	var got []int32
	it := NewIterator(b.Bytes())
	if err := it.ForEach(func(v Pod) error {
		n, err := v.Int()
		if err != nil {
			return err
		}
		got = append(got, n)
		return nil
	}); err != nil {
		t.Fatalf("ForEach: %v", err)
	}
	want := []int32{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestIteratorNextPastEnd(t *testing.T) {
	buf := make([]byte, 16)
	b := NewBuilder(buf)
	if _, err := b.Int(1); err != nil {
		t.Fatalf("Int: %v", err)
	}
	it := NewIterator(b.Bytes())
	if _, err := it.Next(); err != nil {
		t.Fatalf("first Next: %v", err)
	}
	if _, err := it.Next(); err != ErrNotInside {
		t.Errorf("second Next = %v, want ErrNotInside", err)
	}
}

func TestIteratorContains(t *testing.T) {
	buf := make([]byte, 16)
	b := NewBuilder(buf)
	if _, err := b.Int(1); err != nil {
		t.Fatalf("Int: %v", err)
	}
	it := NewIterator(b.Bytes())
	if !it.Contains() {
		t.Errorf("Contains() = false at offset 0")
	}
	if _, err := it.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if it.Contains() {
		t.Errorf("Contains() = true past the last value")
	}
}

func TestIteratorTruncatedHeader(t *testing.T) {
	buf := []byte{1, 2, 3}
	it := NewIterator(buf)
	if _, err := it.Next(); err != ErrNotInside {
		t.Errorf("Next() on truncated buffer = %v, want ErrNotInside", err)
	}
}
