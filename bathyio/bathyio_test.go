package bathyio

import (
	"reflect"
	"testing"
)

func TestIndexRangeWithinAxis(t *testing.T) {
	axis := []float64{10, 11, 12, 13, 14, 15}
	lo, hi := indexRange(axis, 11.5, 13.5)
	if lo != 1 || hi != 4 {
		t.Errorf("indexRange(11.5,13.5) = (%d,%d), want (1,4)", lo, hi)
	}
}

func TestIndexRangeClampsToExtent(t *testing.T) {
	axis := []float64{10, 11, 12, 13, 14, 15}
	lo, hi := indexRange(axis, -100, 100)
	if lo != 0 || hi != len(axis)-1 {
		t.Errorf("indexRange out-of-range = (%d,%d), want (0,%d)", lo, hi, len(axis)-1)
	}
}

func TestIndexRangeDegenerateRange(t *testing.T) {
	axis := []float64{10, 11, 12, 13, 14, 15}
	lo, hi := indexRange(axis, 12, 12)
	if lo > hi {
		t.Errorf("indexRange(12,12) produced an inverted range: (%d,%d)", lo, hi)
	}
}

func TestReverseCopy(t *testing.T) {
	in := []float64{1, 2, 3, 4}
	out := reverseCopy(in)
	want := []float64{4, 3, 2, 1}
	if !reflect.DeepEqual(out, want) {
		t.Errorf("reverseCopy(%v) = %v, want %v", in, out, want)
	}
	if !reflect.DeepEqual(in, []float64{1, 2, 3, 4}) {
		t.Errorf("reverseCopy mutated its input: %v", in)
	}
}
