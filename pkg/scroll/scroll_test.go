package scroll

import (
	"math"
	"testing"

	"github.com/matzehuels/chartcore/pkg/dataset"
	"github.com/matzehuels/chartcore/pkg/errors"
)

func TestComputeWindow(t *testing.T) {
	tests := []struct {
		name                       string
		length                     int
		item, viewport, scroll     float64
		overscan                   int
		want                       Window
	}{
		{"top", 1000, 20, 200, 0, 3, Window{Offset: 0, Size: 16}},
		{"middle aligned", 1000, 20, 200, 400, 3, Window{Offset: 17, Size: 16}},
		{"middle fractional", 1000, 20, 200, 410, 0, Window{Offset: 20, Size: 11}},
		{"near end", 100, 20, 200, 1900, 2, Window{Offset: 93, Size: 7}},
		{"past end", 100, 20, 200, 5000, 2, Window{Offset: 98, Size: 2}},
		{"shorter than viewport", 4, 20, 200, 0, 3, Window{Offset: 0, Size: 4}},
		{"empty", 0, 20, 200, 0, 3, Window{Offset: 0, Size: 0}},
		{"negative scroll", 100, 10, 50, -30, 1, Window{Offset: 0, Size: 7}},
		{"overscan larger than list", 100, 10, 50, 500, math.MaxInt, Window{Offset: 0, Size: 100}},
		{"overscan at int bound past end", 100, 10, 50, 5000, math.MaxInt, Window{Offset: 0, Size: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeWindow(tt.length, tt.item, tt.viewport, tt.scroll, tt.overscan)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("ComputeWindow() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestComputeWindowInvalidExtent(t *testing.T) {
	tests := []struct {
		name           string
		item, viewport float64
	}{
		{"zero item", 0, 100},
		{"negative item", -1, 100},
		{"nan item", math.NaN(), 100},
		{"zero viewport", 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeWindow(10, tt.item, tt.viewport, 0, 0)
			if !errors.Is(err, errors.ErrCodeInvalidExtent) {
				t.Errorf("error = %v, want INVALID_EXTENT", err)
			}
		})
	}
}

func TestComputeWindowInvariants(t *testing.T) {
	for length := 0; length <= 60; length += 7 {
		for _, item := range []float64{1, 7.5, 20} {
			for _, viewport := range []float64{5, 33, 150} {
				for _, overscan := range []int{0, 1, 4} {
					for s := 0.0; s <= float64(length)*item+50; s += 3.3 {
						w, err := ComputeWindow(length, item, viewport, s, overscan)
						if err != nil {
							t.Fatal(err)
						}
						if w.Offset < 0 || w.Size < 0 || w.End() > length {
							t.Fatalf("len=%d item=%v vp=%v s=%v: window %+v out of bounds", length, item, viewport, s, w)
						}
						// every row intersecting the viewport is covered
						firstVisible := int(math.Floor(s / item))
						lastVisible := int(math.Ceil((s+viewport)/item)) - 1
						for i := max(firstVisible, 0); i <= min(lastVisible, length-1); i++ {
							if !w.Contains(i) {
								t.Fatalf("len=%d item=%v vp=%v s=%v: row %d not in %+v", length, item, viewport, s, i, w)
							}
						}
					}
				}
			}
		}
	}
}

func TestWindowSlice(t *testing.T) {
	ds := dataset.Dataset{{Key: "a"}, {Key: "b"}, {Key: "c"}, {Key: "d"}}
	tests := []struct {
		w    Window
		want string
	}{
		{Window{Offset: 1, Size: 2}, "bc"},
		{Window{Offset: 3, Size: 5}, "d"},
		{Window{Offset: 9, Size: 1}, ""},
		{Window{Offset: 0, Size: 0}, ""},
	}
	for _, tt := range tests {
		var got string
		for _, k := range tt.w.Slice(ds).Keys() {
			got += k
		}
		if got != tt.want {
			t.Errorf("%+v.Slice() = %q, want %q", tt.w, got, tt.want)
		}
	}
}

func TestPosition(t *testing.T) {
	w := Window{Offset: 17, Size: 16}
	if got := Position(w, 20, 400); got != -60 {
		t.Errorf("Position() = %v, want -60", got)
	}
}
