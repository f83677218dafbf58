package shuffle

import (
	"reflect"
	"sort"
	"testing"
	"time"
)

func TestLCGSequenceFromZero(t *testing.T) {
	g := NewLCG(0)
	want := []uint32{1013904223, 1196435762, 3519870697}
	for i, w := range want {
		if got := g.Next(); got != w {
			t.Fatalf("draw %d: expected %d, got %d", i, w, got)
		}
	}
}

func TestLCGZeroValueMatchesSeedZero(t *testing.T) {
	var a LCG
	b := NewLCG(0)
	for i := 0; i < 10; i++ {
		if x, y := a.Next(), b.Next(); x != y {
			t.Fatalf("draw %d: zero value %d != NewLCG(0) %d", i, x, y)
		}
	}
}

func TestShuffledIndicesGoldenVectors(t *testing.T) {
	tests := []struct {
		n    uint32
		seed uint32
		want []uint32
	}{
		{n: 5, seed: 0, want: []uint32{4, 0, 1, 2, 3}},
		{n: 3, seed: 42, want: []uint32{2, 0, 1}},
		{n: 2, seed: 0, want: []uint32{0, 1}},
		{n: 14, seed: 0, want: []uint32{0, 12, 8, 11, 6, 9, 10, 5, 13, 7, 4, 1, 2, 3}},
		{n: 14, seed: 12345, want: []uint32{3, 5, 1, 7, 8, 4, 6, 13, 9, 10, 0, 2, 11, 12}},
		{n: 10, seed: 0xFFFFFFFF, want: []uint32{9, 6, 3, 0, 2, 7, 5, 4, 1, 8}},
	}

	for _, tt := range tests {
		got := ShuffledIndices(tt.n, tt.seed)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ShuffledIndices(%d, %d) = %v, want %v", tt.n, tt.seed, got, tt.want)
		}
	}
}

func TestShuffledIndicesTrivialLengths(t *testing.T) {
	for _, seed := range []uint32{0, 1, 42, 0xFFFFFFFF} {
		if got := ShuffledIndices(0, seed); len(got) != 0 {
			t.Errorf("seed %d: expected empty result, got %v", seed, got)
		}
		if got := ShuffledIndices(1, seed); !reflect.DeepEqual(got, []uint32{0}) {
			t.Errorf("seed %d: expected [0], got %v", seed, got)
		}
	}
}

func TestShuffledIndicesIsPermutation(t *testing.T) {
	for n := uint32(2); n <= 64; n++ {
		for _, seed := range []uint32{0, 7, 1234567, 0xDEADBEEF} {
			got := ShuffledIndices(n, seed)
			if uint32(len(got)) != n {
				t.Fatalf("n=%d seed=%d: expected length %d, got %d", n, seed, n, len(got))
			}
			sorted := append([]uint32(nil), got...)
			sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
			for i, v := range sorted {
				if v != uint32(i) {
					t.Fatalf("n=%d seed=%d: not a permutation: %v", n, seed, got)
				}
			}
		}
	}
}

func TestShuffledIndicesDeterministic(t *testing.T) {
	a := ShuffledIndices(100, 99)
	b := ShuffledIndices(100, 99)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("expected identical permutations for identical inputs")
	}
}

func TestSeedFromTimeMasksTo32Bits(t *testing.T) {
	ts := time.UnixMilli(0x1_0000_002A)
	if got := SeedFromTime(ts); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
}

func TestResolveSeed(t *testing.T) {
	fixed := func() time.Time { return time.UnixMilli(1700000000123) }

	explicit := uint32(7)
	if got := ResolveSeed(&explicit, fixed); got != 7 {
		t.Errorf("explicit seed: expected 7, got %d", got)
	}
	if got, want := ResolveSeed(nil, fixed), SeedFromTime(fixed()); got != want {
		t.Errorf("derived seed: expected %d, got %d", want, got)
	}
}
