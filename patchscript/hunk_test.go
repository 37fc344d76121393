package patchscript

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// ed is a shorthand for an edit that has the same line offsets in both files.
func ed(begin, lenA, lenB int) Edit {
	return Edit{begin, begin + lenA, begin, begin + lenB}
}

func TestHunks(t *testing.T) {
	tests := []struct {
		name    string
		edits   []Edit
		context int
		want    []Hunk
	}{
		{
			name:    "no-edits",
			context: 3,
		},
		{
			name:    "single-edit",
			edits:   []Edit{ed(5, 1, 0)},
			context: 3,
			want:    []Hunk{{0, 0}},
		},
		{
			name:    "gap-equal-to-twice-context",
			edits:   []Edit{ed(2, 1, 1), ed(9, 1, 1)},
			context: 3,
			want:    []Hunk{{0, 1}},
		},
		{
			name:    "gap-one-more-than-twice-context",
			edits:   []Edit{ed(2, 1, 1), ed(10, 1, 1)},
			context: 3,
			want:    []Hunk{{0, 0}, {1, 1}},
		},
		{
			name:    "zero-context-adjacent",
			edits:   []Edit{ed(2, 1, 1), ed(3, 1, 1)},
			context: 0,
			want:    []Hunk{{0, 1}},
		},
		{
			name:    "zero-context-one-line-apart",
			edits:   []Edit{ed(2, 1, 1), ed(4, 1, 1)},
			context: 0,
			want:    []Hunk{{0, 0}, {1, 1}},
		},
		{
			name: "merge-by-b-only",
			edits: []Edit{
				{BeginA: 2, EndA: 2, BeginB: 2, EndB: 5},
				{BeginA: 10, EndA: 11, BeginB: 11, EndB: 12},
			},
			context: 3,
			want:    []Hunk{{0, 1}},
		},
		{
			name: "merge-by-a-only",
			edits: []Edit{
				{BeginA: 2, EndA: 5, BeginB: 2, EndB: 2},
				{BeginA: 11, EndA: 12, BeginB: 10, EndB: 11},
			},
			context: 3,
			want:    []Hunk{{0, 1}},
		},
		{
			name:    "chain-of-pairwise-merges",
			edits:   []Edit{ed(0, 1, 1), ed(3, 1, 1), ed(6, 1, 1), ed(9, 1, 1)},
			context: 1,
			want:    []Hunk{{0, 3}},
		},
		{
			name:    "chain-broken-in-the-middle",
			edits:   []Edit{ed(0, 1, 1), ed(3, 1, 1), ed(7, 1, 1), ed(10, 1, 1)},
			context: 1,
			want:    []Hunk{{0, 1}, {2, 3}},
		},
		{
			name:    "all-separate",
			edits:   []Edit{ed(0, 1, 0), ed(10, 0, 1), ed(20, 2, 2)},
			context: 2,
			want:    []Hunk{{0, 0}, {1, 1}, {2, 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slices.Collect(Hunks(tt.edits, tt.context))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Hunks(...) result are different (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHunksStop(t *testing.T) {
	edits := []Edit{ed(0, 1, 1), ed(10, 1, 1), ed(20, 1, 1)}
	var got []Hunk
	for h := range Hunks(edits, 1) {
		got = append(got, h)
		if len(got) == 2 {
			break
		}
	}
	want := []Hunk{{0, 0}, {1, 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Hunks(...) with break are different (-want +got):\n%s", diff)
	}

	// Ranging again starts from the beginning.
	again := slices.Collect(Hunks(edits, 1))
	if diff := cmp.Diff([]Hunk{{0, 0}, {1, 1}, {2, 2}}, again); diff != "" {
		t.Errorf("Hunks(...) second pass is different (-want +got):\n%s", diff)
	}
}

func TestHunksInvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		edits   []Edit
		context int
	}{
		{"negative-context", []Edit{ed(5, 2, 2), ed(7, 1, 1)}, -1},
		{"out-of-order", []Edit{ed(9, 1, 1), ed(2, 1, 1)}, 3},
		{"overlapping", []Edit{ed(2, 3, 3), ed(4, 1, 1)}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("Hunks(%v, %d) didn't panic", tt.edits, tt.context)
				}
			}()
			for range Hunks(tt.edits, tt.context) {
			}
		})
	}
}

// randomEdits returns a random, consistent edit list together with the sizes of the files it
// applies to.
func randomEdits(r *rand.Rand) (edits []Edit, aSize, bSize int) {
	a, b := 0, 0
	for range r.IntN(8) {
		gap := r.IntN(12)
		if len(edits) > 0 {
			gap++
		}
		a += gap
		b += gap
		la, lb := r.IntN(4), r.IntN(4)
		if la == 0 && lb == 0 {
			la = 1
		}
		edits = append(edits, Edit{a, a + la, b, b + lb})
		a += la
		b += lb
	}
	tail := r.IntN(12)
	return edits, a + tail, b + tail
}

func TestHunksProperties(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := range 500 {
		edits, _, _ := randomEdits(r)
		if err := ValidateEdits(edits); err != nil {
			t.Fatalf("randomEdits produced an invalid edit list: %v", err)
		}
		context := r.IntN(6)

		// Every edit is in exactly one hunk, hunks are ascending and without gaps.
		hunks := slices.Collect(Hunks(edits, context))
		next := 0
		for _, h := range hunks {
			if h.Start != next || h.End < h.Start {
				t.Fatalf("case %d: hunks %v don't cover %v without gaps", i, hunks, edits)
			}
			next = h.End + 1
		}
		if next != len(edits) {
			t.Fatalf("case %d: hunks %v don't cover all %d edits", i, hunks, len(edits))
		}

		// Edits in a hunk are merged iff one of the gaps is small enough.
		for _, h := range hunks {
			for k := h.Start + 1; k <= h.End; k++ {
				if !combine(edits[k-1], edits[k], context) {
					t.Errorf("case %d: edits %d and %d merged with context %d", i, k-1, k, context)
				}
			}
			if h.End+1 < len(edits) && combine(edits[h.End], edits[h.End+1], context) {
				t.Errorf("case %d: edits %d and %d not merged with context %d", i, h.End, h.End+1, context)
			}
		}

		// A larger context can only merge hunks.
		larger := slices.Collect(Hunks(edits, context+1))
		if len(larger) > len(hunks) {
			t.Errorf("case %d: context %d produced %d hunks, context %d produced %d", i, context, len(hunks), context+1, len(larger))
		}
		for _, h := range hunks {
			if !slices.ContainsFunc(larger, func(l Hunk) bool { return l.Start <= h.Start && h.End <= l.End }) {
				t.Errorf("case %d: hunk %v split by larger context: %v", i, h, larger)
			}
		}
	}
}
