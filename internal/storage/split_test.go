package storage

import (
	"bytes"
	"math/rand/v2"
	"testing"
)

func thresholdDAL(pageSize int, minFill, maxFill float64) *DataAccessLayer {
	return &DataAccessLayer{opts: Options{
		PageSize:       pageSize,
		MinFillPercent: minFill,
		MaxFillPercent: maxFill,
	}}
}

func sizedItems(count, keyLen, valueLen int) []Item {
	out := make([]Item, count)
	for i := range out {
		key := bytes.Repeat([]byte{'k'}, keyLen)
		key[len(key)-1] = byte('a' + i)
		out[i] = NewItem(key, make([]byte, valueLen))
	}
	return out
}

func TestThresholds(t *testing.T) {
	d := thresholdDAL(4096, 0.5, 0.95)

	if got := d.MinThreshold(); got != 2048 {
		t.Fatalf("min threshold %v", got)
	}
	if got := d.MaxThreshold(); got < 3891.19 || got > 3891.21 {
		t.Fatalf("max threshold %v", got)
	}

	small := NewNode(sizedItems(2, 100, 200), []PageNum{})
	if d.IsOverPopulated(small) || !d.IsUnderPopulated(small) {
		t.Fatal("two items should be under-populated")
	}

	big := NewNode(sizedItems(14, 100, 200), []PageNum{})
	if !d.IsOverPopulated(big) || d.IsUnderPopulated(big) {
		t.Fatalf("14 items (%d bytes) should be over-populated", big.Size())
	}
}

func TestGetSplitIndex(t *testing.T) {
	d := thresholdDAL(4096, 0.5, 0.95)

	n := NewNode(sizedItems(14, 100, 200), []PageNum{})
	if n.Size() != 4323 {
		t.Fatalf("size %d", n.Size())
	}

	index := d.GetSplitIndex(n)
	if index != 7 {
		t.Fatalf("split index %d, want 7", index)
	}

	promoted, right := n.Split(index)
	if len(n.Items) != 7 || len(right.Items) != 6 {
		t.Fatalf("split into %d and %d items", len(n.Items), len(right.Items))
	}
	if right.Size() != 1859 {
		t.Fatalf("right size %d, want 1859", right.Size())
	}
	if promoted.Key[len(promoted.Key)-1] != 'h' {
		t.Fatalf("promoted %q", promoted.Key[len(promoted.Key)-1])
	}
}

func TestGetSplitIndexNone(t *testing.T) {
	tests := []struct {
		name string
		dal  *DataAccessLayer
		node *Node
	}{
		{
			"never above minimum",
			thresholdDAL(4096, 0.5, 0.95),
			NewNode(sizedItems(5, 100, 200), []PageNum{}),
		},
		{
			"left part too large",
			thresholdDAL(128, 0.5, 0.95),
			NewNode(sizedItems(3, 50, 0), []PageNum{}),
		},
		{
			"empty",
			thresholdDAL(4096, 0.5, 0.95),
			NewNode(nil, nil),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dal.GetSplitIndex(tt.node); got != -1 {
				t.Fatalf("split index %d, want -1", got)
			}
		})
	}
}

func TestGetSplitIndexLastItem(t *testing.T) {
	d := thresholdDAL(4096, 0.01, 0.1)
	n := NewNode(sizedItems(2, 100, 200), []PageNum{})

	index := d.GetSplitIndex(n)
	if index != 1 {
		t.Fatalf("split index %d, want 1", index)
	}

	_, right := n.Split(index)
	if len(n.Items) != 1 || len(right.Items) != 0 {
		t.Fatalf("split into %d and %d items", len(n.Items), len(right.Items))
	}
	if d.IsOverPopulated(n) || d.IsOverPopulated(right) {
		t.Fatal("part still over-populated")
	}
}

func TestSplitInternal(t *testing.T) {
	n := NewNode(items("a", "1", "b", "2", "c", "3", "d", "4"), []PageNum{10, 11, 12, 13, 14})

	promoted, right := n.Split(2)

	if string(promoted.Key) != "c" {
		t.Fatalf("promoted %q", promoted.Key)
	}
	assertSameNode(t, n, NewNode(items("a", "1", "b", "2"), []PageNum{10, 11, 12}))
	assertSameNode(t, right, NewNode(items("d", "4"), []PageNum{13, 14}))
}

func TestSplitLeafDoesNotAlias(t *testing.T) {
	n := NewNode(items("a", "1", "b", "2", "c", "3"), []PageNum{})

	_, right := n.Split(1)
	n.addItem(NewItem([]byte("aa"), nil), 1)

	if string(right.Items[0].Key) != "c" {
		t.Fatalf("right node changed to %q", right.Items[0].Key)
	}
}

func TestSplitProperty(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	d := thresholdDAL(4096, 0.5, 0.95)

	splits := 0
	for i := 0; i < 500; i++ {
		n := randomNode(r, i%2 == 0, 40)
		if !d.IsOverPopulated(n) {
			continue
		}

		index := d.GetSplitIndex(n)
		if index == -1 {
			continue
		}
		splits++

		total := len(n.Items)
		promoted, right := n.Split(index)

		for _, part := range []*Node{n, right} {
			if d.IsOverPopulated(part) {
				t.Fatalf("part of %d bytes still over-populated", part.footprint())
			}
			if part.EncodedSize() > d.PageSize() {
				t.Fatalf("part of %d bytes does not fit", part.EncodedSize())
			}
			if !part.IsLeaf() && len(part.Children) != len(part.Items)+1 {
				t.Fatalf("%d items with %d children", len(part.Items), len(part.Children))
			}
		}

		if len(n.Items) == 0 {
			t.Fatal("empty left part")
		}
		if len(right.Items) == 0 && index != total-1 {
			t.Fatalf("empty right part after split at %d of %d", index, total)
		}
		if float64(n.footprint()-PageNumSize) <= d.MinThreshold() {
			t.Fatalf("left part of %d bytes not above minimum", n.footprint())
		}
		if len(n.Items)+len(right.Items)+1 != total {
			t.Fatalf("lost items: %d + %d + 1 != %d", len(n.Items), len(right.Items), total)
		}
		if bytes.Compare(n.Items[len(n.Items)-1].Key, promoted.Key) >= 0 ||
			(len(right.Items) > 0 && bytes.Compare(promoted.Key, right.Items[0].Key) >= 0) {
			t.Fatal("promoted key out of order")
		}
	}

	if splits == 0 {
		t.Fatal("no node was split")
	}
}
