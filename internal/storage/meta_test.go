package storage

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestMetaDefaults(t *testing.T) {
	m := NewMeta()
	if m.Root != 2 || m.FreeListPage != 1 {
		t.Fatalf("got %+v", m)
	}
}

func TestMetaRoundTrip(t *testing.T) {
	for _, want := range []Meta{
		{Root: 2, FreeListPage: 1},
		{Root: 1 << 40, FreeListPage: 3},
		{Root: math.MaxUint64, FreeListPage: math.MaxUint64 - 1},
	} {
		buf := make([]byte, 64)
		if err := want.Serialize(buf); err != nil {
			t.Fatal(err)
		}

		got, err := DeserializeMeta(buf)
		if err != nil {
			t.Fatal(err)
		}
		if *got != want {
			t.Fatalf("got %+v, want %+v", *got, want)
		}
	}
}

func TestMetaLayout(t *testing.T) {
	buf := make([]byte, 16)
	m := Meta{Root: 2, FreeListPage: 1}
	if err := m.Serialize(buf); err != nil {
		t.Fatal(err)
	}

	want := []byte{2, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0}
	if !reflect.DeepEqual(buf, want) {
		t.Fatalf("got % x", buf)
	}
}

func TestMetaErrors(t *testing.T) {
	m := NewMeta()
	if err := m.Serialize(make([]byte, 15)); !errors.Is(err, ErrPageBounds) {
		t.Fatalf("serialize into short buffer: got %v", err)
	}

	if _, err := DeserializeMeta(make([]byte, 8)); !errors.Is(err, ErrCorruptMeta) {
		t.Fatalf("short buffer: got %v", err)
	}
	if _, err := DeserializeMeta(make([]byte, 16)); !errors.Is(err, ErrCorruptMeta) {
		t.Fatalf("zeroed meta: got %v", err)
	}
}
