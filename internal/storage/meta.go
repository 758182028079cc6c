package storage

import (
	"encoding/binary"
	"fmt"
)

const metaSize = 2 * PageNumSize

// Meta lives on page 0 and points at the tree root and the free list page.
type Meta struct {
	Root         PageNum
	FreeListPage PageNum
}

func NewMeta() *Meta {
	return &Meta{
		Root:         2,
		FreeListPage: 1,
	}
}

func (m *Meta) Serialize(buf []byte) error {
	if len(buf) < metaSize {
		return fmt.Errorf("%w: meta needs %d bytes, have %d", ErrPageBounds, metaSize, len(buf))
	}

	pos := 0
	binary.LittleEndian.PutUint64(buf[pos:], uint64(m.Root))
	pos += PageNumSize

	binary.LittleEndian.PutUint64(buf[pos:], uint64(m.FreeListPage))
	return nil
}

func DeserializeMeta(buf []byte) (*Meta, error) {
	if len(buf) < metaSize {
		return nil, fmt.Errorf("%w: buffer of %d bytes", ErrCorruptMeta, len(buf))
	}

	m := &Meta{}

	pos := 0
	m.Root = PageNum(binary.LittleEndian.Uint64(buf[pos:]))
	pos += PageNumSize

	m.FreeListPage = PageNum(binary.LittleEndian.Uint64(buf[pos:]))

	if m.Root == MetaPageNum || m.FreeListPage == MetaPageNum || m.Root == m.FreeListPage {
		return nil, fmt.Errorf("%w: root %d, free list %d", ErrCorruptMeta, m.Root, m.FreeListPage)
	}
	return m, nil
}
