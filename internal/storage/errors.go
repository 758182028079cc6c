package storage

import (
	"errors"
	"fmt"
)

var (
	// kinds
	ErrIO       = errors.New("i/o error")
	ErrFormat   = errors.New("format error")
	ErrCapacity = errors.New("capacity exceeded")

	// format
	ErrShortRead       = fmt.Errorf("%w: short page read", ErrFormat)
	ErrPageBounds      = fmt.Errorf("%w: access outside page bounds", ErrFormat)
	ErrCorruptFile     = fmt.Errorf("%w: file is corrupt", ErrFormat)
	ErrCorruptMeta     = fmt.Errorf("%w: meta page is corrupt", ErrFormat)
	ErrCorruptFreeList = fmt.Errorf("%w: free list is corrupt", ErrFormat)
	ErrCorruptNode     = fmt.Errorf("%w: node is corrupt", ErrFormat)

	// capacity
	ErrKeyTooLarge   = fmt.Errorf("%w: key longer than %d bytes", ErrCapacity, MaxItemFieldSize)
	ErrValueTooLarge = fmt.Errorf("%w: value longer than %d bytes", ErrCapacity, MaxItemFieldSize)
	ErrFreeListFull  = fmt.Errorf("%w: free list cannot track more released pages", ErrCapacity)
	ErrPageLimit     = fmt.Errorf("%w: no page numbers left", ErrCapacity)
	ErrNodeOverflow  = fmt.Errorf("%w: node does not fit in a page", ErrCapacity)

	ErrInvalidPageNum = errors.New("invalid page number")
	ErrInvalidOptions = errors.New("invalid options")
	ErrKeyNotFound    = errors.New("key not found")
	ErrClosed         = errors.New("data access layer is closed")
)

// ioErr tags err as ErrIO while keeping the OS error reachable through errors.Is/As.
func ioErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrIO, op, err)
}
