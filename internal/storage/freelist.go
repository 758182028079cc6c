package storage

import (
	"encoding/binary"
	"fmt"
	"math"
)

const (
	freeListHeaderSize = 4

	// max_page is persisted as u16.
	maxTrackedPage PageNum = math.MaxUint16
)

// FreeList hands out page numbers. Released pages are reused before the file grows.
type FreeList struct {
	// maxPage holds the latest page number allocated.
	maxPage PageNum
	// releasedPages is used as a stack; the most recently released page is reused first.
	releasedPages []PageNum
	capacity      int
}

// NewFreeList returns an empty free list whose released pages must fit in one page of pageSize.
func NewFreeList(pageSize int) *FreeList {
	return &FreeList{
		maxPage:  MetaPageNum,
		capacity: freeListCapacity(pageSize),
	}
}

func freeListCapacity(pageSize int) int {
	c := (pageSize - freeListHeaderSize) / PageNumSize
	if c > math.MaxUint16 {
		c = math.MaxUint16
	}
	if c < 0 {
		return 0
	}
	return c
}

func (fl *FreeList) MaxPage() PageNum {
	return fl.maxPage
}

func (fl *FreeList) ReleasedPages() []PageNum {
	return append([]PageNum(nil), fl.releasedPages...)
}

func (fl *FreeList) GetNextPage() (PageNum, error) {
	if n := len(fl.releasedPages); n > 0 {
		page := fl.releasedPages[n-1]
		fl.releasedPages = fl.releasedPages[:n-1]
		return page, nil
	}

	if fl.maxPage >= maxTrackedPage {
		return 0, ErrPageLimit
	}
	fl.maxPage++
	return fl.maxPage, nil
}

// ReleasePage does not detect double releases; callers must only release pages in use.
func (fl *FreeList) ReleasePage(num PageNum) error {
	if num == MetaPageNum || num > fl.maxPage {
		return fmt.Errorf("%w: release of page %d (max page %d)", ErrInvalidPageNum, num, fl.maxPage)
	}
	if len(fl.releasedPages) >= fl.capacity {
		return ErrFreeListFull
	}
	fl.releasedPages = append(fl.releasedPages, num)
	return nil
}

func (fl *FreeList) Serialize(buf []byte) error {
	need := freeListHeaderSize + len(fl.releasedPages)*PageNumSize
	if need > len(buf) {
		return fmt.Errorf("%w: %d released pages need %d bytes, page has %d", ErrFreeListFull, len(fl.releasedPages), need, len(buf))
	}

	pos := 0
	binary.LittleEndian.PutUint16(buf[pos:], uint16(fl.maxPage))
	pos += 2

	binary.LittleEndian.PutUint16(buf[pos:], uint16(len(fl.releasedPages)))
	pos += 2

	for _, page := range fl.releasedPages {
		binary.LittleEndian.PutUint64(buf[pos:], uint64(page))
		pos += PageNumSize
	}
	return nil
}

func DeserializeFreeList(buf []byte) (*FreeList, error) {
	if len(buf) < freeListHeaderSize {
		return nil, fmt.Errorf("%w: buffer of %d bytes", ErrCorruptFreeList, len(buf))
	}

	fl := NewFreeList(len(buf))

	pos := 0
	fl.maxPage = PageNum(binary.LittleEndian.Uint16(buf[pos:]))
	pos += 2

	count := int(binary.LittleEndian.Uint16(buf[pos:]))
	pos += 2

	if pos+count*PageNumSize > len(buf) {
		return nil, fmt.Errorf("%w: %d released pages overrun the page", ErrCorruptFreeList, count)
	}

	fl.releasedPages = make([]PageNum, 0, count)
	for i := 0; i < count; i++ {
		page := PageNum(binary.LittleEndian.Uint64(buf[pos:]))
		pos += PageNumSize

		if page == MetaPageNum || page > fl.maxPage {
			return nil, fmt.Errorf("%w: released page %d outside [1,%d]", ErrCorruptFreeList, page, fl.maxPage)
		}
		fl.releasedPages = append(fl.releasedPages, page)
	}

	return fl, nil
}
