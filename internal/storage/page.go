package storage

import "fmt"

type PageNum uint64

const (
	PageNumSize = 8

	// Page 0 always holds the meta record.
	MetaPageNum PageNum = 0

	MinPageSize = 64
	// Cell offsets inside a node page are stored as u16.
	MaxPageSize = 1 << 16
)

// Page is a fixed-size buffer tagged with the page number it is read from or written to.
type Page struct {
	Num    PageNum
	Data   []byte
	cursor int
}

func NewPage(pageSize int) *Page {
	return &Page{
		Data: make([]byte, pageSize),
	}
}

func NewPageWithNum(pageSize int, num PageNum) *Page {
	p := NewPage(pageSize)
	p.Num = num
	return p
}

func (p *Page) Size() int {
	return len(p.Data)
}

// ReadAt returns the n bytes starting at off. The slice aliases the page buffer.
func (p *Page) ReadAt(off, n int) ([]byte, error) {
	if off < 0 || n < 0 || off+n > len(p.Data) {
		return nil, fmt.Errorf("%w: read [%d,%d) of page %d (size %d)", ErrPageBounds, off, off+n, p.Num, len(p.Data))
	}
	return p.Data[off : off+n], nil
}

func (p *Page) WriteAt(off int, b []byte) error {
	if off < 0 || off+len(b) > len(p.Data) {
		return fmt.Errorf("%w: write [%d,%d) of page %d (size %d)", ErrPageBounds, off, off+len(b), p.Num, len(p.Data))
	}
	copy(p.Data[off:], b)
	return nil
}

// Append writes b at the cursor and advances it.
func (p *Page) Append(b []byte) error {
	if err := p.WriteAt(p.cursor, b); err != nil {
		return err
	}
	p.cursor += len(b)
	return nil
}

func (p *Page) Seek(off int) {
	p.cursor = off
}

func (p *Page) Cursor() int {
	return p.cursor
}
