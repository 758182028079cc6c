package storage

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"go.pagestore/internal/logger"
)

// DataAccessLayer owns the database file, the meta record and the free list. It is the only
// place that touches the file and the only place pages are turned into typed records.
// It is not safe for concurrent use.
type DataAccessLayer struct {
	path string
	file *os.File
	opts Options
	log  *logger.Logger

	meta          *Meta
	freeList      *FreeList
	freeListDirty bool

	cache  *pageCache
	closed bool
}

// Open loads the database at path, creating and initialising it when it does not exist.
func Open(path string, opts Options, log *logger.Logger) (*DataAccessLayer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	d := &DataAccessLayer{
		path: path,
		opts: opts,
		log:  log,
	}

	if opts.CachePages > 0 {
		c, err := newPageCache(opts.CachePages)
		if err != nil {
			return nil, err
		}
		d.cache = c
	}

	_, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		err = d.initialize()
	case err != nil:
		err = ioErr("stat "+path, err)
	default:
		err = d.load()
	}

	if err != nil {
		d.cache.close()
		return nil, err
	}
	return d, nil
}

func (d *DataAccessLayer) initialize() error {
	if dir := filepath.Dir(d.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return ioErr("create directory "+dir, err)
		}
	}

	f, err := os.OpenFile(d.path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o666)
	if err != nil {
		return ioErr("create "+d.path, err)
	}
	d.file = f

	if err := d.writeInitialPages(); err != nil {
		_ = f.Close()
		_ = os.Remove(d.path)
		return fmt.Errorf("initialize %s: %w", d.path, err)
	}

	d.log.Infof("created database %s (page size %d)", d.path, d.opts.PageSize)
	return nil
}

func (d *DataAccessLayer) writeInitialPages() error {
	d.freeList = NewFreeList(d.opts.PageSize)

	freeListPage, err := d.freeList.GetNextPage()
	if err != nil {
		return err
	}
	d.meta = &Meta{FreeListPage: freeListPage}

	root, err := d.WriteNode(NewNode([]Item{}, []PageNum{}))
	if err != nil {
		return err
	}
	d.meta.Root = root

	if err := d.WriteFreeList(); err != nil {
		return err
	}
	return d.WriteMeta(d.meta)
}

func (d *DataAccessLayer) load() error {
	f, err := os.OpenFile(d.path, os.O_RDWR, 0o666)
	if err != nil {
		return ioErr("open "+d.path, err)
	}
	d.file = f

	if err := d.readInitialPages(); err != nil {
		_ = f.Close()
		return fmt.Errorf("load %s: %w", d.path, err)
	}

	d.log.Infof("loaded database %s (root %d, free list %d, max page %d)",
		d.path, d.meta.Root, d.meta.FreeListPage, d.freeList.MaxPage())
	return nil
}

func (d *DataAccessLayer) readInitialPages() error {
	info, err := d.file.Stat()
	if err != nil {
		return ioErr("stat "+d.path, err)
	}

	size := info.Size()
	if size == 0 || size%int64(d.opts.PageSize) != 0 {
		return fmt.Errorf("%w: size %d is not a multiple of page size %d", ErrCorruptFile, size, d.opts.PageSize)
	}

	meta, err := d.ReadMeta()
	if err != nil {
		return err
	}
	d.meta = meta

	freeList, err := d.ReadFreeList()
	if err != nil {
		return err
	}
	d.freeList = freeList

	if meta.Root > freeList.MaxPage() || meta.FreeListPage > freeList.MaxPage() {
		return fmt.Errorf("%w: root %d / free list %d beyond max page %d",
			ErrCorruptMeta, meta.Root, meta.FreeListPage, freeList.MaxPage())
	}
	return nil
}

// Close persists pending allocation state, syncs and closes the file.
func (d *DataAccessLayer) Close() error {
	if d.closed {
		return nil
	}

	var errs []error
	if err := d.FlushFreeList(); err != nil {
		errs = append(errs, err)
	}
	if err := d.file.Sync(); err != nil {
		errs = append(errs, ioErr("sync "+d.path, err))
	}
	if err := d.file.Close(); err != nil {
		errs = append(errs, ioErr("close "+d.path, err))
	}

	d.cache.close()
	d.closed = true
	return errors.Join(errs...)
}

func (d *DataAccessLayer) Path() string {
	return d.path
}

func (d *DataAccessLayer) PageSize() int {
	return d.opts.PageSize
}

// Meta returns a copy of the in-memory meta record.
func (d *DataAccessLayer) Meta() Meta {
	return *d.meta
}

func (d *DataAccessLayer) FreeList() *FreeList {
	return d.freeList
}

func (d *DataAccessLayer) AllocateEmptyPage() *Page {
	return NewPage(d.opts.PageSize)
}

func (d *DataAccessLayer) AllocateEmptyPageWithNum(num PageNum) *Page {
	return NewPageWithNum(d.opts.PageSize, num)
}

func (d *DataAccessLayer) offset(num PageNum) (int64, error) {
	if uint64(num) > uint64(math.MaxInt64/int64(d.opts.PageSize)) {
		return 0, fmt.Errorf("%w: page %d beyond addressable file size", ErrInvalidPageNum, num)
	}
	return int64(num) * int64(d.opts.PageSize), nil
}

func (d *DataAccessLayer) ReadPage(num PageNum) (*Page, error) {
	if d.closed {
		return nil, ErrClosed
	}

	if data, ok := d.cache.get(num); ok {
		return &Page{Num: num, Data: data}, nil
	}

	off, err := d.offset(num)
	if err != nil {
		return nil, err
	}

	p := d.AllocateEmptyPageWithNum(num)
	n, err := d.file.ReadAt(p.Data, off)
	if n < len(p.Data) {
		if err == nil || errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: page %d: read %d of %d bytes", ErrShortRead, num, n, len(p.Data))
		}
		return nil, ioErr(fmt.Sprintf("read page %d", num), err)
	}

	d.cache.put(num, p.Data)
	return p, nil
}

func (d *DataAccessLayer) WritePage(p *Page) error {
	if d.closed {
		return ErrClosed
	}
	if len(p.Data) != d.opts.PageSize {
		return fmt.Errorf("%w: page %d has %d bytes, want %d", ErrPageBounds, p.Num, len(p.Data), d.opts.PageSize)
	}

	off, err := d.offset(p.Num)
	if err != nil {
		return err
	}

	if _, err := d.file.WriteAt(p.Data, off); err != nil {
		return ioErr(fmt.Sprintf("write page %d", p.Num), err)
	}

	d.cache.put(p.Num, p.Data)
	return nil
}

func (d *DataAccessLayer) ReadMeta() (*Meta, error) {
	p, err := d.ReadPage(MetaPageNum)
	if err != nil {
		return nil, err
	}
	return DeserializeMeta(p.Data)
}

// WriteMeta persists meta and makes it the in-memory meta record.
func (d *DataAccessLayer) WriteMeta(meta *Meta) error {
	p := d.AllocateEmptyPageWithNum(MetaPageNum)
	if err := meta.Serialize(p.Data); err != nil {
		return err
	}
	if err := d.WritePage(p); err != nil {
		return err
	}

	d.meta = meta
	return nil
}

func (d *DataAccessLayer) ReadFreeList() (*FreeList, error) {
	p, err := d.ReadPage(d.meta.FreeListPage)
	if err != nil {
		return nil, err
	}
	return DeserializeFreeList(p.Data)
}

func (d *DataAccessLayer) WriteFreeList() error {
	p := d.AllocateEmptyPageWithNum(d.meta.FreeListPage)
	if err := d.freeList.Serialize(p.Data); err != nil {
		return err
	}
	if err := d.WritePage(p); err != nil {
		return err
	}

	d.freeListDirty = false
	return nil
}

// FlushFreeList writes the free list only if pages were allocated or released since the
// last write.
func (d *DataAccessLayer) FlushFreeList() error {
	if !d.freeListDirty {
		return nil
	}
	return d.WriteFreeList()
}

func (d *DataAccessLayer) NewNode(items []Item, children []PageNum) *Node {
	return NewNode(items, children)
}

func (d *DataAccessLayer) GetNode(num PageNum) (*Node, error) {
	p, err := d.ReadPage(num)
	if err != nil {
		return nil, err
	}

	n, err := DeserializeNode(p.Data)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", num, err)
	}

	n.setPageNum(num)
	return n, nil
}

// WriteNode persists n, assigning it a page first when it has none, and returns its page
// number. The node is encoded before a page is allocated so a node that cannot fit never
// consumes one. A new allocation only reaches the free list page on FlushFreeList or Close;
// callers writing nodes directly must flush. Collection operations flush when they finish.
func (d *DataAccessLayer) WriteNode(n *Node) (PageNum, error) {
	if d.closed {
		return 0, ErrClosed
	}
	p := d.AllocateEmptyPage()
	if err := n.Serialize(p.Data); err != nil {
		return 0, err
	}

	num, ok := n.PageNum()
	if !ok {
		next, err := d.freeList.GetNextPage()
		if err != nil {
			return 0, err
		}
		d.freeListDirty = true
		d.log.Debugf("allocated page %d", next)

		num = next
		n.setPageNum(num)
	} else if num == MetaPageNum || num == d.meta.FreeListPage {
		return 0, fmt.Errorf("%w: node cannot be written to reserved page %d", ErrInvalidPageNum, num)
	}

	p.Num = num
	if err := d.WritePage(p); err != nil {
		return 0, err
	}
	return num, nil
}

// DeleteNode hands the page back to the free list. The page contents are left as they are.
// Like WriteNode, the release stays in memory until FlushFreeList or Close.
func (d *DataAccessLayer) DeleteNode(num PageNum) error {
	if d.closed {
		return ErrClosed
	}
	if num == d.meta.FreeListPage {
		return fmt.Errorf("%w: page %d holds the free list", ErrInvalidPageNum, num)
	}
	if err := d.freeList.ReleasePage(num); err != nil {
		return err
	}

	d.freeListDirty = true
	d.log.Debugf("released page %d", num)
	return nil
}

// CheckItem rejects an item that would not fit a page even as the only item of an internal
// node, so a Put fails before anything is written.
func (d *DataAccessLayer) CheckItem(it Item) error {
	if err := it.Validate(); err != nil {
		return err
	}
	if size := NewNode([]Item{it}, []PageNum{0, 0}).EncodedSize(); size > d.opts.PageSize {
		return fmt.Errorf("%w: item needs %d bytes, page has %d", ErrNodeOverflow, size, d.opts.PageSize)
	}
	return nil
}

func (d *DataAccessLayer) MaxThreshold() float64 {
	return d.opts.MaxFillPercent * float64(d.opts.PageSize)
}

func (d *DataAccessLayer) MinThreshold() float64 {
	return d.opts.MinFillPercent * float64(d.opts.PageSize)
}

// IsOverPopulated measures n by the larger of its nominal and encoded size, so a node that
// is not over-populated always fits in a page.
func (d *DataAccessLayer) IsOverPopulated(n *Node) bool {
	return float64(n.footprint()) > d.MaxThreshold()
}

func (d *DataAccessLayer) IsUnderPopulated(n *Node) bool {
	return float64(n.Size()) < d.MinThreshold()
}
