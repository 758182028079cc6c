package storage

import "errors"

func (c *Collection) setRoot(num PageNum) error {
	meta := c.dal.Meta()
	meta.Root = num
	if err := c.dal.WriteMeta(&meta); err != nil {
		return err
	}

	c.root = num
	return nil
}

// release returns a page to the free list. A full free list leaks the page rather than
// failing a removal that has already been written.
func (c *Collection) release(num PageNum) error {
	err := c.dal.DeleteNode(num)
	if errors.Is(err, ErrFreeListFull) {
		c.dal.log.Warnf("free list full, page %d not reclaimed", num)
		return nil
	}
	return err
}
