package storage

// Split cuts n at index. n keeps the items before index (and their children), the returned
// node takes the items after it, and the item at index is handed back for the parent.
func (n *Node) Split(index int) (Item, *Node) {
	promoted := n.Items[index]

	rightItems := append([]Item(nil), n.Items[index+1:]...)

	var right *Node
	if n.IsLeaf() {
		right = NewNode(rightItems, []PageNum{})
	} else {
		rightChildren := append([]PageNum(nil), n.Children[index+1:]...)
		right = NewNode(rightItems, rightChildren)
		n.Children = n.Children[:index+1]
	}

	n.Items = n.Items[:index]
	return promoted, right
}

// GetSplitIndex returns the smallest index at which n can be split so that the left part
// holds more than the minimum threshold while neither part exceeds the maximum threshold.
// The left part keeps at least one item; the right part is empty when the index is the
// last one. It returns -1 when no such index exists.
func (d *DataAccessLayer) GetSplitIndex(n *Node) int {
	total := n.footprint()

	size := NodeHeaderSize
	for i := range n.Items {
		if i > 0 && float64(size) > d.MinThreshold() {
			if float64(size+PageNumSize) > d.MaxThreshold() {
				return -1
			}

			right := total - size - n.cellSize(i) + NodeHeaderSize
			if float64(right) <= d.MaxThreshold() {
				return i
			}
		}
		size += n.cellSize(i)
	}

	return -1
}

// split moves the items after the split point of child into a new sibling placed right after
// it in parent, and the separating item into parent. child and the sibling are written,
// parent is left to the caller. It reports false when child has no usable split point.
func (c *Collection) split(parent, child *Node, childIndex int) (bool, error) {
	splitIndex := c.dal.GetSplitIndex(child)
	if splitIndex == -1 {
		num, _ := child.PageNum()
		c.dal.log.Debugf("node %d over-populated (%d bytes) but has no split point", num, child.Size())
		return false, nil
	}

	promoted, sibling := child.Split(splitIndex)

	siblingNum, err := c.dal.WriteNode(sibling)
	if err != nil {
		return false, err
	}
	if _, err := c.dal.WriteNode(child); err != nil {
		return false, err
	}

	parent.addItem(promoted, childIndex)
	parent.addChild(siblingNum, childIndex+1)
	return true, nil
}

// growRoot splits the root under a new root holding only the separating item.
func (c *Collection) growRoot(oldRoot *Node) (bool, error) {
	oldNum, _ := oldRoot.PageNum()
	newRoot := c.dal.NewNode([]Item{}, []PageNum{oldNum})

	split, err := c.split(newRoot, oldRoot, 0)
	if err != nil || !split {
		return false, err
	}

	newNum, err := c.dal.WriteNode(newRoot)
	if err != nil {
		return false, err
	}
	if err := c.setRoot(newNum); err != nil {
		return false, err
	}

	c.dal.log.Debugf("root split: %d -> %d", oldNum, newNum)
	return true, nil
}
