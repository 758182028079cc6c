package storage

import "fmt"

// Remove deletes key. Nodes are never merged or rebalanced: a key held by an internal node
// is replaced with its in-order predecessor, subtrees left without any item are unlinked and
// their pages released, and an internal root without items collapses onto its only child.
func (c *Collection) Remove(key []byte) error {
	root, err := c.dal.GetNode(c.root)
	if err != nil {
		return err
	}

	index, node, err := root.Find(c.dal, key)
	if err != nil {
		return err
	}
	if node == nil {
		return fmt.Errorf("%w: %q", ErrKeyNotFound, key)
	}

	if node.IsLeaf() {
		node.removeItem(index)
	} else {
		pred, err := c.removeMax(node.Children[index])
		if err != nil {
			return err
		}

		if pred != nil {
			node.Items[index] = *pred
		} else {
			node.removeItem(index)
			if err := c.releaseSubtree(node.removeChild(index)); err != nil {
				return err
			}
		}
	}

	if _, err := c.dal.WriteNode(node); err != nil {
		return err
	}

	if err := c.shrinkRoot(); err != nil {
		return err
	}
	return c.dal.FlushFreeList()
}

// removeMax removes and returns the greatest item of the subtree at num, or nil when the
// subtree holds no items.
func (c *Collection) removeMax(num PageNum) (*Item, error) {
	n, err := c.dal.GetNode(num)
	if err != nil {
		return nil, err
	}

	if n.IsLeaf() {
		if len(n.Items) == 0 {
			return nil, nil
		}
		item := n.removeItem(len(n.Items) - 1)
		if _, err := c.dal.WriteNode(n); err != nil {
			return nil, err
		}
		return &item, nil
	}

	item, err := c.removeMax(n.Children[len(n.Children)-1])
	if err != nil || item != nil {
		return item, err
	}

	if len(n.Items) == 0 {
		return nil, nil
	}

	last := n.removeItem(len(n.Items) - 1)
	if err := c.releaseSubtree(n.removeChild(len(n.Children) - 1)); err != nil {
		return nil, err
	}
	if _, err := c.dal.WriteNode(n); err != nil {
		return nil, err
	}
	return &last, nil
}

func (c *Collection) shrinkRoot() error {
	root, err := c.dal.GetNode(c.root)
	if err != nil {
		return err
	}

	num := c.root
	for !root.IsLeaf() && len(root.Items) == 0 {
		if err := c.release(num); err != nil {
			return err
		}

		num = root.Children[0]
		if root, err = c.dal.GetNode(num); err != nil {
			return err
		}
	}

	if num == c.root {
		return nil
	}
	c.dal.log.Debugf("root collapsed: %d -> %d", c.root, num)
	return c.setRoot(num)
}

func (c *Collection) releaseSubtree(num PageNum) error {
	n, err := c.dal.GetNode(num)
	if err != nil {
		return err
	}

	for _, child := range n.Children {
		if err := c.releaseSubtree(child); err != nil {
			return err
		}
	}
	return c.release(num)
}
