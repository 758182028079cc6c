package storage

import "bytes"

// Put inserts key or overwrites its value. Nodes on the path that end up over-populated are
// split bottom-up; splitting the root grows the tree by one level. A node is only written
// once it is within its threshold or has no usable split point.
func (c *Collection) Put(key, value []byte) error {
	item := NewItem(key, value)
	if err := c.dal.CheckItem(item); err != nil {
		return err
	}

	root, err := c.dal.GetNode(c.root)
	if err != nil {
		return err
	}

	index, node, p, err := root.findKey(c.dal, key, false)
	if err != nil {
		return err
	}

	if index < len(node.Items) && bytes.Equal(node.Items[index].Key, key) {
		node.Items[index] = item
	} else {
		node.addItem(item, index)
	}

	dirty := make([]bool, len(p.nodes))
	dirty[len(dirty)-1] = true

	for i := len(p.nodes) - 2; i >= 0; i-- {
		parent := p.nodes[i]
		child := p.nodes[i+1]

		if c.dal.IsOverPopulated(child) {
			split, err := c.split(parent, child, p.indexes[i+1])
			if err != nil {
				return err
			}
			if split {
				dirty[i] = true
				continue
			}
		}

		if dirty[i+1] {
			if _, err := c.dal.WriteNode(child); err != nil {
				return err
			}
		}
	}

	grown := false
	if rootNode := p.nodes[0]; c.dal.IsOverPopulated(rootNode) {
		if grown, err = c.growRoot(rootNode); err != nil {
			return err
		}
	}
	if !grown && dirty[0] {
		if _, err := c.dal.WriteNode(p.nodes[0]); err != nil {
			return err
		}
	}

	return c.dal.FlushFreeList()
}
