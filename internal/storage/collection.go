package storage

import "fmt"

// Collection is a B-tree of key/value items rooted at the page recorded in the meta record.
type Collection struct {
	name []byte
	root PageNum
	dal  *DataAccessLayer
}

func NewCollection(name []byte, dal *DataAccessLayer) *Collection {
	return &Collection{
		name: name,
		root: dal.Meta().Root,
		dal:  dal,
	}
}

func (c *Collection) Name() []byte {
	return c.name
}

func (c *Collection) Root() PageNum {
	return c.root
}

// Find returns the item stored under key, or nil when there is none.
func (c *Collection) Find(key []byte) (*Item, error) {
	root, err := c.dal.GetNode(c.root)
	if err != nil {
		return nil, err
	}

	index, node, err := root.Find(c.dal, key)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, nil
	}

	item := node.Items[index]
	return &item, nil
}

// GetNodes follows child indexes from the root and returns every node on the way.
// indexes[0] stands for the root itself:
//
//	          p
//	      /       \
//	    a          b
//	 /     \     /   \
//	c       d   e     f
//
// [0,1,0] -> p, b, e
func (c *Collection) GetNodes(indexes []int) ([]*Node, error) {
	root, err := c.dal.GetNode(c.root)
	if err != nil {
		return nil, err
	}

	nodes := []*Node{root}
	for i := 1; i < len(indexes); i++ {
		parent := nodes[i-1]
		if indexes[i] < 0 || indexes[i] >= len(parent.Children) {
			num, _ := parent.PageNum()
			return nil, fmt.Errorf("%w: node %d has no child %d", ErrCorruptNode, num, indexes[i])
		}

		child, err := c.dal.GetNode(parent.Children[indexes[i]])
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, child)
	}
	return nodes, nil
}

// Walk visits every node depth-first, parents before children.
func (c *Collection) Walk(fn func(n *Node, depth int) error) error {
	return c.walk(c.root, 0, fn)
}

func (c *Collection) walk(num PageNum, depth int, fn func(*Node, int) error) error {
	n, err := c.dal.GetNode(num)
	if err != nil {
		return err
	}
	if err := fn(n, depth); err != nil {
		return err
	}

	for _, child := range n.Children {
		if err := c.walk(child, depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}

type Stats struct {
	Depth    int
	Nodes    int
	Leaves   int
	Items    int
	MaxBytes int
}

func (c *Collection) Stats() (Stats, error) {
	var s Stats
	err := c.Walk(func(n *Node, depth int) error {
		s.Nodes++
		s.Items += len(n.Items)
		if n.IsLeaf() {
			s.Leaves++
		}
		if depth+1 > s.Depth {
			s.Depth = depth + 1
		}
		if size := n.EncodedSize(); size > s.MaxBytes {
			s.MaxBytes = size
		}
		return nil
	})
	return s, err
}
