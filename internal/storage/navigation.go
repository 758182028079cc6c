package storage

// Find looks key up in the subtree rooted at n. It returns the index of the item and the node
// holding it, or a nil node when the key is absent.
func (n *Node) Find(r NodeReader, key []byte) (int, *Node, error) {
	index, node, _, err := n.findKey(r, key, true)
	return index, node, err
}

// path is the route findKey took: the nodes visited from the root down and the child index
// taken to reach each of them (0 for the root itself).
type path struct {
	nodes   []*Node
	indexes []int
}

// findKey descends towards key. With exact unset, a miss returns the leaf where key belongs
// and the insertion index instead of a nil node.
func (n *Node) findKey(r NodeReader, key []byte, exact bool) (int, *Node, path, error) {
	p := path{nodes: []*Node{n}, indexes: []int{0}}

	node := n
	for {
		found, index := node.findKeyInNode(key)
		if found {
			return index, node, p, nil
		}

		if node.IsLeaf() {
			if exact {
				return -1, nil, p, nil
			}
			return index, node, p, nil
		}

		child, err := r.GetNode(node.Children[index])
		if err != nil {
			return -1, nil, path{}, err
		}
		p.nodes = append(p.nodes, child)
		p.indexes = append(p.indexes, index)
		node = child
	}
}
