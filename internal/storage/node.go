package storage

import (
	"bytes"
	"fmt"
)

const (
	// leaf flag (1 byte) + item count (2 bytes)
	NodeHeaderSize = 3

	// Key and value lengths are stored in a single byte.
	MaxItemFieldSize = 255
)

type Item struct {
	Key   []byte
	Value []byte
}

func NewItem(key, value []byte) Item {
	return Item{Key: key, Value: value}
}

func (it Item) Validate() error {
	if len(it.Key) > MaxItemFieldSize {
		return fmt.Errorf("%w: %d bytes", ErrKeyTooLarge, len(it.Key))
	}
	if len(it.Value) > MaxItemFieldSize {
		return fmt.Errorf("%w: %d bytes", ErrValueTooLarge, len(it.Value))
	}
	return nil
}

// Size counts the key, the value and the child pointer interleaved with the item.
func (it Item) Size() int {
	return len(it.Key) + len(it.Value) + PageNumSize
}

// Node is a detached B-tree node. It holds no reference to the storage that produced it;
// anything that needs to read children takes a NodeReader.
type Node struct {
	Items    []Item
	Children []PageNum

	pageNum  PageNum
	assigned bool
}

// NodeReader loads nodes by page number.
type NodeReader interface {
	GetNode(num PageNum) (*Node, error)
}

func NewNode(items []Item, children []PageNum) *Node {
	return &Node{
		Items:    items,
		Children: children,
	}
}

// PageNum reports the page backing this node and whether one has been assigned yet.
func (n *Node) PageNum() (PageNum, bool) {
	return n.pageNum, n.assigned
}

func (n *Node) setPageNum(num PageNum) {
	n.pageNum = num
	n.assigned = true
}

func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

func (n *Node) ItemSize(i int) int {
	return n.Items[i].Size()
}

func (n *Node) Size() int {
	size := NodeHeaderSize
	for _, it := range n.Items {
		size += it.Size()
	}
	return size + PageNumSize
}

// cellSize is what item i costs towards the fill thresholds. Item.Size covers leaf cells,
// internal cells also pay for the offset and the two length bytes.
func (n *Node) cellSize(i int) int {
	size := n.ItemSize(i)
	if !n.IsLeaf() {
		size += offsetSize + 2
	}
	return size
}

// footprint is the larger of Size and EncodedSize.
func (n *Node) footprint() int {
	size := NodeHeaderSize
	for i := range n.Items {
		size += n.cellSize(i)
	}
	return size + PageNumSize
}

// addItem inserts item at index and returns the index.
func (n *Node) addItem(item Item, index int) int {
	if index == len(n.Items) {
		n.Items = append(n.Items, item)
		return index
	}

	n.Items = append(n.Items, Item{})
	copy(n.Items[index+1:], n.Items[index:])
	n.Items[index] = item
	return index
}

func (n *Node) removeItem(index int) Item {
	item := n.Items[index]
	n.Items = append(n.Items[:index], n.Items[index+1:]...)
	return item
}

func (n *Node) addChild(child PageNum, index int) {
	if index == len(n.Children) {
		n.Children = append(n.Children, child)
		return
	}

	n.Children = append(n.Children, 0)
	copy(n.Children[index+1:], n.Children[index:])
	n.Children[index] = child
}

func (n *Node) removeChild(index int) PageNum {
	child := n.Children[index]
	n.Children = append(n.Children[:index], n.Children[index+1:]...)
	return child
}

// findKeyInNode scans the items in order. On a miss the index is where key would be
// inserted, which is also the child to descend into.
func (n *Node) findKeyInNode(key []byte) (bool, int) {
	for i, it := range n.Items {
		switch bytes.Compare(it.Key, key) {
		case 0:
			return true, i
		case 1:
			return false, i
		}
	}
	return false, len(n.Items)
}
