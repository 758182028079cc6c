package storage

import (
	"encoding/binary"
	"fmt"
)

// Node page layout:
//
//	| leaf flag | item count | child/offset cells ... | free | ... key-value cells |
//
// Fixed-width cells grow forward from the header, each item being an optional child
// pointer (internal nodes only) followed by a u16 offset to its key-value cell. Key-value
// cells ([klen][key][vlen][value]) grow backward from the end of the page. Internal nodes
// carry one extra child pointer after the last offset.

const (
	leafFlag     byte = 0
	internalFlag byte = 1

	offsetSize = 2
)

// EncodedSize is the number of bytes Serialize needs for n.
func (n *Node) EncodedSize() int {
	size := NodeHeaderSize
	for _, it := range n.Items {
		if !n.IsLeaf() {
			size += PageNumSize
		}
		size += offsetSize + 1 + len(it.Key) + 1 + len(it.Value)
	}
	if !n.IsLeaf() {
		size += PageNumSize
	}
	return size
}

func (n *Node) Serialize(buf []byte) error {
	isLeaf := n.IsLeaf()

	if !isLeaf && len(n.Children) != len(n.Items)+1 {
		return fmt.Errorf("%w: internal node with %d items has %d children", ErrCorruptNode, len(n.Items), len(n.Children))
	}
	for _, it := range n.Items {
		if err := it.Validate(); err != nil {
			return err
		}
	}
	if size := n.EncodedSize(); size > len(buf) {
		return fmt.Errorf("%w: %d items need %d bytes, page has %d", ErrNodeOverflow, len(n.Items), size, len(buf))
	}

	left := 0
	right := len(buf)

	if isLeaf {
		buf[left] = leafFlag
	} else {
		buf[left] = internalFlag
	}
	left++

	binary.LittleEndian.PutUint16(buf[left:], uint16(len(n.Items)))
	left += 2

	for i, it := range n.Items {
		if !isLeaf {
			binary.LittleEndian.PutUint64(buf[left:], uint64(n.Children[i]))
			left += PageNumSize
		}

		offset := right - len(it.Key) - len(it.Value) - 2
		binary.LittleEndian.PutUint16(buf[left:], uint16(offset))
		left += offsetSize

		right -= len(it.Value)
		copy(buf[right:], it.Value)

		right--
		buf[right] = byte(len(it.Value))

		right -= len(it.Key)
		copy(buf[right:], it.Key)

		right--
		buf[right] = byte(len(it.Key))
	}

	if !isLeaf {
		binary.LittleEndian.PutUint64(buf[left:], uint64(n.Children[len(n.Children)-1]))
	}

	return nil
}

func DeserializeNode(buf []byte) (*Node, error) {
	if len(buf) < NodeHeaderSize {
		return nil, fmt.Errorf("%w: buffer of %d bytes", ErrCorruptNode, len(buf))
	}

	var isLeaf bool
	switch buf[0] {
	case leafFlag:
		isLeaf = true
	case internalFlag:
		isLeaf = false
	default:
		return nil, fmt.Errorf("%w: unknown leaf flag %d", ErrCorruptNode, buf[0])
	}

	count := int(binary.LittleEndian.Uint16(buf[1:]))
	left := NodeHeaderSize

	n := &Node{
		Items: make([]Item, 0, count),
	}
	if isLeaf {
		n.Children = []PageNum{}
	} else {
		n.Children = make([]PageNum, 0, count+1)
	}

	for i := 0; i < count; i++ {
		if !isLeaf {
			child, err := readPageNum(buf, left)
			if err != nil {
				return nil, fmt.Errorf("child %d: %w", i, err)
			}
			n.Children = append(n.Children, child)
			left += PageNumSize
		}

		if left+offsetSize > len(buf) {
			return nil, fmt.Errorf("%w: offset of item %d past end of page", ErrCorruptNode, i)
		}
		offset := int(binary.LittleEndian.Uint16(buf[left:]))
		left += offsetSize

		it, err := readCell(buf, offset)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		n.Items = append(n.Items, it)
	}

	if !isLeaf {
		child, err := readPageNum(buf, left)
		if err != nil {
			return nil, fmt.Errorf("last child: %w", err)
		}
		n.Children = append(n.Children, child)
	}

	return n, nil
}

func readPageNum(buf []byte, pos int) (PageNum, error) {
	if pos+PageNumSize > len(buf) {
		return 0, fmt.Errorf("%w: page pointer at %d past end of page", ErrCorruptNode, pos)
	}
	return PageNum(binary.LittleEndian.Uint64(buf[pos:])), nil
}

// readCell copies the key-value cell at offset out of buf.
func readCell(buf []byte, offset int) (Item, error) {
	if offset < NodeHeaderSize || offset >= len(buf) {
		return Item{}, fmt.Errorf("%w: cell offset %d outside page", ErrCorruptNode, offset)
	}

	keyLen := int(buf[offset])
	offset++
	if offset+keyLen+1 > len(buf) {
		return Item{}, fmt.Errorf("%w: key of %d bytes overruns page", ErrCorruptNode, keyLen)
	}
	key := append([]byte{}, buf[offset:offset+keyLen]...)
	offset += keyLen

	valueLen := int(buf[offset])
	offset++
	if offset+valueLen > len(buf) {
		return Item{}, fmt.Errorf("%w: value of %d bytes overruns page", ErrCorruptNode, valueLen)
	}
	value := append([]byte{}, buf[offset:offset+valueLen]...)

	return Item{Key: key, Value: value}, nil
}
