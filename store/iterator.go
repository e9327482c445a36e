package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/swap/errors"
)

// collectRange returns all cached items with start <= key < end in
// ascending order. A nil start or end is unbounded.
func collectRange(bt *btree.BTree, start, end []byte) []btree.Item {
	var items []btree.Item
	collect := func(i btree.Item) bool {
		items = append(items, i)
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(bkey{end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(bkey{start}, collect)
	default:
		bt.AscendRange(bkey{start}, bkey{end}, collect)
	}
	return items
}

// mergeIter combines cached writes with the content of the parent store.
// Cached items shadow parent entries with the same key and deleted items
// hide them.
type mergeIter struct {
	items  []btree.Item
	parent Iterator

	// lookahead of the parent iterator
	pKey, pValue []byte
	pLoaded      bool
	pDone        bool
}

var _ Iterator = (*mergeIter)(nil)

func (m *mergeIter) loadParent() error {
	if m.pLoaded || m.pDone {
		return nil
	}
	k, v, err := m.parent.Next()
	switch {
	case errors.ErrIteratorDone.Is(err):
		m.pDone = true
	case err != nil:
		return err
	default:
		m.pKey, m.pValue, m.pLoaded = k, v, true
	}
	return nil
}

// Next implements Iterator.
func (m *mergeIter) Next() (key, value []byte, err error) {
	for {
		if err := m.loadParent(); err != nil {
			return nil, nil, err
		}
		if len(m.items) == 0 {
			if !m.pLoaded {
				return nil, nil, errors.Wrap(errors.ErrIteratorDone, "cache iterator")
			}
			m.pLoaded = false
			return m.pKey, m.pValue, nil
		}

		item := m.items[0]
		if m.pLoaded {
			cmp := bytes.Compare(item.(keyer).Key(), m.pKey)
			if cmp > 0 {
				m.pLoaded = false
				return m.pKey, m.pValue, nil
			}
			if cmp == 0 {
				// cached value shadows the parent
				m.pLoaded = false
			}
		}

		m.items = m.items[1:]
		if s, ok := item.(setItem); ok {
			return s.key, s.value, nil
		}
	}
}

// Release implements Iterator.
func (m *mergeIter) Release() {
	m.items = nil
	m.parent.Release()
}
