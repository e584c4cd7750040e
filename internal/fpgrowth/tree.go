package fpgrowth

import (
	"sort"

	"github.com/blackwell-systems/basketmine/internal/mining"
)

type node struct {
	item     mining.Item
	count    int
	parent   *node
	children map[mining.Item]*node
	next     *node // next node holding the same item
}

type header struct {
	count int
	head  *node
	tail  *node
}

// Tree is a prefix tree of transactions whose items are ordered by
// descending support, with a header table linking every node of an item.
type Tree struct {
	root    *node
	headers map[mining.Item]*header
	order   []mining.Item
	nodes   int
}

// pattern is a path of items sharing a count, used both for the
// transactions of the initial tree and the prefix paths of conditional
// trees.
type pattern struct {
	items []mining.Item
	count int
}

// buildTree counts every item across patterns, drops the items keep
// rejects, and inserts the survivors of each pattern in header order.
func buildTree(patterns []pattern, keep func(count int) bool) *Tree {
	counts := make(map[mining.Item]int)
	for _, p := range patterns {
		for _, it := range p.items {
			counts[it] += p.count
		}
	}

	t := &Tree{
		root:    &node{children: make(map[mining.Item]*node)},
		headers: make(map[mining.Item]*header),
	}
	for it, c := range counts {
		if keep(c) {
			t.headers[it] = &header{count: c}
			t.order = append(t.order, it)
		}
	}
	sortByPriority(t.order, t.headers)

	rank := make(map[mining.Item]int, len(t.order))
	for i, it := range t.order {
		rank[it] = i
	}

	path := make([]mining.Item, 0)
	for _, p := range patterns {
		path = path[:0]
		for _, it := range p.items {
			if _, ok := rank[it]; ok {
				path = append(path, it)
			}
		}
		if len(path) == 0 {
			continue
		}
		sort.Slice(path, func(i, j int) bool { return rank[path[i]] < rank[path[j]] })
		t.insert(path, p.count)
	}
	return t
}

// sortByPriority orders items by descending count, then ascending name.
func sortByPriority(items []mining.Item, headers map[mining.Item]*header) {
	sort.Slice(items, func(i, j int) bool {
		ci, cj := headers[items[i]].count, headers[items[j]].count
		if ci != cj {
			return ci > cj
		}
		return items[i] < items[j]
	})
}

func (t *Tree) insert(path []mining.Item, count int) {
	cur := t.root
	for _, it := range path {
		child, ok := cur.children[it]
		if !ok {
			child = &node{item: it, parent: cur, children: make(map[mining.Item]*node)}
			cur.children[it] = child
			t.nodes++

			h := t.headers[it]
			if h.head == nil {
				h.head = child
			} else {
				h.tail.next = child
			}
			h.tail = child
		}
		child.count += count
		cur = child
	}
}

// Len returns the number of item nodes in the tree.
func (t *Tree) Len() int {
	return t.nodes
}

// prefixPaths walks the node links of item and returns, for every node, the
// path from just below the root down to its parent, weighted by the node's
// count. This is the conditional pattern base of item.
func (t *Tree) prefixPaths(item mining.Item) []pattern {
	var base []pattern
	h, ok := t.headers[item]
	if !ok {
		return nil
	}
	for n := h.head; n != nil; n = n.next {
		var items []mining.Item
		for p := n.parent; p != nil && p.parent != nil; p = p.parent {
			items = append(items, p.item)
		}
		if len(items) > 0 {
			base = append(base, pattern{items: items, count: n.count})
		}
	}
	return base
}
