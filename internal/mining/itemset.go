package mining

import (
	"sort"
	"strings"
)

// Item is an opaque item identifier.
type Item = string

// keySep separates items in an Itemset key and ruleSep separates the two
// sides of a Rule key. The dataset loader rejects items containing control
// characters, so neither can occur inside an item.
const (
	keySep  = "\x1f"
	ruleSep = "\x1e"
)

// Itemset is a set of items in canonical form: sorted ascending, no
// duplicates, no blank items. Two itemsets built from the same items in any
// order are equal element by element.
type Itemset []Item

// NewItemset returns the canonical itemset for items.
func NewItemset(items ...Item) Itemset {
	if len(items) == 0 {
		return nil
	}

	sorted := make([]Item, 0, len(items))
	for _, it := range items {
		if it != "" {
			sorted = append(sorted, it)
		}
	}
	sort.Strings(sorted)

	out := make(Itemset, 0, len(sorted))
	for _, it := range sorted {
		if len(out) == 0 || out[len(out)-1] != it {
			out = append(out, it)
		}
	}
	return out
}

// Len returns the number of items (k).
func (s Itemset) Len() int {
	return len(s)
}

// Key returns a string that identifies the set, suitable as a map key.
// Keys are unique only for items free of the unit and record separator
// characters (U+001F, U+001E).
func (s Itemset) Key() string {
	return strings.Join(s, keySep)
}

// String formats the set as "{A, B, C}".
func (s Itemset) String() string {
	return "{" + strings.Join(s, ", ") + "}"
}

// Clone returns a copy that does not share storage with s.
func (s Itemset) Clone() Itemset {
	if s == nil {
		return nil
	}
	out := make(Itemset, len(s))
	copy(out, s)
	return out
}

// Equal reports whether s and o hold the same items.
func (s Itemset) Equal(o Itemset) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

// Compare orders itemsets lexicographically item by item; a proper prefix
// sorts first. It returns -1, 0 or +1.
func (s Itemset) Compare(o Itemset) int {
	for i := 0; i < len(s) && i < len(o); i++ {
		if c := strings.Compare(s[i], o[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(s) < len(o):
		return -1
	case len(s) > len(o):
		return 1
	}
	return 0
}

// Contains reports whether item is a member of s.
func (s Itemset) Contains(item Item) bool {
	i := sort.SearchStrings(s, item)
	return i < len(s) && s[i] == item
}

// SubsetOf reports whether every item of s is also in t.
// Both sets must be canonical.
func (s Itemset) SubsetOf(t Itemset) bool {
	if len(s) > len(t) {
		return false
	}
	j := 0
	for _, it := range s {
		for j < len(t) && t[j] < it {
			j++
		}
		if j == len(t) || t[j] != it {
			return false
		}
		j++
	}
	return true
}

// Union returns s ∪ o.
func (s Itemset) Union(o Itemset) Itemset {
	out := make(Itemset, 0, len(s)+len(o))
	i, j := 0, 0
	for i < len(s) && j < len(o) {
		switch {
		case s[i] < o[j]:
			out = append(out, s[i])
			i++
		case s[i] > o[j]:
			out = append(out, o[j])
			j++
		default:
			out = append(out, s[i])
			i++
			j++
		}
	}
	out = append(out, s[i:]...)
	return append(out, o[j:]...)
}

// Minus returns the items of s that are not in o.
func (s Itemset) Minus(o Itemset) Itemset {
	out := make(Itemset, 0, len(s))
	for _, it := range s {
		if !o.Contains(it) {
			out = append(out, it)
		}
	}
	return out
}

// canonicalLess orders itemsets by size, then lexicographically. This is the
// order candidates are generated in and the order every SupportRecord keeps.
func canonicalLess(a, b Itemset) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a.Compare(b) < 0
}
