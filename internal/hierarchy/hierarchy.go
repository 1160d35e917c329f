// Package hierarchy groups flat records into a one-level parent/child tree
// using title prefixes. A record titled "Groceries - Milk" is a child of the
// record titled "Groceries". The convention is purely textual; a title that
// happens to contain " - " after another record's title will be classified
// as its child.
package hierarchy

import (
	"fmt"
	"strings"
)

// ChildSeparator joins a parent title and a child suffix.
const ChildSeparator = " - "

// Item is one record participating in the tree.
type Item struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Node is a parent with its attached children, in input order.
type Node struct {
	Item     Item   `json:"item"`
	Children []Item `json:"children,omitempty"`
}

// Matcher decides whether one title is a child of another.
type Matcher interface {
	IsChildOf(childTitle, parentTitle string) bool
}

// TitlePrefixMatcher matches children by the "<parent>" + ChildSeparator
// title prefix.
type TitlePrefixMatcher struct{}

// IsChildOf reports whether childTitle starts with parentTitle followed by
// the separator. An empty parent title never matches.
func (TitlePrefixMatcher) IsChildOf(childTitle, parentTitle string) bool {
	if parentTitle == "" {
		return false
	}
	return strings.HasPrefix(childTitle, parentTitle+ChildSeparator)
}

// BuildTree partitions items into parents and children. An item is a child
// of the first earlier-or-later item whose title prefixes it; everything else
// becomes a parent. Parent order and child order both follow input order.
func BuildTree(items []Item, m Matcher) []Node {
	if m == nil {
		m = TitlePrefixMatcher{}
	}

	parentOf := make(map[int]int, len(items))
	for i, item := range items {
		for j, candidate := range items {
			if i == j {
				continue
			}
			if m.IsChildOf(item.Title, candidate.Title) {
				parentOf[i] = j
				break
			}
		}
	}

	nodeIndex := make(map[int]int, len(items))
	var nodes []Node
	for i, item := range items {
		if _, isChild := parentOf[i]; isChild {
			continue
		}
		nodeIndex[i] = len(nodes)
		nodes = append(nodes, Node{Item: item})
	}

	for i, item := range items {
		parent, isChild := parentOf[i]
		if !isChild {
			continue
		}
		ni, ok := nodeIndex[parent]
		if !ok {
			// Parent is itself a child; its own children surface under it
			// as a new top-level node rather than nesting deeper.
			ni = len(nodes)
			nodeIndex[parent] = ni
			nodes = append(nodes, Node{Item: items[parent]})
		}
		nodes[ni].Children = append(nodes[ni].Children, item)
	}

	return nodes
}

// ChildTitle builds the default title for the n-th new child of a parent.
func ChildTitle(parentTitle string, n int) string {
	return fmt.Sprintf("%s%sItem %d", parentTitle, ChildSeparator, n)
}
