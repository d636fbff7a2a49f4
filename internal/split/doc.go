// Package split implements the split tree and per-split view state of
// §4.7 (C7): a binary tree of panes where every internal node carries a
// direction and ratio and every leaf carries a buffer id, a cursor set,
// a viewport and a per-leaf open-buffers list.
//
// SplitActive converts the active leaf in place into an internal node
// whose two children are the old and new leaves, so existing leaf ids
// and *Leaf pointers handed out before the split stay valid afterward.
// Close performs the inverse: a leaf's parent is replaced by its
// sibling, splicing the sibling up to the grandparent.
//
// The tree does not itself decide how cursor sets get copied or merged
// across a split or a buffer switch in a leaf (SetBuffer); callers
// supply whatever cursor.Set they want installed. Mirroring cursor
// state on split is a façade (C11) policy, not a structural one.
package split
