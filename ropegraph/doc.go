// Package ropegraph tracks which groups of a bounded partition touch
// which, as a refcounted multigraph.
//
// A rope is the bundle of vertex-pair edges crossing between one
// unordered pair of distinct groups; its refcount is its edge count, and
// the rope dies exactly when the count reaches zero. Update replaces all
// cross-group edges incident on one vertex hash in a single call, which
// makes the rope graph O(degree) to maintain per vertex mutation.
//
// Successors answers the coarse connectivity question — which groups
// border this one — without touching any vertex data.
package ropegraph
