// Package groupspace maintains a partition of tracked vertices into
// connected components of bounded size, together with a rope graph of
// the boundaries between them.
//
// What
//
//   - Add places an untracked vertex into the first neighbouring group
//     with room, or founds a new group; amortised O(1) per mutation.
//   - Update reacts to an edge or liveness change: it delegates to Add
//     for live untracked vertices and runs a repair for tracked ones.
//   - Repair floods the mutated group (bounded by the group limit) and,
//     when members went unreachable, dissolves the group and
//     re-partitions the survivors into fresh groups.
//   - Every membership change is mirrored into the rope graph, so
//     coarse connectivity stays queryable via RopeSuccessors without
//     touching vertices.
//
// Why
//
//   - Unbounded components make removal cost proportional to component
//     size. Capping groups at L bounds every repair flood at L visits,
//     and pushes long-range connectivity questions up to the much
//     smaller rope graph.
//
// The liveness predicate (WithTestVertex) decides whether a vertex still
// participates; repair floods drop dead vertices unexpanded, which is
// how removals propagate into this space.
//
// Group ids are the canonical external handle — monotonically
// increasing, never reused, never shared as objects.
package groupspace
