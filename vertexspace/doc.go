// Package vertexspace maintains, at all times, a partition of tracked
// vertices into maximal connected components.
//
// AddVertex inserts one vertex and merges every component its edges
// reach; RemoveVertex deletes one vertex and splits its component into
// however many pieces remain; Update re-derives a vertex's edges. Graph
// ids are the canonical external handle — monotonically increasing,
// never reused, never shared as objects.
//
// The tracker assumes single-threaded, cooperative use: one public
// mutation at a time, with the world logically immutable between the
// OnEnter and OnExit hooks of that mutation.
//
// Partition inconsistencies observed mid-operation (a foreign graph in a
// removal search, an id mismatch on a single delete) are warnings on the
// configured logger, not errors: they indicate the caller missed a prior
// mutation, and the operation repairs what it can.
package vertexspace
