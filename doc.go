// Package nodenetwork is the umbrella for an in-memory incremental
// connectivity tracker over voxel-like cells.
//
// Clients mutate a world one cell at a time; the trackers answer "which
// cells are connected" without rescanning the world, by flooding only
// what a mutation can have changed.
//
// The module is organized as one package per concern:
//
//	voxel/       — cell/vertex data model, Grid abstraction, hashing,
//	               and the successor adapter over the lookup tables
//	lut/         — generic key→handler tables with the shared
//	               ENODATA/EHOOKFAIL error taxonomy
//	bfmap/       — the breadth-first mapper every tracker floods with
//	vertexspace/ — unbounded connected components (merge on insert,
//	               split on remove)
//	ropegraph/   — refcounted multigraph of inter-group boundaries
//	groupspace/  — size-bounded components atop bfmap + ropegraph
//	writecache/  — per-operation read/write-back cache over a World
//	flatgrid/    — flat-array in-memory World for tests and examples
//
// Start with vertexspace if you want exact components, or groupspace if
// you want bounded-cost mutations and coarse connectivity queries.
package nodenetwork
