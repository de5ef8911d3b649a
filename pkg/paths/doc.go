// Package paths answers highlight queries on a knowledge graph.
//
// Selecting a node q in a drug graph should light up everything that leads
// to it and everything it leads to. [Query] returns both directions:
//
//   - ancestor paths: every simple path from any root to q, exhaustively;
//   - descendant paths: every simple path leaving q, each prefix reported
//     separately, bounded by [Options.MaxDepth] edges.
//
// Both searches use an explicit stack and a per-path on-path set instead of a
// global visited set, so paths that share a prefix are all found and cycles
// cannot trap the search.
//
// [Highlight] turns a [Result] into the node and edge sets a renderer should
// emphasize. Edges are always reported in their stored direction.
//
// [ShortestFromRoot] is the cheaper single-path variant used for quick
// previews.
//
// Queries never fail: unknown nodes and rootless graphs give empty results.
// Results are recomputed on every call and never cached.
package paths
