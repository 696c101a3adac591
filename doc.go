// Package kdtree provides an in-memory kd-tree over fixed-length float32
// points with amortized self-rebalancing.
//
// All storage is preallocated at construction in fixed-capacity slot pools;
// no operation allocates tree nodes on the heap.
//
// # Quick Start
//
//	tree, _ := kdtree.New(1000, 3)
//	defer tree.Close()
//
//	_ = tree.Insert([]float32{1, 2, 3})
//	ok, _ := tree.Contains([]float32{1, 2, 3})
//	nearest, _ := tree.KNearest([]float32{0, 0, 0}, 5)
//	within, _ := tree.WithinRadius([]float32{0, 0, 0}, 2.5)
//
// # Navigation
//
// The split dimension at depth d is d mod Dimensions. Descent compares the
// point's coordinate in that dimension against one split value per dimension
// held for the whole tree: strictly smaller goes left, everything else goes
// right. Until the first rebuild every split value is +MaxFloat32, so all
// points chain to the left.
//
// # Rebalancing
//
// Every insert first checks the ratio of live points to the size recorded at
// the last rebuild. When it exceeds the threshold (DefaultRebuildThreshold
// unless set with WithRebuildThreshold or SetRebuildThreshold), the tree
// captures all live points, recomputes every split value as the lower median
// of that dimension and reinserts the points.
//
//	tree, _ := kdtree.New(1000, 3, kdtree.WithRebuildThreshold(1.5))
//	_ = tree.Rebalance() // force a rebuild
//
// # Queries
//
// KNearest and WithinRadius default to SearchSinglePath: only the nodes on
// the query's own descent path are evaluated, so results are approximate.
// WithSearchMode(SearchExhaustive) evaluates every node and returns exact
// results at O(N) cost per query.
//
// # Concurrency
//
// A Tree is single-threaded. The rebuild state is a reentrancy guard, not a
// lock; callers sharing a Tree must serialize access themselves.
package kdtree
