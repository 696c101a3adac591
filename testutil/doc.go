// Package testutil provides testing utilities for kdtree.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random points, computing exact
// nearest neighbors by brute force, and verifying search recall.
//
// # Random Point Generation
//
//	rng := testutil.NewRNG(seed)
//	pts := rng.UniformPoints(1000, 3)        // uniform [0, 1)
//	pts = rng.RangePoints(1000, 3, -10, 10)  // uniform [-10, 10)
//
// # Exact Search (Ground Truth)
//
//	want := testutil.ExactKNN(query, pts, k)
//	want = testutil.ExactRadius(query, pts, radius)
//
// # Recall Verification
//
//	recall := testutil.ComputeRecall(want, got)
package testutil
