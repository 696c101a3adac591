// Package distance provides point distance calculations.
//
// # Supported Metrics
//
//   - MetricEuclidean: true L2 norm (square root of the sum of squared differences)
//   - MetricSquaredL2: squared Euclidean distance
//
// Radius queries compare against true metric distance, so the kd-tree uses
// Euclidean for every candidate.
//
// # Usage
//
//	d := distance.Euclidean(a, b)
//	sq := distance.SquaredL2(a, b)
package distance
