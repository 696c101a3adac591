// Package loader reads point files into a kd-tree.
//
// A point file holds one point per row. Coordinates are separated by
// whitespace or commas; blank rows and rows starting with '#' are skipped.
//
//	tree, _ := kdtree.New(100000, 3)
//	report, err := loader.LoadFile(ctx, tree, "points.txt.zst")
//
// Files ending in .zst/.zstd, .gz or .lz4 are decompressed transparently;
// anything else is memory-mapped.
package loader
