// Package conv provides safe integer type conversion utilities.
//
// Batch results index their inputs with uint32 bitmaps while the public API
// counts with int; these helpers check the bounds when crossing between them.
package conv
