// Package arena provides fixed-capacity slot pools for kd-tree nodes.
//
// A Pool pre-allocates storage for a fixed number of node slots. Each slot holds
// one point of the configured dimensionality, left/right child references and a
// distance field used while collecting query candidates. Slots are addressed by
// Ref, an index into the pool, never by pointer, so a reset or rebuild cannot
// leave dangling references behind.
//
// # Allocation
//
//   - First-fit: Acquire returns the lowest-numbered empty slot
//   - Occupancy is an explicit bitset, not a sentinel coordinate value
//   - Capacity is fixed at construction; the pool never grows
//
// # Safety
//
// Acquire returns ErrFull instead of handing out an invalid slot. Pools are not
// safe for concurrent use.
package arena
