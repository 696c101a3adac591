// Package queue holds the candidate containers used by kd-tree queries.
//
// Candidates is the bounded buffer filled along a single descent path. Its
// entries live in a result pool slot (point plus distance) and are ordered by
// an ascending insertion sort, which is cheap for the short buffers a single
// root-to-leaf path produces.
//
// PriorityQueue is a binary heap keyed by distance. A max-heap bounded to k
// keeps the k best entries of an exhaustive scan without sorting the whole set.
package queue
