// Package median computes per-dimension split values for the kd-tree.
//
// Select is Wirth's partition-based order-statistic algorithm: expected O(n),
// worst case O(n²), in place. Lower picks the lower-middle element, so an even
// count never averages the two middle values.
//
// A Table holds one split value per dimension. It is written only while the
// tree is being rebuilt and read by every navigation step in between.
package median
