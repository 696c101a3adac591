// Package mmap maps point files read-only into memory so the loader can parse
// them without copying through kernel buffers.
//
//	m, err := mmap.Open("points.txt")
//	if err != nil { ... }
//	defer m.Close()
//
//	_ = m.Advise(mmap.AccessSequential)
//	r := m.Reader()
//
// Unix uses mmap(2) and madvise(2); Windows uses CreateFileMapping and
// MapViewOfFile, where Advise is a no-op.
package mmap
