// Package trace reads allocator trace files and replays them against an
// alloc.Allocator while checking that the allocator keeps its promises.
//
// A trace file starts with four header numbers (suggested heap size, number
// of ids, number of ops, weight) followed by one op per line:
//
//	a <id> <bytes>   allocate bytes and remember the handle as id
//	r <id> <bytes>   reallocate id to bytes
//	f <id>           free id
//
// Blank lines and lines starting with '#' are ignored.
package trace
