// Package cache stores synthesized audio clips on disk so that the same text,
// voice and speed are only synthesized once. Entries are zstd-compressed and
// evicted least-recently-used first when the cache grows past its capacity.
package cache
