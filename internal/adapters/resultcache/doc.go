// Package resultcache provides the fast key-value tier that sits in front of the
// artifact store.
//
// Three backends implement ports.ResultCache:
//
//   - MemoryCache keeps results in process with LRU eviction bounded by entry count.
//   - DiskCache stores one zstd-compressed JSON document per key and survives restarts.
//   - RedisCache shares results between processes through a redis server.
//
// A miss is reported as a nil result with a nil error. The generator treats read
// errors as misses, so every backend may fail without affecting correctness.
package resultcache
