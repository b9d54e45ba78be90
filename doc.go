// Package geostore defines the core types and helpers shared across the
// geostore codebase: error codes, retry policy, key/value pair tuple, UUID
// wrapper and logging setup. The staged, transactional entry store itself
// lives in the store subpackage; concrete backends live in subpackages such
// as fs (local filesystem) and aws_s3, with optional Redis-backed read
// caching in the cache subpackage.
//
// An entry is one physical stored object for a key, holding a compressed,
// serialized record sequence. Writes are staged under a reserved "__" prefix
// in the store's root folder until the owning transaction commits; rollback
// discards staged entries without touching committed ones.
package geostore
