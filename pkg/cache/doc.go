// Package cache stores computed layouts and rendered artifacts.
//
// # Backends
//
// All backends implement [Cache]:
//
//   - [FileCache] keeps entries as JSON files under a directory (CLI default)
//   - [NullCache] never stores anything (--no-cache)
//   - [RedisCache] shares entries between server replicas
//   - [MongoCache] keeps entries in a collection with a TTL index
//
// # Keys
//
// A [Keyer] derives keys from a molecule hash and the options that influence
// the result. Two layouts share a key only if the molecule, the mode, the seed
// and the marked atoms are identical. [NewScopedKeyer] prefixes every key, which
// the CLI uses to separate cache generations between releases.
//
// Unseeded layouts are random by definition and are never looked up.
//
// # Retries
//
// Remote backends wrap transient failures with [Retryable] and run each call
// through [RetryWithBackoff].
package cache
