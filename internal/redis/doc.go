// Package redis implements the persistent key-value store backed by Redis.
//
// KVStore is the production implementation of domain.KeyValueStore, used for
// profile keys and the liked/disliked item lists. A metrics hook instruments
// every command.
package redis
