// Package source fetches pages from a remote collection.
//
// HTTPSource speaks the json-server query conventions and classifies every
// failure as a *FetchError of one of three kinds: network, response or
// malformed. CachedSource wraps any Source with the on-disk page cache.
package source
