// Package batch fetches every page of a collection.
//
// The Exporter loads the first page to learn the total, then fetches the
// remaining pages concurrently under a fixed limit and hands them to the
// caller in ascending page order. When the collection does not report a total
// it falls back to fetching pages one at a time until a short page arrives.
// Progress is tracked per page for status lines and logs.
package batch
