// Package fixture serves a json-server compatible posts collection.
//
// It backs the `pagedview serve` command for offline use and doubles as the
// remote collection in tests. The query conventions match json-server:
//
//	GET /posts?_page=2&_limit=3&id=7&title_like=qui&body_like=est
//
// The total number of matching posts is reported in the X-Total-Count header.
package fixture
