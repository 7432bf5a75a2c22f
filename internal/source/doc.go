// Package source provides the data behind the demo suggestion popovers.
//
// Catalogs are JSON documents read with gjson according to a Schema and
// searched with fuzzy ranking. The built-in "users" and "products"
// catalogs are embedded in the binary.
package source
