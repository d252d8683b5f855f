// Package cli implements the libraryql command line: serve, schema, query and
// version.
package cli
