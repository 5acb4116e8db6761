// Package library loads documents from disk and turns them into normalized
// plain text for the reader.
package library
