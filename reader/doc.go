// Package reader holds the reading-session model: documents, pages, the page
// navigator and the selection tracker that guards which spans of a document
// have already been submitted for speech generation.
//
// Pagination itself lives in the layout subpackage; a Session only depends on
// the Paginator interface so that headless and terminal measurers can be
// swapped freely.
package reader
