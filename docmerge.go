// Package docmerge crawls a documentation listing page, collects every link
// sharing a prefix, extracts the main text of each linked page, and merges
// the results into a single output document.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, sqlite/).
package docmerge
