// Package models defines client-side data models used by the filevault CLI:
// server-owned file records, the query that identifies one view of the file
// collection, pages of results, local upload tasks and storage statistics.
package models
