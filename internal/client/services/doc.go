// Package services contains the synchronization coordinator of the filevault
// client.
//
// The Coordinator ties the query state, the view caches and the upload
// tracker together. It is the only component that decides when cached views
// become stale:
//
//   - a successful upload (duplicate or not) or delete invalidates every
//     cached listing page, the storage stats and the file-type list
//   - query transitions (filters, sort, page) only select a different cache
//     entry and never invalidate anything
//   - failed uploads and deletes invalidate nothing
//
// Storage stats additionally refresh on a fixed interval while Run is active.
//
// Views obtained with NewView suppress results that arrive after the view was
// closed or after a newer request on the same view (ErrSuperseded). The
// underlying transfer is never cancelled, so its result still lands in the
// cache for everyone else.
package services
