// Package api implements the HTTP transport for the versioned blob store.
//
// The store exposes, per bucket identity, an append-only set of envelope
// versions keyed by timestamp plus one mutable "latest" pointer:
//
//	PUT  {base}/{id}/v1/{ts}      store an envelope version
//	PUT  {base}/{id}/v1/latest    move the latest pointer
//	GET  {base}/{id}/v1/latest    read the latest pointer
//	GET  {base}/{id}/v1/{ts}      read an envelope version
//	GET  {base}/{id}/v1?limit=N   list recent version descriptors
//
// Transport failures and retry-exhausted requests surface as *NetworkError;
// non-2xx responses surface as *StatusError so callers can branch on the
// HTTP status directly.
package api
