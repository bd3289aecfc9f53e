package api

// Pointer is the mutable "latest" record naming the most recent version's
// timestamp for a bucket identity.
type Pointer struct {
	TS int64 `json:"ts"`
}

// VersionRef describes one stored version in a list response.
type VersionRef struct {
	TS int64 `json:"ts"`
}
