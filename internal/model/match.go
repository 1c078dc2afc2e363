package model

import "time"

// MatchStrategy names the lookup that produced a duplicate match.
type MatchStrategy string

const (
	MatchedBySourceURL MatchStrategy = "source_url"
	MatchedByDomain    MatchStrategy = "domain"
	MatchedByName      MatchStrategy = "name"
)

// MatchResult is the outcome of a duplicate check. Either Found is false, or
// Found is true and RecordID/RecordKind/MatchedBy identify the hit.
type MatchResult struct {
	Found      bool          `json:"found"`
	RecordID   string        `json:"recordId,omitempty"`
	RecordKind EntityKind    `json:"recordKind,omitempty"`
	MatchedBy  MatchStrategy `json:"matchedBy,omitempty"`
}

// CaptureEntry records one successful capture for the recent-history ledger.
// SourceKey is the query-stripped source URL, or "domain:<domain>" for
// domain-only captures.
type CaptureEntry struct {
	SourceKey   string     `json:"sourceKey"`
	DisplayName string     `json:"displayName"`
	Kind        EntityKind `json:"kind"`
	CapturedAt  time.Time  `json:"capturedAt"`
	RemoteID    string     `json:"remoteId"`
}
