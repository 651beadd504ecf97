package model

// AcceptanceDetail is the read-side projection of an acceptance with its
// linked collaborator records, ordered comments and ordered history.
// Assembled per request from committed state; never cached.
type AcceptanceDetail struct {
	Acceptance *RiskAcceptance
	Risk       *Risk
	Control    *Control
	Outcome    *ConsumerDutyOutcome

	// Comments ordered by CreatedAt ascending
	Comments []*Comment

	// History ordered by Seq ascending
	History []*HistoryEntry
}
