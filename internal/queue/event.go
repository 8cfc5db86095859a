// Package queue defines message payloads exchanged over the message broker.
package queue

// CheckCommittedEvent is published when a split session is successfully
// committed into durable checks.  It carries enough information for
// downstream consumers to log or trigger analytics without querying the
// primary database.
type CheckCommittedEvent struct {
	OrderID     uint64   `json:"order_id"`
	TableNumber uint32   `json:"table_number"`
	StaffID     uint64   `json:"staff_id"`
	Mode        string   `json:"mode"`
	CheckIDs    []uint64 `json:"check_ids"`
	CheckCount  int      `json:"check_count"`
	SplitTotal  float64  `json:"split_total"`
	CommittedAt string   `json:"committed_at"`
}
