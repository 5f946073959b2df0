package battle

// LogKind classifies a battle log entry for UI display and tutorial triggers.
type LogKind string

const (
	LogAction LogKind = "action"
	LogDamage LogKind = "damage"
	LogHeal   LogKind = "heal"
	LogStatus LogKind = "status"
	LogInfo   LogKind = "info"
)

// LogEntry is one append-only battle log record.
type LogEntry struct {
	Round   int     `json:"round"`
	Kind    LogKind `json:"kind"`
	Message string  `json:"message"`
}

// appendLog appends an entry stamped with the current round.
func (s *State) appendLog(kind LogKind, msg string) {
	s.Log = append(s.Log, LogEntry{Round: s.Round, Kind: kind, Message: msg})
}
