package protocol

import (
	"github.com/palemoky/maze-escape/internal/game"
	"github.com/palemoky/maze-escape/internal/storage"
)

// --- client requests ---

// PingPayload carries the client clock so it can measure latency.
type PingPayload struct {
	Timestamp int64 `json:"timestamp"` // milliseconds
}

// MovePayload asks to move one cell: "up", "down", "left" or "right".
type MovePayload struct {
	Direction string `json:"direction"`
}

// StatePayload asks for the current snapshot, optionally with an ASCII
// drawing of the maze.
type StatePayload struct {
	ASCII bool `json:"ascii"`
}

// BestPayload asks for the top escapes of the session's maze size.
type BestPayload struct {
	Limit int `json:"limit"`
}

// --- server responses ---

// PongPayload echoes the ping timestamp.
type PongPayload struct {
	ClientTimestamp int64 `json:"client_timestamp"`
	ServerTimestamp int64 `json:"server_timestamp"`
}

// SnapshotPayload is the session state after a request. Result is the
// outcome of the move that produced it, empty for other requests.
type SnapshotPayload struct {
	SessionID  string        `json:"session_id"`
	PlayerName string        `json:"player_name"`
	Result     string        `json:"result,omitempty"`
	RecordID   string        `json:"record_id,omitempty"`
	Game       game.Snapshot `json:"game"`
	ASCII      string        `json:"ascii,omitempty"`
}

// RecordsPayload lists escape records for one maze size.
type RecordsPayload struct {
	Rows    int                    `json:"rows"`
	Cols    int                    `json:"cols"`
	Escapes int64                  `json:"escapes"` // all escapes recorded for the size
	Entries []storage.RankedRecord `json:"entries"`
}

// ErrorPayload reports a rejected request.
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
