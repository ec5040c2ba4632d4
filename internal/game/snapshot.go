package game

import "github.com/palemoky/maze-escape/internal/maze"

// Snapshot is a read-only copy of everything an adapter draws.
type Snapshot struct {
	GameID  string         `json:"game_id"`
	Rows    int            `json:"rows"`
	Cols    int            `json:"cols"`
	Player  maze.Point     `json:"player"`
	Exit    maze.Point     `json:"exit"`
	Moves   int            `json:"moves"`
	Message string         `json:"message"`
	State   string         `json:"state"`
	Cells   [][]maze.Walls `json:"cells"`
}

// Snapshot copies the session state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		GameID:  s.gameID,
		Rows:    s.rows,
		Cols:    s.cols,
		Player:  s.player,
		Exit:    s.grid.Exit(),
		Moves:   s.moves,
		Message: s.message,
		State:   s.state.String(),
		Cells:   s.grid.Cells(),
	}
}
