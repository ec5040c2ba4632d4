// Package view renders game state for the terminal.
package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/palemoky/maze-escape/internal/game"
	"github.com/palemoky/maze-escape/internal/maze"
	"github.com/palemoky/maze-escape/internal/storage"
	"github.com/palemoky/maze-escape/internal/ui/common"
)

// RenderMaze draws the maze with the player, start and exit marked.
// Every cell is three columns wide and one line tall, so a rows x cols
// maze takes 2*rows+1 lines of 4*cols+1 columns.
func RenderMaze(s game.Snapshot) string {
	wall := common.WallStyle.Render

	var sb strings.Builder
	sb.WriteString(wall("+" + strings.Repeat("---+", s.Cols)))
	sb.WriteString("\n")

	for y := 0; y < s.Rows; y++ {
		sb.WriteString(wall("|"))
		for x := 0; x < s.Cols; x++ {
			sb.WriteString(renderCell(s, maze.Point{X: x, Y: y}))
			if s.Cells[y][x].Right {
				sb.WriteString(wall("|"))
			} else {
				sb.WriteString(" ")
			}
		}
		sb.WriteString("\n")

		sb.WriteString(wall("+"))
		for x := 0; x < s.Cols; x++ {
			if s.Cells[y][x].Bottom {
				sb.WriteString(wall("---+"))
			} else {
				sb.WriteString("   " + wall("+"))
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func renderCell(s game.Snapshot, p maze.Point) string {
	switch {
	case p == s.Player:
		return " " + common.PlayerStyle.Render(common.PlayerGlyph) + " "
	case p == s.Exit:
		return " " + common.ExitStyle.Render(common.ExitGlyph) + " "
	case p == (maze.Point{}):
		return " " + common.StartStyle.Render(common.StartGlyph) + " "
	}
	return "   "
}

// RenderStatus is the line under the maze: size, moves and any extra
// fields the caller adds.
func RenderStatus(s game.Snapshot, extra ...string) string {
	fields := append([]string{fmt.Sprintf("%dx%d", s.Rows, s.Cols), fmt.Sprintf("Moves: %d", s.Moves)}, extra...)
	return common.StatusStyle.Render(strings.Join(fields, "  "))
}

// RenderResult shows the win message, or nothing while the game runs.
func RenderResult(s game.Snapshot) string {
	if s.Message == "" {
		return ""
	}
	return common.WinStyle.Render("🎉 " + s.Message + "  Press N for a new maze.")
}

// RenderRecords lists escape records, fewest moves first, followed by the
// total number of escapes for the size.
func RenderRecords(rows, cols int, escapes int64, entries []storage.RankedRecord) string {
	var sb strings.Builder
	sb.WriteString(common.TitleStyle(fmt.Sprintf("Best escapes %dx%d", rows, cols)))
	sb.WriteString("\n")
	if len(entries) == 0 {
		sb.WriteString(common.NoticeStyle.Render("No escapes yet."))
		return common.BoxStyle.Render(sb.String())
	}
	for _, e := range entries {
		fmt.Fprintf(&sb, "\n#%-3d %-18s %4d moves  %s", e.Rank, truncate(e.PlayerName, 18), e.Moves,
			e.Duration().Round(100*time.Millisecond))
	}
	if escapes > 0 {
		noun := "escapes"
		if escapes == 1 {
			noun = "escape"
		}
		sb.WriteString("\n\n")
		sb.WriteString(common.NoticeStyle.Render(fmt.Sprintf("%d %s recorded", escapes, noun)))
	}
	return common.BoxStyle.Render(sb.String())
}

func truncate(name string, maxLen int) string {
	runes := []rune(name)
	if len(runes) > maxLen {
		return string(runes[:maxLen-1]) + "…"
	}
	return name
}
