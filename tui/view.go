package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/brensch/snekrush/game"
	"github.com/brensch/snekrush/session"
)

type cellKind uint8

const (
	cellEmpty cellKind = iota
	cellHead
	cellBody
	cellRed
	cellYellow
	cellBlue
	cellObstacle
)

// Every cell is two columns wide so the board looks square.
var cellGlyphs = [...]string{
	cellEmpty:    "  ",
	cellHead:     "██",
	cellBody:     "▓▓",
	cellRed:      "()",
	cellYellow:   "()",
	cellBlue:     "()",
	cellObstacle: "▒▒",
}

var (
	cellStyles = [...]lipgloss.Style{
		cellEmpty:    lipgloss.NewStyle(),
		cellHead:     lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A")),
		cellBody:     lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")),
		cellRed:      lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")),
		cellYellow:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00")),
		cellBlue:     lipgloss.NewStyle().Foreground(lipgloss.Color("#4D6BFF")),
		cellObstacle: lipgloss.NewStyle().Foreground(lipgloss.Color("#808080")),
	}

	boardStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#444444"))
	hudStyle   = lipgloss.NewStyle().Bold(true)
	panelStyle = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).Padding(0, 2)
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#777777"))
)

var foodCells = map[string]cellKind{
	game.Red.String():    cellRed,
	game.Yellow.String(): cellYellow,
	game.Blue.String():   cellBlue,
}

// cells lays a snapshot out row by row. Later layers win: food, then
// obstacles, then the body, then the head.
func cells(snap session.Snapshot) [][]cellKind {
	grid := make([][]cellKind, snap.Height)
	for y := range grid {
		grid[y] = make([]cellKind, snap.Width)
	}
	put := func(x, y int32, k cellKind) {
		if x >= 0 && y >= 0 && x < snap.Width && y < snap.Height {
			grid[y][x] = k
		}
	}
	for _, f := range snap.Food {
		put(f.X, f.Y, foodCells[f.Kind])
	}
	for _, o := range snap.Obstacles {
		put(o.X, o.Y, cellObstacle)
	}
	for i := len(snap.Snake) - 1; i >= 0; i-- {
		k := cellBody
		if i == 0 {
			k = cellHead
		}
		put(snap.Snake[i].X, snap.Snake[i].Y, k)
	}
	return grid
}

func renderBoard(snap session.Snapshot) string {
	var b strings.Builder
	for y, row := range cells(snap) {
		if y > 0 {
			b.WriteByte('\n')
		}
		for _, k := range row {
			b.WriteString(cellStyles[k].Render(cellGlyphs[k]))
		}
	}
	return boardStyle.Render(b.String())
}

func renderHUD(snap session.Snapshot) string {
	return hudStyle.Render(fmt.Sprintf("Score %d   Best %d   Time %ds   Speed x%.2f",
		snap.Score, snap.Best, snap.RemainingSec, snap.Speed))
}

func renderPause(snap session.Snapshot) string {
	lines := []string{titleStyle.Render("Paused"), ""}
	for _, kind := range game.FoodKinds {
		line := fmt.Sprintf("%s %-6s %2d points", cellGlyphs[foodCells[kind.String()]], kind, kind.Points())
		if kind.Slows() {
			line += ", slows you down"
		}
		lines = append(lines, cellStyles[foodCells[kind.String()]].Render(line))
	}
	lines = append(lines,
		"",
		fmt.Sprintf("Speed x%.2f (%dms per move)", snap.Speed, snap.IntervalMs),
		"",
		helpStyle.Render("p to continue, q to quit"),
	)
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func renderOver(snap session.Snapshot) string {
	lines := []string{titleStyle.Render("Game over")}
	if snap.Cause != "" {
		lines = append(lines, "Cause: "+snap.Cause)
	}
	lines = append(lines,
		fmt.Sprintf("Final score: %d", snap.Score),
		fmt.Sprintf("Best: %d", snap.Best),
		"",
		helpStyle.Render("space or r to play again, q to quit"),
	)
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	snap := m.sess.Snapshot()

	parts := []string{renderHUD(snap), renderBoard(snap)}
	switch {
	case snap.Over:
		parts = append(parts, renderOver(snap))
	case snap.Paused:
		parts = append(parts, renderPause(snap))
	default:
		parts = append(parts, helpStyle.Render("arrows/wasd/hjkl move, p pause, q quit"))
	}
	view := lipgloss.JoinVertical(lipgloss.Left, parts...)
	if m.width > 0 && m.height > 0 {
		view = lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, view)
	}
	return view
}
