package tui

import "github.com/charmbracelet/lipgloss"

// Classic desktop palette
var (
	Teal      = lipgloss.Color("#008080")
	Silver    = lipgloss.Color("#c0c0c0")
	Gray      = lipgloss.Color("#808080")
	Navy      = lipgloss.Color("#000080")
	White     = lipgloss.Color("#ffffff")
	Black     = lipgloss.Color("#000000")
	Green     = lipgloss.Color("#33ff66")
	Red       = lipgloss.Color("#ff5555")
	Yellow    = lipgloss.Color("#ffff55")
	Charcoal  = lipgloss.Color("#1e1e1e")
	LightGray = lipgloss.Color("#dfdfdf")
)

// styleKey names the style of one canvas cell.
type styleKey int

const (
	sDesktop styleKey = iota
	sIcon
	sIconSelected
	sBorder
	sBorderActive
	sTitle
	sTitleActive
	sBody
	sConsole
	sConsoleInput
	sConsoleError
	sMuted
	sError
	sTaskbar
	sStart
	sTaskItem
	sTaskItemActive
	sTaskItemMinimized
	sMenu
	sMenuSelected
)

// Styles maps every cell style to its lipgloss rendition.
type Styles map[styleKey]lipgloss.Style

// DefaultStyles returns the desktop theme.
func DefaultStyles() Styles {
	base := lipgloss.NewStyle()
	return Styles{
		sDesktop:           base.Background(Teal).Foreground(White),
		sIcon:              base.Background(Teal).Foreground(White),
		sIconSelected:      base.Background(Navy).Foreground(White).Bold(true),
		sBorder:            base.Background(Silver).Foreground(Gray),
		sBorderActive:      base.Background(Silver).Foreground(Black),
		sTitle:             base.Background(Gray).Foreground(LightGray),
		sTitleActive:       base.Background(Navy).Foreground(White).Bold(true),
		sBody:              base.Background(Silver).Foreground(Black),
		sConsole:           base.Background(Charcoal).Foreground(LightGray),
		sConsoleInput:      base.Background(Charcoal).Foreground(Green),
		sConsoleError:      base.Background(Charcoal).Foreground(Red),
		sMuted:             base.Background(Silver).Foreground(Gray),
		sError:             base.Background(Silver).Foreground(Red),
		sTaskbar:           base.Background(Silver).Foreground(Black),
		sStart:             base.Background(Silver).Foreground(Black).Bold(true),
		sTaskItem:          base.Background(Silver).Foreground(Black),
		sTaskItemActive:    base.Background(LightGray).Foreground(Black).Bold(true),
		sTaskItemMinimized: base.Background(Silver).Foreground(Gray),
		sMenu:              base.Background(Silver).Foreground(Black),
		sMenuSelected:      base.Background(Navy).Foreground(White),
	}
}

// Editor chrome is drawn with lipgloss directly.
var (
	editorHeader = lipgloss.NewStyle().Background(LightGray).Foreground(Black).Bold(true)
	editorStatus = lipgloss.NewStyle().Foreground(Yellow)
	editorHelp   = lipgloss.NewStyle().Foreground(Gray)
)

var iconGlyphs = map[string]rune{
	"computer":   '⌂',
	"folder":     '▤',
	"internet":   '◎',
	"document":   '≡',
	"terminal":   '▸',
	"chat":       '✉',
	"image":      '▨',
	"video":      '▶',
	"paint":      '✎',
	"camera":     '◉',
	"game":       '♠',
	"cpp":        '⚙',
	"calculator": '±',
	"tictactoe":  '#',
	"snake":      '∿',
	"solitaire":  '♣',
	"game2048":   '▦',
	"notepad":    '✐',
}

func glyph(icon string) rune {
	if r, ok := iconGlyphs[icon]; ok {
		return r
	}
	return '◆'
}
