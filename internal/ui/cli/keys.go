// # internal/ui/cli/keys.go
package cli

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	Left, Right, Up, Down key.Binding
	Top, Bottom           key.Binding
	Features              key.Binding
	Open                  key.Binding
	Quit                  key.Binding
}

var keys = keyMap{
	Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
	Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Top:      key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "top")),
	Bottom:   key.NewBinding(key.WithKeys("G"), key.WithHelp("G", "bottom")),
	Features: key.NewBinding(key.WithKeys("1", "2", "3", "4", "5"), key.WithHelp("1-5", "toggle feature")),
	Open:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open in $EDITOR")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func renderHelp() string {
	parts := make([]string, 0, 8)
	for _, b := range []key.Binding{keys.Left, keys.Right, keys.Up, keys.Down, keys.Features, keys.Open, keys.Quit} {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return statusStyle.Render("Keys: " + strings.Join(parts, " | "))
}

type sourceTarget struct {
	file string
	line int
	col  int
}

type sourceJumpResultMsg struct {
	target string
	err    error
}

func jumpToSourceCmd(target sourceTarget) tea.Cmd {
	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	cmd := exec.Command(editor, editorArgs(editor, target)...)
	label := fmt.Sprintf("%s:%d:%d", target.file, target.line, target.col)
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return sourceJumpResultMsg{target: label, err: err}
	})
}

func editorArgs(editor string, target sourceTarget) []string {
	base := editor
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	switch {
	case strings.Contains(base, "vim") || base == "vi" || base == "nano":
		return []string{fmt.Sprintf("+%d", target.line), target.file}
	case base == "code" || base == "hx" || base == "subl":
		if base == "code" {
			return []string{"--goto", fmt.Sprintf("%s:%d:%d", target.file, target.line, target.col)}
		}
		return []string{fmt.Sprintf("%s:%d:%d", target.file, target.line, target.col)}
	}
	return []string{target.file}
}
