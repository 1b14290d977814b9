package palette

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os/exec"
	"strconv"
	"strings"
)

type dmenuLikeBackend struct {
	command string
	rofi    bool

	// run is replaced in tests.
	run func(name string, args []string, stdin string) (string, error)
}

// NewRofiBackend drives rofi in dmenu mode with markup, row states and
// index output.
func NewRofiBackend() Backend {
	return &dmenuLikeBackend{command: "rofi", rofi: true, run: runCommand}
}

// NewDmenuBackend drives plain dmenu, matching the selection by label.
func NewDmenuBackend() Backend {
	return &dmenuLikeBackend{command: "dmenu", run: runCommand}
}

func (b *dmenuLikeBackend) Name() string { return b.command }

func (b *dmenuLikeBackend) Show(prompt string, items []Item, message string) (Item, error) {
	if len(items) == 0 {
		return Item{}, fmt.Errorf("palette: no items to show")
	}

	displayItems := make([]Item, len(items))
	copy(displayItems, items)

	input, active := b.formatInput(displayItems)
	out, err := b.run(b.command, b.buildArgs(prompt, message, active), input)
	selection := strings.TrimSpace(out)
	if err != nil {
		if selection == "" && isCancelExit(err) {
			return Item{}, ErrCancelled
		}
		return Item{}, err
	}
	if selection == "" {
		return Item{}, ErrCancelled
	}

	item, err := b.parseSelection(selection, displayItems)
	if err != nil {
		return Item{}, err
	}
	// dmenu cannot enforce non-selectable rows.
	if !item.Selectable() {
		return Item{}, ErrCancelled
	}
	return item, nil
}

func (b *dmenuLikeBackend) buildArgs(prompt string, message string, active []int) []string {
	if !b.rofi {
		args := []string{"-i"}
		if prompt != "" {
			args = append(args, "-p", prompt)
		}
		return args
	}

	args := []string{"-dmenu", "-i"}
	if prompt != "" {
		args = append(args, "-p", prompt)
	}
	// Labels may contain ':' or markup, so select by index.
	args = append(args, "-format", "i", "-no-custom", "-markup-rows", "-show-icons")
	if len(active) > 0 {
		args = append(args, "-a", formatIndices(active), "-selected-row", strconv.Itoa(active[0]))
	}
	if message != "" {
		args = append(args, "-mesg", message)
	}
	return args
}

func (b *dmenuLikeBackend) formatInput(items []Item) (string, []int) {
	lines := make([]string, 0, len(items))
	var active []int

	// dmenu echoes the label back, so duplicate labels must differ.
	if !b.rofi {
		seen := make(map[string]int)
		for i := range items {
			if !items[i].Selectable() {
				continue
			}
			key := sanitizeLabel(items[i].Label)
			if count := seen[key]; count > 0 {
				items[i].Label = fmt.Sprintf("%s (%d)", key, count+1)
			}
			seen[key]++
		}
	}

	for i, item := range items {
		lines = append(lines, b.formatItem(item))
		if b.rofi && item.IsActive && item.Selectable() {
			active = append(active, i)
		}
	}
	return strings.Join(lines, "\n"), active
}

func (b *dmenuLikeBackend) formatItem(item Item) string {
	display := sanitizeLabel(item.Label)
	if !b.rofi {
		return display
	}

	display = html.EscapeString(display)
	if item.IsHeader {
		display = fmt.Sprintf("<b>%s</b>", display)
	} else if item.IsDivider {
		display = fmt.Sprintf("<span foreground='#666666'>%s</span>", display)
	}

	// Rofi row properties: one NUL, then \x1f-delimited key/value pairs.
	var attrs []string
	if !item.Selectable() {
		attrs = append(attrs, "nonselectable", "true")
	}
	if item.Icon != "" {
		attrs = append(attrs, "icon", sanitizeRofiField(item.Icon))
	}
	if item.Meta != "" {
		attrs = append(attrs, "meta", sanitizeRofiField(item.Meta))
	}
	if len(attrs) == 0 {
		return display
	}
	return display + "\x00" + strings.Join(attrs, "\x1f")
}

func (b *dmenuLikeBackend) parseSelection(selection string, items []Item) (Item, error) {
	if b.rofi {
		if idx, err := strconv.Atoi(selection); err == nil {
			if idx < 0 || idx >= len(items) {
				return Item{}, fmt.Errorf("palette: index %d out of range", idx)
			}
			return items[idx], nil
		}
	}
	for _, item := range items {
		if sanitizeLabel(item.Label) == selection {
			return item, nil
		}
	}
	return Item{}, fmt.Errorf("palette: unknown selection %q", selection)
}

func runCommand(name string, args []string, stdin string) (string, error) {
	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(stdin)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil && !isCancelExit(err) {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return string(out), fmt.Errorf("%s failed: %s", name, msg)
		}
		return string(out), fmt.Errorf("%s failed: %w", name, err)
	}
	return string(out), err
}

func sanitizeLabel(label string) string {
	label = strings.ReplaceAll(label, "\r", " ")
	label = strings.ReplaceAll(label, "\n", " ")
	return strings.TrimSpace(label)
}

func sanitizeRofiField(value string) string {
	value = strings.ReplaceAll(value, "\x00", " ")
	value = strings.ReplaceAll(value, "\x1f", " ")
	return sanitizeLabel(value)
}

func formatIndices(indices []int) string {
	parts := make([]string, 0, len(indices))
	for _, i := range indices {
		parts = append(parts, strconv.Itoa(i))
	}
	return strings.Join(parts, ",")
}

// isCancelExit reports exit code 1 (no selection) or 130 (Ctrl+C).
func isCancelExit(err error) bool {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return false
	}
	switch exitErr.ExitCode() {
	case 1, 130:
		return true
	default:
		return false
	}
}
