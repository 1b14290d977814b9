package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/1broseidon/solowindow/internal/arbiter"
	"github.com/1broseidon/solowindow/internal/config"
)

// SettingsTab shows the effective configuration and edits it with a form.
type SettingsTab struct {
	client     Client
	configPath string
	result     *config.LoadResult
	loadErr    error

	editing bool
	form    *huh.Form

	// Form-bound values (strings for huh, converted on submit)
	fPolicy        string
	fMonitors      bool
	fDesktops      bool
	fOverlap       bool
	fPinnedShield  bool
	fPinHotkey     string
	fSweepHotkey   string
	fMaxSweeps     string
	fIntervalSecs  string
	fIntentTimeout string

	width  int
	height int
}

// NewSettingsTab loads the config at configPath.
func NewSettingsTab(client Client, configPath string) SettingsTab {
	st := SettingsTab{client: client, configPath: configPath}
	st.load()
	return st
}

func (st *SettingsTab) load() {
	res, err := config.LoadFromPath(st.configPath)
	if err != nil {
		st.loadErr = err
		return
	}
	st.result = res
	st.loadErr = nil
}

// Update implements the sub-model update.
func (st SettingsTab) Update(msg tea.Msg) (SettingsTab, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		st.width = ws.Width
		st.height = ws.Height
	}

	if !st.editing {
		if km, ok := msg.(tea.KeyMsg); ok && km.String() == "e" {
			if err := st.startEditing(); err != nil {
				return st, statusCmd(err.Error())
			}
			return st, st.form.Init()
		}
		return st, nil
	}

	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "esc" {
		st.editing = false
		st.form = nil
		return st, nil
	}

	form, cmd := st.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		st.form = f
	}

	switch st.form.State {
	case huh.StateCompleted:
		saved := st.applyForm()
		return st, saved
	case huh.StateAborted:
		st.editing = false
		st.form = nil
		return st, nil
	}
	return st, cmd
}

func (st *SettingsTab) startEditing() error {
	if st.result == nil {
		if st.loadErr != nil {
			return fmt.Errorf("fix the config file first: %v", st.loadErr)
		}
		return fmt.Errorf("config not loaded")
	}
	if len(st.result.Files) > 1 {
		return fmt.Errorf("config uses include; edit %s directly", st.configPath)
	}

	cfg := st.result.Config
	st.fPolicy = cfg.Policy
	st.fMonitors = cfg.RespectMonitors
	st.fDesktops = cfg.RespectVirtualDesktops
	st.fOverlap = cfg.RespectOverlap
	st.fPinnedShield = cfg.PinnedWindowsDontMinimize
	st.fPinHotkey = cfg.PinHotkey
	st.fSweepHotkey = cfg.SweepHotkey
	st.fMaxSweeps = strconv.Itoa(cfg.MaxSweeps)
	st.fIntervalSecs = strconv.Itoa(cfg.ReconcileIntervalSeconds)
	st.fIntentTimeout = strconv.Itoa(cfg.IntentTimeoutSeconds)

	policyOpts := make([]huh.Option[string], 0, len(arbiter.PolicyNames()))
	for _, name := range arbiter.PolicyNames() {
		policyOpts = append(policyOpts, huh.NewOption(name, name))
	}

	w := st.width - 4
	if w < 40 {
		w = 40
	}

	st.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("policy").
				Title("Policy").
				Description("Which window counts as the one in use").
				Options(policyOpts...).
				Value(&st.fPolicy),
			huh.NewConfirm().
				Key("respect_monitors").
				Title("Respect monitors").
				Description("Only minimize windows on the same monitor").
				Value(&st.fMonitors),
			huh.NewConfirm().
				Key("respect_virtual_desktops").
				Title("Respect virtual desktops").
				Description("Only minimize windows on the same desktop").
				Value(&st.fDesktops),
			huh.NewConfirm().
				Key("respect_overlap").
				Title("Respect overlap").
				Description("Only minimize windows that overlap").
				Value(&st.fOverlap),
			huh.NewConfirm().
				Key("pinned_windows_dont_minimize").
				Title("Pinned windows don't minimize others").
				Value(&st.fPinnedShield),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("pin_hotkey").
				Title("Pin hotkey").
				Description("X11 keybinding that toggles the pin on the active window").
				Validate(nonEmpty).
				Value(&st.fPinHotkey),
			huh.NewInput().
				Key("sweep_hotkey").
				Title("Sweep hotkey").
				Description("Empty disables").
				Value(&st.fSweepHotkey),
			huh.NewInput().
				Key("max_sweeps").
				Title("Max sweeps").
				Description("0 is unlimited").
				Validate(nonNegativeInt).
				Value(&st.fMaxSweeps),
			huh.NewInput().
				Key("reconcile_interval_seconds").
				Title("Reconcile interval (seconds)").
				Description("0 disables").
				Validate(nonNegativeInt).
				Value(&st.fIntervalSecs),
			huh.NewInput().
				Key("intent_timeout_seconds").
				Title("Intent timeout (seconds)").
				Validate(nonNegativeInt).
				Value(&st.fIntentTimeout),
		),
	).WithWidth(w).WithShowHelp(true).WithShowErrors(true)

	st.editing = true
	return nil
}

// formConfig builds a config from the form values on top of base.
func (st *SettingsTab) formConfig(base *config.Config) (*config.Config, error) {
	cfg := *base
	cfg.Policy = st.fPolicy
	cfg.RespectMonitors = st.fMonitors
	cfg.RespectVirtualDesktops = st.fDesktops
	cfg.RespectOverlap = st.fOverlap
	cfg.PinnedWindowsDontMinimize = st.fPinnedShield
	cfg.PinHotkey = strings.TrimSpace(st.fPinHotkey)
	cfg.SweepHotkey = strings.TrimSpace(st.fSweepHotkey)

	var err error
	if cfg.MaxSweeps, err = strconv.Atoi(strings.TrimSpace(st.fMaxSweeps)); err != nil {
		return nil, fmt.Errorf("max_sweeps: %w", err)
	}
	if cfg.ReconcileIntervalSeconds, err = strconv.Atoi(strings.TrimSpace(st.fIntervalSecs)); err != nil {
		return nil, fmt.Errorf("reconcile_interval_seconds: %w", err)
	}
	if cfg.IntentTimeoutSeconds, err = strconv.Atoi(strings.TrimSpace(st.fIntentTimeout)); err != nil {
		return nil, fmt.Errorf("intent_timeout_seconds: %w", err)
	}
	return &cfg, nil
}

// applyForm saves the edited config and asks the daemon to reload it.
func (st *SettingsTab) applyForm() tea.Cmd {
	st.editing = false
	st.form = nil

	cfg, err := st.formConfig(st.result.Config)
	if err == nil {
		err = cfg.SaveTo(st.configPath)
	}
	if err != nil {
		return statusCmd("save failed: " + err.Error())
	}
	st.load()
	return reloadCmd(st.client, "saved "+st.configPath)
}

func (st SettingsTab) View() string {
	if st.editing && st.form != nil {
		return st.form.View()
	}
	if st.loadErr != nil {
		return messageStyle.Render("config error: " + st.loadErr.Error())
	}
	if st.result == nil {
		return ""
	}

	lines := []string{labelStyle.Render("File") + st.configPath}
	for _, key := range config.Keys() {
		value, src, err := config.Explain(st.result, key)
		if err != nil {
			continue
		}
		origin := "default"
		if src.Kind == config.SourceFile {
			origin = fmt.Sprintf("%s:%d", src.File, src.Line)
		}
		lines = append(lines, fmt.Sprintf("%s%-16v %s", labelStyle.Render(key), value, labelStyle.UnsetWidth().Render(origin)))
	}
	return strings.Join(lines, "\n")
}

func nonEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("must not be empty")
	}
	return nil
}

func nonNegativeInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if n < 0 {
		return fmt.Errorf("must be >= 0")
	}
	return nil
}
