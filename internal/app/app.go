// Package app contains the root application model.
package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/wildo/internal/cachemanager"
	"github.com/zjrosen/wildo/internal/config"
	"github.com/zjrosen/wildo/internal/content"
	"github.com/zjrosen/wildo/internal/flags"
	"github.com/zjrosen/wildo/internal/keys"
	"github.com/zjrosen/wildo/internal/log"
	"github.com/zjrosen/wildo/internal/store"
	"github.com/zjrosen/wildo/internal/ui/help"
	"github.com/zjrosen/wildo/internal/ui/listview"
	"github.com/zjrosen/wildo/internal/ui/statusbar"
	"github.com/zjrosen/wildo/internal/ui/styles"
	"github.com/zjrosen/wildo/internal/watcher"
)

// Options wires the model to its collaborators.
type Options struct {
	Config config.Config
	// Context is the state to edit, usually loaded from Store.
	Context *content.Context
	Store   store.Store
	// Writer identifies this process in saved snapshots. Generated when empty.
	Writer string
	Flags  *flags.Registry
	// Tracer wraps key handling and persistence in spans. Nil disables tracing.
	Tracer trace.Tracer
	// WatchPath is the file the watcher follows when the watch flag is on.
	WatchPath string
}

// Model is the root application state.
type Model struct {
	ctx    *content.Context
	store  store.Store
	writer string
	cfg    config.Config
	flags  *flags.Registry
	tracer trace.Tracer

	renderer *listview.Renderer
	status   statusbar.Model
	help     help.Model
	showHelp bool

	width  int
	height int

	// baseline is the registry fingerprint at the last load or save.
	baseline string
	modified bool

	logCancel   context.CancelFunc
	logListener *log.LogListener

	watcher *watcher.Watcher
	changes <-chan struct{}
}

// New creates the model. Call Close once the program has exited.
func New(opts Options) Model {
	writer := opts.Writer
	if writer == "" {
		writer = uuid.NewString()
	}

	logCtx, cancel := context.WithCancel(context.Background())

	cache := cachemanager.NewInMemoryCacheManager[string, string]("rows", time.Minute, 5*time.Minute)

	m := Model{
		ctx:         opts.Context,
		store:       opts.Store,
		writer:      writer,
		cfg:         opts.Config,
		flags:       opts.Flags,
		tracer:      opts.Tracer,
		renderer:    listview.NewRenderer(cache),
		status:      statusbar.New(hints(opts.Config.UI)...),
		help:        help.New(opts.Config.UI.MarkdownStyle),
		logCancel:   cancel,
		logListener: log.NewListener(logCtx),
	}
	m.baseline, _ = store.Fingerprint(m.ctx.Registry)

	if m.flags.Enabled(flags.FlagWatch) && opts.WatchPath != "" {
		m.startWatcher(opts.WatchPath)
	}
	return m
}

func hints(ui config.UIConfig) []key.Binding {
	if !ui.ShowHelp {
		return nil
	}
	return keys.Global.ShortHelp()
}

func (m *Model) startWatcher(path string) {
	w, err := watcher.Watch(path, watcher.DefaultDebounce)
	if err != nil {
		log.ErrorErr(log.CatWatcher, "watcher unavailable", err, "path", path)
		return
	}
	m.watcher = w
	m.changes = w.Changes()
}

// Close stops the watcher and the log subscription.
func (m Model) Close() {
	if m.watcher != nil {
		if err := m.watcher.Close(); err != nil {
			log.ErrorErr(log.CatWatcher, "stopping watcher", err)
		}
	}
	m.logCancel()
}

// Context returns the state being edited.
func (m Model) Context() *content.Context { return m.ctx }

// Writer returns the id stamped on snapshots saved by this model.
func (m Model) Writer() string { return m.writer }

// Modified reports whether there are edits since the last load or save.
func (m Model) Modified() bool { return m.modified }

type tickMsg time.Time

func (m Model) tick() tea.Cmd {
	interval := m.cfg.UI.TickInterval
	if interval <= 0 {
		interval = config.Defaults().UI.TickInterval
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.tick()}
	if m.logListener != nil {
		cmds = append(cmds, m.logListener.Listen())
	}
	if m.changes != nil {
		cmds = append(cmds, watcher.WaitCmd(m.changes))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.status = m.status.SetWidth(msg.Width)
		m.help = m.help.SetSize(msg.Width, m.bodyHeight())
		return m, nil

	case tickMsg:
		m.status = m.status.Expire(time.Time(msg))
		return m, m.tick()

	case log.LogEvent:
		m.status = m.status.Show(msg.Payload)
		return m, m.logListener.Listen()

	case watcher.ChangedMsg:
		if err := m.reload(context.Background()); err != nil {
			log.ErrorErr(log.CatWatcher, "reload failed", err)
		}
		return m, watcher.WaitCmd(m.changes)

	case tea.KeyMsg:
		if m.showHelp {
			return m.updateHelp(msg)
		}
		cmd := m.handleKey(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "?", "esc", "q":
		m.showHelp = false
		return m, nil
	}
	var cmd tea.Cmd
	m.help, cmd = m.help.Update(msg)
	return m, cmd
}

func (m Model) bodyHeight() int {
	return max(m.height-m.status.Height()-1, 0)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	body := m.drawFocused()
	if m.showHelp {
		body = m.help.Overlay(body)
	}
	status := m.status.SetUnsaved(m.modified)
	return lipgloss.JoinVertical(lipgloss.Left, m.breadcrumb(), body, status.View())
}

func (m Model) drawFocused() string {
	dc := listview.DrawContext{Width: m.width, Height: m.bodyHeight(), Focused: true}

	_, focused, err := m.ctx.Focused()
	if err != nil {
		return styles.StatusErrorStyle.Render(err.Error())
	}
	w, ok := focused.AsWidget()
	if !ok {
		return styles.MutedStyle.Render(focused.AsTextual().Text())
	}
	if p, ok := focused.AsProvider(); ok {
		dc.Selected = p.Cursor().Index()
	}
	return m.renderer.Draw(w.Display(content.NewDisplayContext(m.ctx.Registry)), dc)
}
