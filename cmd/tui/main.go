package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/osintdash/graphkit/pkg/cache"
	"github.com/osintdash/graphkit/pkg/canvas"
	"github.com/osintdash/graphkit/pkg/config"
	"github.com/osintdash/graphkit/pkg/expand"
	"github.com/osintdash/graphkit/pkg/graph"
	"github.com/osintdash/graphkit/pkg/layout"
	"github.com/osintdash/graphkit/pkg/logging"
	"github.com/osintdash/graphkit/pkg/pubsub"
	"github.com/osintdash/graphkit/pkg/render"
)

var statusStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#9AA4B2")).
	MarginLeft(1)

type keyMap struct {
	Layout key.Binding
	Fit    key.Binding
	Export key.Binding
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Escape key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Layout: key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "circular layout")),
	Fit:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "center view")),
	Export: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export graph")),
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "menu up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "menu down")),
	Enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run entry")),
	Escape: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close menu")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Layout, k.Fit, k.Export, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Layout, k.Fit, k.Export},
		{k.Up, k.Down, k.Enter, k.Escape},
		{k.Quit},
	}
}

type expandDoneMsg struct {
	result *expand.Result
	err    error
}

type noticeExpiredMsg struct{}

// graphChangedMsg is delivered whenever the store publishes a mutation on
// the change bus, so the view re-renders even for mutations made outside
// the Update loop.
type graphChangedMsg struct{}

type model struct {
	store      *graph.Store
	executor   *expand.Executor
	controller *canvas.Controller
	view       *canvas.Viewport
	layoutCfg  layout.Config
	changes    *pubsub.Subscription

	help    help.Model
	keys    keyMap
	spinner spinner.Model

	width, height int
	busy          bool
	notice        string
	menuIndex     int

	// set by the controller's menu callbacks, consumed by Update
	pendingExpand [2]string // transformID, nodeID
}

func initialModel(store *graph.Store, executor *expand.Executor, view *canvas.Viewport, events *pubsub.Bus, layoutCfg layout.Config) *model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B64F"))

	m := &model{
		store:      store,
		executor:   executor,
		view:       view,
		layoutCfg:  layoutCfg,
		help:       help.New(),
		keys:       keys,
		spinner:    sp,
		controller: canvas.NewController(store, view, events),
	}

	if events != nil {
		m.changes, _ = events.Subscribe(context.Background(), pubsub.TopicGraph)
	}

	m.controller.OnExpand = func(transformID, nodeID string) {
		m.pendingExpand = [2]string{transformID, nodeID}
	}
	m.controller.OnDelete = func(nodeID string) {
		if err := store.RemoveNode(nodeID); err != nil {
			m.notice = "delete failed: " + err.Error()
		}
	}
	return m
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForChange(m.changes))
}

// waitForChange blocks on the change-bus subscription and turns each event
// into a message; Update re-arms it, so every published mutation triggers a
// render pass.
func waitForChange(sub *pubsub.Subscription) tea.Cmd {
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-sub.Events(); !ok {
			return nil
		}
		return graphChangedMsg{}
	}
}

func (m *model) expandCmd(transformID, nodeID string) tea.Cmd {
	return func() tea.Msg {
		source, err := m.store.Node(nodeID)
		if err != nil {
			return expandDoneMsg{err: err}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		result, err := m.executor.ExecuteTransform(ctx, transformID, source)
		return expandDoneMsg{result: result, err: err}
	}
}

func noticeExpiry() tea.Cmd {
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return noticeExpiredMsg{}
	})
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.view.Width = float64(msg.Width)
		m.view.Height = float64(msg.Height - 2) // status and help rows

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case tea.KeyMsg:
		return m.updateKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case graphChangedMsg:
		// Returning from Update is the redraw; just re-arm the listener.
		return m, waitForChange(m.changes)

	case expandDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.notice = "expansion failed: " + msg.err.Error()
			return m, noticeExpiry()
		}
		if err := m.store.Apply(msg.result.Nodes, msg.result.Edges); err != nil {
			m.notice = "applying results failed: " + err.Error()
			return m, noticeExpiry()
		}
		m.notice = fmt.Sprintf("added %d nodes", len(msg.result.Nodes))
		return m, noticeExpiry()

	case noticeExpiredMsg:
		m.notice = ""
	}

	return m, nil
}

func (m *model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	screen := graph.Position{X: float64(msg.X), Y: float64(msg.Y)}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.controller.PointerDown(screen, canvas.ButtonPrimary)
		case tea.MouseButtonRight:
			m.controller.PointerDown(screen, canvas.ButtonSecondary)
			m.menuIndex = 0
		case tea.MouseButtonWheelUp:
			m.controller.Wheel(-1)
		case tea.MouseButtonWheelDown:
			m.controller.Wheel(1)
		}
	case tea.MouseActionMotion:
		m.controller.PointerMove(screen)
	case tea.MouseActionRelease:
		m.controller.PointerUp()
	}
	return m, nil
}

func (m *model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if menu := m.controller.Menu(); menu != nil {
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.menuIndex > 0 {
				m.menuIndex--
			}
		case key.Matches(msg, m.keys.Down):
			if m.menuIndex < len(menu.Entries)-1 {
				m.menuIndex++
			}
		case key.Matches(msg, m.keys.Enter):
			entry := menu.Entries[m.menuIndex]
			m.controller.MenuSelect(entry.ID)
			if m.pendingExpand[0] != "" {
				transformID, nodeID := m.pendingExpand[0], m.pendingExpand[1]
				m.pendingExpand = [2]string{}
				m.busy = true
				return m, m.expandCmd(transformID, nodeID)
			}
		case key.Matches(msg, m.keys.Escape):
			m.controller.CloseMenu()
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Layout):
		if err := layout.Apply(m.layoutCfg, m.store, m.view.WorldCenter()); err != nil {
			m.notice = "layout failed: " + err.Error()
			return m, noticeExpiry()
		}
	case key.Matches(msg, m.keys.Fit):
		if center, ok := layout.Centroid(m.store.Nodes()); ok {
			m.view.CenterOn(center)
		}
	case key.Matches(msg, m.keys.Export):
		name := graph.ExportFilename(time.Now())
		data, err := graph.MarshalDocument(m.store.Serialize())
		if err == nil {
			err = os.WriteFile(name, data, 0o644)
		}
		if err != nil {
			m.notice = "export failed: " + err.Error()
		} else {
			m.notice = "exported " + name
		}
		return m, noticeExpiry()
	}
	return m, nil
}

func (m *model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	canvasRows := m.height - 2
	if canvasRows < 1 {
		canvasRows = 1
	}
	frame := render.Build(m.store, m.view, render.Options{
		SelectedID: m.controller.SelectedID(),
		HoveredID:  m.controller.HoveredID(),
		Menu:       m.highlightedMenu(),
		Busy:       m.busy,
		Notice:     m.notice,
	})

	surface := render.NewRasterizer(m.width, canvasRows).Render(frame)

	nodes, edges := m.store.Counts()
	status := fmt.Sprintf("%d nodes · %d edges · zoom %.1fx", nodes, edges, m.view.Scale)
	if m.busy {
		status = m.spinner.View() + " expanding · " + status
	}

	return surface + "\n" + statusStyle.Render(status) + "\n" + m.help.View(m.keys)
}

// highlightedMenu returns the open menu with the keyboard-selected entry
// marked, leaving the controller's copy untouched.
func (m *model) highlightedMenu() *canvas.ContextMenu {
	menu := m.controller.Menu()
	if menu == nil {
		return nil
	}
	marked := *menu
	marked.Entries = make([]canvas.MenuEntry, len(menu.Entries))
	copy(marked.Entries, menu.Entries)
	if m.menuIndex >= 0 && m.menuIndex < len(marked.Entries) {
		marked.Entries[m.menuIndex].Label = "▸ " + marked.Entries[m.menuIndex].Label
	}
	return &marked
}

func main() {
	seedValue := flag.String("seed", "", "Seed entity value, e.g. example.com")
	seedType := flag.String("type", "domain", "Seed entity type")
	flag.Parse()

	cfg, _, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	events := pubsub.NewBus()
	defer events.Shutdown()

	store := graph.NewStore()
	store.SetEventBus(events)

	executor := expand.NewExecutor(expand.Options{
		Cache:  cache.New(),
		Events: events,
	})
	expand.RegisterDefaults(executor, cfg.ProviderSettings(), logging.Nop{}, nil)

	view := canvas.NewViewport(120, 40)

	if *seedValue != "" {
		entityType := graph.EntityType(*seedType)
		if !entityType.Valid() {
			fmt.Fprintf(os.Stderr, "unknown entity type %q\n", *seedType)
			os.Exit(1)
		}
		seed := graph.NewNode(entityType, *seedValue, *seedValue)
		seed.Position = view.WorldCenter()
		if err := store.AddNode(seed); err != nil {
			fmt.Fprintf(os.Stderr, "seeding graph: %v\n", err)
			os.Exit(1)
		}
	}

	m := initialModel(store, executor, view, events, layout.Config{Radius: cfg.Layout.Radius})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
