package canvas

import (
	"math"

	"github.com/osintdash/graphkit/pkg/graph"
	"github.com/osintdash/graphkit/pkg/pubsub"
	"github.com/osintdash/graphkit/pkg/transform"
)

// State is the interaction state machine's current mode.
type State int

const (
	Idle State = iota
	Selecting
	DraggingNode
	PanningCanvas
	ContextMenuOpen
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Selecting:
		return "selecting"
	case DraggingNode:
		return "dragging"
	case PanningCanvas:
		return "panning"
	case ContextMenuOpen:
		return "menu"
	default:
		return "unknown"
	}
}

// Button identifies which pointer button went down.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
)

// MenuEntry is one selectable row of the context menu.
type MenuEntry struct {
	ID    string // transform id, or "delete"
	Label string
	Icon  string
}

// MenuDelete is the id of the deletion entry present in every menu.
const MenuDelete = "delete"

// ContextMenu records the node and screen position a secondary click opened
// a menu at.
type ContextMenu struct {
	NodeID  string
	Screen  graph.Position
	Entries []MenuEntry
}

// Controller is the pointer-driven state machine. All of its methods run on
// the UI event loop, so transitions are atomic with respect to each other.
type Controller struct {
	store *graph.Store
	view  *Viewport

	state      State
	selectedID string
	hoveredID  string

	dragNodeID string
	dragOffset graph.Position // world-space offset from pointer to node center

	panPointer graph.Position // screen position where the pan began

	menu *ContextMenu

	events *pubsub.Bus

	// OnExpand and OnDelete are invoked when a menu entry is chosen. The
	// frontend owns what happens next (running the transform, removing
	// the node); the controller only returns to Idle.
	OnExpand func(transformID, nodeID string)
	OnDelete func(nodeID string)
}

// NewController creates a controller in the Idle state.
func NewController(store *graph.Store, view *Viewport, events *pubsub.Bus) *Controller {
	return &Controller{store: store, view: view, events: events}
}

// State returns the current machine state.
func (c *Controller) State() State { return c.state }

// SelectedID returns the selected node id, or "".
func (c *Controller) SelectedID() string { return c.selectedID }

// HoveredID returns the hovered node id, or "".
func (c *Controller) HoveredID() string { return c.hoveredID }

// Menu returns the open context menu, or nil.
func (c *Controller) Menu() *ContextMenu { return c.menu }

// HitTest finds the topmost node under the given world position: nodes are
// checked in reverse insertion order so the most recently drawn node wins
// on overlap. A node is hit when the pointer is within half its radius of
// the node center.
func (c *Controller) HitTest(world graph.Position) *graph.Node {
	nodes := c.store.Nodes()
	for i := len(nodes) - 1; i >= 0; i-- {
		node := nodes[i]
		radius := node.EffectiveStyle().Radius
		if math.Hypot(world.X-node.Position.X, world.Y-node.Position.Y) <= radius/2 {
			return node
		}
	}
	return nil
}

// PointerDown begins a gesture. Primary on a node selects it and arms a
// drag; primary on empty space arms a pan; secondary on a node opens the
// context menu.
func (c *Controller) PointerDown(screen graph.Position, button Button) {
	world := c.view.ToWorld(screen)
	hit := c.HitTest(world)

	if button == ButtonSecondary {
		if hit != nil {
			c.openMenu(hit, screen)
		} else {
			c.closeMenu()
			c.state = Idle
		}
		c.changed()
		return
	}

	// Any primary press dismisses an open menu.
	c.menu = nil

	if hit != nil {
		c.state = Selecting
		c.selectedID = hit.ID
		c.dragNodeID = hit.ID
		c.dragOffset = graph.Position{
			X: world.X - hit.Position.X,
			Y: world.Y - hit.Position.Y,
		}
	} else {
		c.state = PanningCanvas
		c.selectedID = ""
		c.panPointer = screen
	}
	c.changed()
}

// PointerMove advances a drag or pan, and tracks hover when idle. The first
// movement after pressing on a node promotes Selecting to DraggingNode.
func (c *Controller) PointerMove(screen graph.Position) {
	switch c.state {
	case Selecting:
		c.state = DraggingNode
		fallthrough
	case DraggingNode:
		world := c.view.ToWorld(screen)
		pos := graph.Position{
			X: world.X - c.dragOffset.X,
			Y: world.Y - c.dragOffset.Y,
		}
		// The store publishes the change; a vanished node ends the drag.
		if err := c.store.UpdateNodePosition(c.dragNodeID, pos); err != nil {
			c.state = Idle
			c.dragNodeID = ""
		}
	case PanningCanvas:
		c.view.Pan(screen.X-c.panPointer.X, screen.Y-c.panPointer.Y)
		c.panPointer = screen
		c.changed()
	case Idle:
		hovered := ""
		if hit := c.HitTest(c.view.ToWorld(screen)); hit != nil {
			hovered = hit.ID
		}
		if hovered != c.hoveredID {
			c.hoveredID = hovered
			c.changed()
		}
	}
}

// PointerUp ends the current gesture and returns to Idle. A press-and-
// release without movement leaves the node selected.
func (c *Controller) PointerUp() {
	switch c.state {
	case Selecting, DraggingNode, PanningCanvas:
		c.state = Idle
		c.dragNodeID = ""
		c.changed()
	}
}

// Wheel applies one zoom notch. It never changes the machine state.
func (c *Controller) Wheel(delta float64) {
	c.view.Zoom(delta)
	c.changed()
}

// MenuSelect invokes the chosen menu entry and returns to Idle. Unknown
// entries just close the menu. With no menu open it is a no-op, so a stray
// call cannot cancel a drag or pan in progress.
func (c *Controller) MenuSelect(entryID string) {
	if c.state != ContextMenuOpen || c.menu == nil {
		return
	}
	menu := c.menu
	c.closeMenu()
	c.state = Idle
	c.changed()

	if entryID == MenuDelete {
		if c.OnDelete != nil {
			c.OnDelete(menu.NodeID)
		}
		return
	}
	for _, entry := range menu.Entries {
		if entry.ID == entryID && entry.ID != MenuDelete {
			if c.OnExpand != nil {
				c.OnExpand(entry.ID, menu.NodeID)
			}
			return
		}
	}
}

// CloseMenu dismisses the menu without selecting anything.
func (c *Controller) CloseMenu() {
	c.closeMenu()
	if c.state == ContextMenuOpen {
		c.state = Idle
	}
	c.changed()
}

func (c *Controller) openMenu(node *graph.Node, screen graph.Position) {
	entries := make([]MenuEntry, 0, 8)
	for _, desc := range transform.TransformsFor(node.Type) {
		entries = append(entries, MenuEntry{ID: desc.ID, Label: desc.Name, Icon: desc.Icon})
	}
	entries = append(entries, MenuEntry{ID: MenuDelete, Label: "Delete Node", Icon: "✕"})

	c.menu = &ContextMenu{NodeID: node.ID, Screen: screen, Entries: entries}
	c.selectedID = node.ID
	c.state = ContextMenuOpen
}

func (c *Controller) closeMenu() {
	c.menu = nil
}

func (c *Controller) changed() {
	if c.events != nil {
		c.events.Publish(pubsub.TopicView, pubsub.ViewEvent{})
	}
}
