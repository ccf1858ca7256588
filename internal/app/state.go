// Package app provides application lifecycle management, configuration, and events.
package app

import (
	"sync"

	"sld-editor/internal/config"
	"sld-editor/internal/diagram"
	"sld-editor/internal/model"
	"sld-editor/internal/project"
	"sld-editor/pkg/geometry"
)

// State holds the application state: the current project, the open
// diagram views, and the event bus the UI panels subscribe to. Diagram
// mutation happens on the Fyne event thread; the mutex only guards the
// listener table, which background watchers touch.
type State struct {
	mu sync.RWMutex

	// Project
	Project     *model.Project
	ProjectPath string
	Modified    bool

	// Open diagram views and their cameras.
	Views *diagram.Registry

	Config *config.Config

	// Event listeners
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventProjectLoaded EventType = iota
	EventProjectSaved
	EventStructureChanged
	EventPositionChanged
	EventConnectionAdded
	EventSelectionChanged
	EventViewOpened
	EventViewClosed
	EventModified
	EventConfigReloaded
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates a new application state with an empty project.
func NewState(cfg *config.Config) *State {
	return &State{
		Project:   model.NewProject("Untitled"),
		Views:     newRegistry(cfg),
		Config:    cfg,
		listeners: make(map[EventType][]EventListener),
	}
}

func newRegistry(cfg *config.Config) *diagram.Registry {
	canvas := geometry.Size{Width: cfg.Canvas.Width, Height: cfg.Canvas.Height}
	return diagram.NewRegistry(canvas, cfg.Zoom.Min, cfg.Zoom.Max)
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetModified marks the project as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	s.Modified = modified
	s.mu.Unlock()
	s.Emit(EventModified, modified)
}

// NewProject discards the current project and starts an empty one.
func (s *State) NewProject(name string) {
	s.mu.Lock()
	s.Project = model.NewProject(name)
	s.ProjectPath = ""
	s.Modified = false
	s.Views = newRegistry(s.Config)
	s.mu.Unlock()

	s.Emit(EventProjectLoaded, "")
}

// LoadProject loads a project from the specified path and restores the
// views that were open when it was saved.
func (s *State) LoadProject(path string) error {
	f, err := project.Load(path)
	if err != nil {
		return err
	}
	canvas := geometry.Size{Width: s.Config.Canvas.Width, Height: s.Config.Canvas.Height}
	p, err := f.Restore(canvas)
	if err != nil {
		return err
	}

	views := newRegistry(s.Config)
	for _, vr := range f.Views {
		vs := views.Open(diagram.ViewID(vr.Block))
		// Zoom before pan: SetZoom adjusts pan around the pivot.
		vs.Camera.SetZoom(vr.Zoom, geometry.Point2D{})
		vs.Camera.SetPan(geometry.Point2D{X: vr.PanX, Y: vr.PanY})
	}

	s.mu.Lock()
	s.Project = p
	s.ProjectPath = path
	s.Modified = false
	s.Views = views
	s.mu.Unlock()

	s.Emit(EventProjectLoaded, path)
	return nil
}

// SaveProject saves the project and the open view cameras to the
// specified path.
func (s *State) SaveProject(path string) error {
	f := project.New(s.Project.Name)
	f.Snapshot(s.Project)
	for _, id := range s.Views.OpenViews() {
		vs, err := s.Views.Get(id)
		if err != nil {
			continue
		}
		pan := vs.Camera.Pan()
		f.Views = append(f.Views, project.ViewRecord{
			Block: model.BlockID(id),
			Zoom:  vs.Camera.Zoom(),
			PanX:  pan.X,
			PanY:  pan.Y,
		})
	}

	if err := f.Save(path); err != nil {
		return err
	}

	s.mu.Lock()
	s.ProjectPath = path
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventProjectSaved, path)
	return nil
}

// MoveBlock updates a block position and notifies listeners. Used by
// the canvas on drag release and by the tree panel's placement action.
func (s *State) MoveBlock(id model.BlockID, pos geometry.Point2D) error {
	if err := s.Project.SetPosition(id, pos); err != nil {
		return err
	}
	s.SetModified(true)
	s.Emit(EventPositionChanged, id)
	return nil
}

// Connect adds a connection between two terminals and notifies
// listeners on success.
func (s *State) Connect(a, b model.TerminalID) error {
	if err := s.Project.AddConnection(a, b); err != nil {
		return err
	}
	s.SetModified(true)
	s.Emit(EventConnectionAdded, model.Connection{LeftID: a, RightID: b})
	return nil
}

// RemoveBlock deletes a block subtree and notifies listeners.
func (s *State) RemoveBlock(id model.BlockID) error {
	if err := s.Project.RemoveBlock(id); err != nil {
		return err
	}
	s.Views.Close(diagram.ViewID(id))
	s.SetModified(true)
	s.Emit(EventStructureChanged, id)
	return nil
}
