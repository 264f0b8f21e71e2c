// Package nav names the client routes and records navigation requests.
package nav

import "sync"

// Route is a navigation destination.
type Route string

// Stack routes.
const (
	RouteLogin    Route = "Login"
	RouteHomeTabs Route = "HomeTabs"
)

// Tab routes inside HomeTabs.
const (
	TabMedicalFiles Route = "Medical Files"
	TabAppointment  Route = "Appointment"
	TabProfile      Route = "Profile"
)

// Tab describes one entry of the authenticated tab bar.
type Tab struct {
	Route       Route
	Label       string
	Icon        string
	FocusedIcon string
}

// Tabs returns the HomeTabs entries in display order.
func Tabs() []Tab {
	return []Tab{
		{Route: TabMedicalFiles, Label: "Medical Files", Icon: "medkit-outline", FocusedIcon: "medkit"},
		{Route: TabAppointment, Label: "Appointment", Icon: "alarm-outline", FocusedIcon: "alarm"},
		{Route: TabProfile, Label: "Profile", Icon: "person-outline", FocusedIcon: "person"},
	}
}

// Navigator moves between routes.
type Navigator interface {
	// Navigate pushes route onto the history.
	Navigate(route Route)
	// Reset replaces the whole history with route.
	Reset(route Route)
}

// ActionKind distinguishes Navigate from Reset.
type ActionKind string

const (
	ActionNavigate ActionKind = "navigate"
	ActionReset    ActionKind = "reset"
)

// Action is one recorded navigation request.
type Action struct {
	Kind  ActionKind
	Route Route
}

// Recorder is a Navigator that keeps the history in memory.
// The terminal client uses it to decide what to render next.
type Recorder struct {
	mu      sync.Mutex
	stack   []Route
	actions []Action
}

// NewRecorder creates a Recorder starting at initial.
func NewRecorder(initial Route) *Recorder {
	r := &Recorder{}
	if initial != "" {
		r.stack = []Route{initial}
	}
	return r
}

func (r *Recorder) Navigate(route Route) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stack = append(r.stack, route)
	r.actions = append(r.actions, Action{Kind: ActionNavigate, Route: route})
}

func (r *Recorder) Reset(route Route) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stack = []Route{route}
	r.actions = append(r.actions, Action{Kind: ActionReset, Route: route})
}

// Current returns the top of the history, or "" if empty.
func (r *Recorder) Current() Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.stack) == 0 {
		return ""
	}
	return r.stack[len(r.stack)-1]
}

// Actions returns a copy of every recorded request.
func (r *Recorder) Actions() []Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Action, len(r.actions))
	copy(out, r.actions)
	return out
}

// Depth returns the number of routes in the history.
func (r *Recorder) Depth() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stack)
}
