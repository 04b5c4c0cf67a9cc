package dashboard

import (
	"sync"
	"time"

	"invdash/internal/events"
)

// View is the dashboard state of one signed-in browser session.
type View struct {
	List       *ProductList
	Form       *Form
	Inbox      *Inbox
	Controller *Controller

	lastSeen time.Time
}

func NewView(gw Gateway, pub events.Publisher, policy Policy) *View {
	list := NewProductList(gw)
	form := NewForm()
	inbox := &Inbox{}
	return &View{
		List:       list,
		Form:       form,
		Inbox:      inbox,
		Controller: NewController(gw, list, form, inbox, pub, policy),
	}
}

// Views keeps one View per sid.
type Views struct {
	gw     Gateway
	pub    events.Publisher
	policy Policy

	mu    sync.Mutex
	views map[string]*View
}

func NewViews(gw Gateway, pub events.Publisher, policy Policy) *Views {
	return &Views{gw: gw, pub: pub, policy: policy, views: map[string]*View{}}
}

// Get returns the view for sid, creating it on first use.
func (v *Views) Get(sid string) *View {
	v.mu.Lock()
	defer v.mu.Unlock()
	view, ok := v.views[sid]
	if !ok {
		view = NewView(v.gw, v.pub, v.policy)
		v.views[sid] = view
	}
	view.lastSeen = time.Now()
	return view
}

// Drop forgets the view for sid (logout).
func (v *Views) Drop(sid string) {
	v.mu.Lock()
	delete(v.views, sid)
	v.mu.Unlock()
}

// Sweep drops views idle for longer than maxIdle and returns how many went.
func (v *Views) Sweep(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	v.mu.Lock()
	defer v.mu.Unlock()
	n := 0
	for sid, view := range v.views {
		if view.Controller.Busy() {
			continue
		}
		if view.lastSeen.Before(cutoff) {
			delete(v.views, sid)
			n++
		}
	}
	return n
}

func (v *Views) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.views)
}
