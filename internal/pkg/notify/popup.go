package notify

import (
	"sync"
	"time"
)

// DefaultPopupTTL is how long a popup stays visible without interaction.
const DefaultPopupTTL = 3500 * time.Millisecond

// Notice is the content of one transient in-app notification popup.
type Notice struct {
	ConversationID string
	Title          string
	Body           string
	At             time.Time
}

// Popup holds at most one visible notice. A newer notice replaces the current
// one and restarts the display window; the notice auto-clears when the window
// elapses, or earlier when the user navigates to the conversation it points
// at. Stop must be called on screen teardown so the timer cannot fire against
// a disposed view.
type Popup struct {
	mu      sync.Mutex
	ttl     time.Duration
	current *Notice
	timer   *time.Timer
	stopped bool

	// OnChange, when set, is invoked (outside the lock) after the visible
	// notice appears or clears. Rendering code subscribes here.
	OnChange func()
}

// NewPopup constructs a popup holder with the given display window.
// Non-positive ttl falls back to DefaultPopupTTL.
func NewPopup(ttl time.Duration) *Popup {
	if ttl <= 0 {
		ttl = DefaultPopupTTL
	}
	return &Popup{ttl: ttl}
}

// Show displays a notice, replacing any currently visible one and restarting
// the auto-clear window.
func (p *Popup) Show(n Notice) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	if p.timer != nil {
		p.timer.Stop()
	}
	notice := n
	p.current = &notice
	p.timer = time.AfterFunc(p.ttl, func() { p.clearIf(notice) })
	changed := p.OnChange
	p.mu.Unlock()

	if changed != nil {
		changed()
	}
}

// Current returns the visible notice, if any.
func (p *Popup) Current() (Notice, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return Notice{}, false
	}
	return *p.current, true
}

// ClearFor dismisses the popup early if it points at the given conversation,
// typically because the user just navigated there.
func (p *Popup) ClearFor(conversationID string) {
	p.mu.Lock()
	if p.current == nil || p.current.ConversationID != conversationID {
		p.mu.Unlock()
		return
	}
	p.clearLocked()
	changed := p.OnChange
	p.mu.Unlock()

	if changed != nil {
		changed()
	}
}

// Clear dismisses any visible popup.
func (p *Popup) Clear() {
	p.mu.Lock()
	cleared := p.current != nil
	p.clearLocked()
	changed := p.OnChange
	p.mu.Unlock()

	if cleared && changed != nil {
		changed()
	}
}

// Stop cancels the pending timer and prevents further notices. Idempotent.
func (p *Popup) Stop() {
	p.mu.Lock()
	p.stopped = true
	p.clearLocked()
	p.mu.Unlock()
}

// clearIf clears only if the given notice is still the visible one; a notice
// shown after the timer was armed must not be dismissed by the stale timer.
func (p *Popup) clearIf(n Notice) {
	p.mu.Lock()
	if p.current == nil || *p.current != n {
		p.mu.Unlock()
		return
	}
	p.clearLocked()
	changed := p.OnChange
	p.mu.Unlock()

	if changed != nil {
		changed()
	}
}

func (p *Popup) clearLocked() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.current = nil
}
