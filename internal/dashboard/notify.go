package dashboard

import "sync"

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notification is a dismissible message for the user.
type Notification struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Kind    Kind   `json:"kind"`
}

type Notifier interface {
	Notify(n Notification)
}

// Inbox queues notifications until the next render drains them.
type Inbox struct {
	mu    sync.Mutex
	queue []Notification
}

func (b *Inbox) Notify(n Notification) {
	b.mu.Lock()
	b.queue = append(b.queue, n)
	b.mu.Unlock()
}

func (b *Inbox) Drain() []Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.queue
	b.queue = nil
	return out
}

const genericFailure = "Something went wrong while saving the product."

func failure(err error) Notification {
	msg := genericFailure
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return Notification{Title: "Something went wrong!", Message: msg, Kind: KindError}
}
