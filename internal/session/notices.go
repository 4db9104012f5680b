package session

import "sync"

const (
	NoticeSuccess = "success"
	NoticeFailure = "failure"
)

type Notice struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Notices keeps the last submission outcome of a session until the client
// has seen it once.
type Notices struct {
	mu   sync.Mutex
	last *Notice
}

func (n *Notices) NotifySuccess(message string) {
	n.set(NoticeSuccess, message)
}

func (n *Notices) NotifyFailure(message string) {
	n.set(NoticeFailure, message)
}

func (n *Notices) set(kind, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.last = &Notice{Kind: kind, Message: message}
}

// Take returns the pending notice, if any, and clears it.
func (n *Notices) Take() *Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.last
	n.last = nil
	return out
}
