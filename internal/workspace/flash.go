package workspace

import "sync"

// Flash queues alerts until the next rendered page shows them.
type Flash struct {
	mu       sync.Mutex
	messages []string
}

// Alert queues a message.
func (f *Flash) Alert(message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, message)
}

// Drain returns and forgets the queued messages.
func (f *Flash) Drain() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.messages
	f.messages = nil
	return out
}
