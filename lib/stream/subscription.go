package stream

import "sync"

// Subscription receives the messages of a hub accepted by its filter.
type Subscription struct {
	id     string
	name   string
	filter Filter

	channel chan Message
	// dropped is guarded by the hub lock.
	dropped int

	hub       *Hub
	closeOnce sync.Once
}

// ID returns the identifier assigned to this subscription.
func (s *Subscription) ID() string {
	return s.id
}

// Name returns the name given at subscription time.
func (s *Subscription) Name() string {
	return s.name
}

// Messages returns the channel of accepted messages. It is closed by Close.
func (s *Subscription) Messages() <-chan Message {
	return s.channel
}

// Dropped returns how many accepted messages were lost to a full buffer.
func (s *Subscription) Dropped() int {
	s.hub.subsLock.Lock()
	defer s.hub.subsLock.Unlock()
	return s.dropped
}

// Close detaches the subscription from its hub and closes the message channel.
// Calling it more than once has no effect.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		s.hub.remove(s)
		close(s.channel)
	})
}
