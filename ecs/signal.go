package ecs

// Signal is a synchronous multicast callback list. Slots run in connection order.
type Signal[T any] struct {
	nextID uint64
	slots  []signalSlot[T]
}

type signalSlot[T any] struct {
	id uint64
	fn func(T)
}

// Connect registers fn and returns a token for Disconnect.
func (s *Signal[T]) Connect(fn func(T)) uint64 {
	s.nextID++
	s.slots = append(s.slots, signalSlot[T]{id: s.nextID, fn: fn})
	return s.nextID
}

// Disconnect removes the slot registered under token.
func (s *Signal[T]) Disconnect(token uint64) bool {
	for i, slot := range s.slots {
		if slot.id == token {
			s.slots = append(s.slots[:i:i], s.slots[i+1:]...)
			return true
		}
	}
	return false
}

// Emit calls every connected slot with v.
func (s *Signal[T]) Emit(v T) {
	if len(s.slots) == 0 {
		return
	}
	// slots may disconnect themselves while running
	slots := s.slots
	for _, slot := range slots {
		slot.fn(v)
	}
}

// Len returns the number of connected slots.
func (s *Signal[T]) Len() int {
	return len(s.slots)
}
