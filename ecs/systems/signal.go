package systems

import (
	"github.com/plus3/hearth/ecs"
)

// Receiver handles one signal value per call.
type Receiver[T any] interface {
	Receive(v T)
}

// SignalSystem forwards values emitted on a Signal to its processor while it is
// bound and enabled. It does no per-frame work.
type SignalSystem[T any, P Receiver[T]] struct {
	ecs.SystemBase
	Processor P

	signal *ecs.Signal[T]
	token  uint64
}

// NewSignalSystem creates a SignalSystem listening on signal.
func NewSignalSystem[T any, P Receiver[T]](signal *ecs.Signal[T], processor P) *SignalSystem[T, P] {
	return &SignalSystem[T, P]{
		Processor: processor,
		signal:    signal,
	}
}

func (s *SignalSystem[T, P]) OnBind(r *ecs.Registry) {
	s.token = s.signal.Connect(s.receive)
}

func (s *SignalSystem[T, P]) OnUnbind(r *ecs.Registry) {
	s.signal.Disconnect(s.token)
	s.token = 0
}

func (s *SignalSystem[T, P]) receive(v T) {
	if !s.Enabled() {
		return
	}
	s.Processor.Receive(v)
}

func (s *SignalSystem[T, P]) Update(frame *ecs.UpdateFrame) {}
