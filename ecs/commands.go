package ecs

import "fmt"

// CommandKind identifies a deferred Registry operation.
type CommandKind uint8

const (
	CommandAdd CommandKind = iota + 1
	CommandDestroy
	CommandRelease
	CommandDestroyAll
	CommandReleaseAll
	// CommandSync re-evaluates group membership of an entity whose components
	// changed while an update was running.
	CommandSync
)

func (k CommandKind) String() string {
	switch k {
	case CommandAdd:
		return "add"
	case CommandDestroy:
		return "destroy"
	case CommandRelease:
		return "release"
	case CommandDestroyAll:
		return "destroy-all"
	case CommandReleaseAll:
		return "release-all"
	case CommandSync:
		return "sync"
	default:
		return fmt.Sprintf("CommandKind(%d)", uint8(k))
	}
}

// Command is a structural change requested while the Registry was updating.
// Entity is nil for CommandDestroyAll and CommandReleaseAll.
type Command struct {
	Kind   CommandKind
	Entity *Entity
}

func (c Command) String() string {
	if c.Entity == nil {
		return c.Kind.String()
	}
	return fmt.Sprintf("%s %v", c.Kind, c.Entity)
}

// commandQueue is a FIFO of deferred commands. Commands pushed while draining
// are appended and drained in the same pass.
type commandQueue struct {
	items []Command
}

func (q *commandQueue) push(kind CommandKind, e *Entity) {
	q.items = append(q.items, Command{Kind: kind, Entity: e})
}

func (q *commandQueue) pop() (Command, bool) {
	if len(q.items) == 0 {
		return Command{}, false
	}
	cmd := q.items[0]
	q.items[0] = Command{}
	q.items = q.items[1:]
	if len(q.items) == 0 {
		q.items = nil
	}
	return cmd, true
}

func (q *commandQueue) len() int {
	return len(q.items)
}

func (q *commandQueue) snapshot() []Command {
	out := make([]Command, len(q.items))
	copy(out, q.items)
	return out
}

func (q *commandQueue) reset() {
	q.items = nil
}
