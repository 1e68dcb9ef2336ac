package schedule

import "sync"

// Override forces the shop open or closed regardless of the schedule.
type Override int

const (
	UseSchedule Override = iota
	ForceOpen
	ForceClosed
)

// OverrideState holds the process-wide manual override. It is deliberately
// not persisted: a restart falls back to UseSchedule, which is accepted
// behavior, not data loss. Writes are last-write-wins.
type OverrideState struct {
	mu    sync.RWMutex
	value Override
}

func NewOverrideState() *OverrideState {
	return &OverrideState{value: UseSchedule}
}

func (s *OverrideState) Set(v Override) {
	s.mu.Lock()
	s.value = v
	s.mu.Unlock()
}

func (s *OverrideState) Get() Override {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}
