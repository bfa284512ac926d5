package logging

import (
	"sync"
)

// ErrorSampler throttles logs for a key that keeps failing. The first failure is
// logged, then one in every interval; each logged failure reports how many were
// suppressed since the previous one.
type ErrorSampler struct {
	mu       sync.Mutex
	streaks  map[string]*streak
	interval int
}

type streak struct {
	failures   int
	suppressed int
}

func NewErrorSampler(interval int) *ErrorSampler {
	if interval < 1 {
		interval = 10
	}
	return &ErrorSampler{
		streaks:  make(map[string]*streak),
		interval: interval,
	}
}

// Observe records a failure for key. It reports whether the failure should be
// logged and, if so, how many failures were swallowed before it.
func (s *ErrorSampler) Observe(key string) (bool, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.streaks[key]
	if !ok {
		st = &streak{}
		s.streaks[key] = st
	}
	st.failures++

	if st.failures == 1 || st.failures%s.interval == 0 {
		suppressed := st.suppressed
		st.suppressed = 0
		return true, suppressed
	}
	st.suppressed++
	return false, 0
}

// Failures returns the length of the current failure streak for key.
func (s *ErrorSampler) Failures(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.streaks[key]; ok {
		return st.failures
	}
	return 0
}

// Recover ends the streak for key and returns how long it was.
func (s *ErrorSampler) Recover(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.streaks[key]
	if !ok {
		return 0
	}
	delete(s.streaks, key)
	return st.failures
}
