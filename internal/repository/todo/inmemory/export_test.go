package inmemory

import "time"

func (s *TodoStorage) SetClock(now func() time.Time) {
	s.now = now
}
