package worker

import "time"

func (w *RetentionWorker) SetClock(now func() time.Time) {
	w.now = now
}
