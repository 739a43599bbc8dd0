package game

import (
	"sync"
	"time"
)

// Ticker schedules the turn countdown. Start calls fn every interval until
// the returned stop function is called. Stop must be safe to call twice.
type Ticker interface {
	Start(interval time.Duration, fn func()) (stop func())
}

// TimeTicker drives the countdown from the wall clock.
type TimeTicker struct{}

func (TimeTicker) Start(interval time.Duration, fn func()) func() {
	t := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-t.C:
				fn()
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.Stop()
			close(done)
		})
	}
}
