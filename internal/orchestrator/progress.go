package orchestrator

import (
	"sync"
	"time"

	"github.com/sells-group/account-intel/internal/model"
)

// Observer receives progress notifications for a run. Implementations are
// decoupled from any presentation layer; the executor never waits on them.
type Observer interface {
	Progress(phase model.PhaseName, stage string)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(phase model.PhaseName, stage string)

// Progress implements Observer.
func (f ObserverFunc) Progress(phase model.PhaseName, stage string) {
	f(phase, stage)
}

type progressEvent struct {
	phase model.PhaseName
	stage string
}

// dispatcher delivers progress events to an observer from a dedicated
// goroutine. Sends are fire-and-forget: if the buffer is full the event is
// dropped rather than blocking a phase.
type dispatcher struct {
	events chan progressEvent
	wg     sync.WaitGroup
	closed sync.Once
}

const progressBuffer = 64

func newDispatcher(obs Observer) *dispatcher {
	d := &dispatcher{events: make(chan progressEvent, progressBuffer)}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for ev := range d.events {
			if obs != nil {
				obs.Progress(ev.phase, ev.stage)
			}
		}
	}()
	return d
}

func (d *dispatcher) notify(phase model.PhaseName, stage string) {
	select {
	case d.events <- progressEvent{phase: phase, stage: stage}:
	default:
		// Observer is behind; drop rather than stall the executor.
	}
}

// close stops the dispatcher after draining buffered events. The wait is
// bounded so a stuck observer cannot hold up run completion.
func (d *dispatcher) close() {
	d.closed.Do(func() {
		close(d.events)
	})
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
	}
}
