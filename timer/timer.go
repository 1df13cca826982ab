// timer/timer.go
package timer

import (
	"sync"
	"time"

	"github.com/wfunc/plaza/logger"
)

// Manager runs named recurring background jobs (gauge refresh, periodic
// stats) off the event path. Jobs are registered before Start and each runs
// on its own ticker until Stop.
type Manager struct {
	jobs    []job
	done    chan struct{}
	wg      sync.WaitGroup
	started bool
	mutex   sync.Mutex
}

type job struct {
	name     string
	interval time.Duration
	run      func()
}

func NewManager() *Manager {
	return &Manager{
		done: make(chan struct{}),
	}
}

// Add registers a recurring job. Calls after Start are ignored.
func (m *Manager) Add(name string, interval time.Duration, run func()) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.started {
		logger.Log.Warnf("Ignoring job %q registered after timer start", name)
		return
	}
	m.jobs = append(m.jobs, job{name: name, interval: interval, run: run})
}

func (m *Manager) Start() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.started {
		return
	}
	m.started = true

	for _, j := range m.jobs {
		m.wg.Add(1)
		go m.loop(j)
	}
}

func (m *Manager) loop(j job) {
	defer m.wg.Done()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.run()
		case <-m.done:
			return
		}
	}
}

// Stop halts all jobs and waits for in-flight runs to return.
func (m *Manager) Stop() {
	close(m.done)
	m.wg.Wait()
}
