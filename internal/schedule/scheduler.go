package schedule

import (
	"errors"
	"sync"
	"time"
)

var (
	// ErrJobExists is returned by Schedule when a job is already armed for
	// the identifier.
	ErrJobExists = errors.New("schedule: job already armed")

	// ErrJobNotFound is returned by Reschedule when no job is armed for the
	// identifier.
	ErrJobNotFound = errors.New("schedule: job not found")
)

// job is one armed timer. The pointer doubles as the job's generation:
// a fired timer whose job was since replaced or cancelled compares unequal
// and does nothing.
type job struct {
	timer *time.Timer
	fn    func()
}

// Scheduler runs keyed one-shot jobs on stdlib timers. Callbacks execute on
// the timer goroutine with no scheduler lock held, so they may schedule and
// cancel jobs themselves.
type Scheduler struct {
	mu   sync.Mutex
	jobs map[string]*job
}

// New creates an empty Scheduler.
func New() *Scheduler {
	return &Scheduler{jobs: make(map[string]*job)}
}

// Schedule arms fn to run once at fireAt under the given identifier.
// It fails with ErrJobExists if a job is already armed for id; callers
// that want sliding behavior use Reschedule.
func (s *Scheduler) Schedule(id string, fireAt time.Time, fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[id]; ok {
		return ErrJobExists
	}

	j := &job{fn: fn}
	j.timer = time.AfterFunc(time.Until(fireAt), func() { s.fire(id, j) })
	s.jobs[id] = j
	return nil
}

// Reschedule moves an armed job's fire time without invoking its callback.
// The callback remains the one captured at Schedule. Fails with
// ErrJobNotFound if no job is armed for id.
func (s *Scheduler) Reschedule(id string, fireAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return ErrJobNotFound
	}

	if j.timer.Stop() {
		j.timer.Reset(time.Until(fireAt))
		return nil
	}

	// The timer already fired and its fire() is waiting on mu. Replace the
	// job so the stale fire() sees a different pointer and backs off.
	nj := &job{fn: j.fn}
	nj.timer = time.AfterFunc(time.Until(fireAt), func() { s.fire(id, nj) })
	s.jobs[id] = nj
	return nil
}

// Cancel disarms a job; no-op if nothing is armed for id.
func (s *Scheduler) Cancel(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if j, ok := s.jobs[id]; ok {
		j.timer.Stop()
		delete(s.jobs, id)
	}
}

// Len returns the number of currently armed jobs.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Stop disarms all jobs. Jobs whose timers have already fired may still run
// their callbacks.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, j := range s.jobs {
		j.timer.Stop()
		delete(s.jobs, id)
	}
}

// fire runs when a timer elapses. The job is removed before the callback
// runs, so the identifier is immediately free for a new Schedule and the
// callback executes without holding the scheduler lock.
func (s *Scheduler) fire(id string, j *job) {
	s.mu.Lock()
	cur, ok := s.jobs[id]
	if !ok || cur != j {
		// Cancelled or replaced while this fire was in flight.
		s.mu.Unlock()
		return
	}
	delete(s.jobs, id)
	s.mu.Unlock()

	j.fn()
}
