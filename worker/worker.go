package worker

import (
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/oomph-ac/culling/oerror"
	"github.com/sirupsen/logrus"
)

// Pool runs submitted jobs on a fixed set of goroutines. A job that panics is reported to sentry and logged;
// the worker that ran it keeps going.
type Pool struct {
	log   *logrus.Logger
	queue chan func()

	jobs    sync.WaitGroup
	workers sync.WaitGroup

	closeOnce sync.Once
}

// New starts a pool with n workers. If n is not positive, one worker is started.
func New(n int, log *logrus.Logger) *Pool {
	if n <= 0 {
		n = 1
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	p := &Pool{log: log, queue: make(chan func(), n)}
	p.workers.Add(n)
	for i := 0; i < n; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.workers.Done()

	for {
		f, ok := <-p.queue
		if !ok {
			return
		}
		p.run(f)
	}
}

// run runs a single job, recovering from any panic it causes.
func (p *Pool) run(f func()) {
	defer p.jobs.Done()
	defer func() {
		if err := recover(); err != nil {
			p.log.Errorf("worker job panicked: %v", err)
			hub := sentry.CurrentHub().Clone()
			hub.Recover(oerror.New("worker job panicked: %v", err))
			hub.Flush(time.Second * 5)
		}
	}()
	f()
}

// Submit queues f to be run by a worker. It blocks while all workers are busy and the queue is full. Submit
// must not be called after Close.
func (p *Pool) Submit(f func()) {
	p.jobs.Add(1)
	p.queue <- f
}

// Wait blocks until every job submitted so far has finished.
func (p *Pool) Wait() {
	p.jobs.Wait()
}

// Close waits for all jobs to finish and stops the workers. Calling Close more than once is a no-op.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.jobs.Wait()
		close(p.queue)
		p.workers.Wait()
	})
}
