package worker

import (
	"runtime"
	"sync"

	"github.com/getsentry/sentry-go"
)

var workerQueue = make(chan func(), runtime.NumCPU())

func init() {
	for i := 0; i < runtime.NumCPU(); i++ {
		go worker()
	}
}

func worker() {
	for {
		f, ok := <-workerQueue
		if !ok {
			return
		}

		run(f)
	}
}

// run executes f. A panic is reported to sentry and does not take the worker down with it.
func run(f func()) {
	defer sentry.Recover()
	f()
}

// To be used by a function that may be CPU intensive.
func Submit(f func()) {
	workerQueue <- f
}

// Run submits all jobs and waits until every one of them has returned or panicked. It must not be
// called from within a job.
func Run(jobs ...func()) {
	var wg sync.WaitGroup
	wg.Add(len(jobs))
	for _, job := range jobs {
		Submit(func() {
			defer wg.Done()
			job()
		})
	}
	wg.Wait()
}
