package actions

import (
	"sync"
	"time"

	"github.com/andyhorn/debounce/models"
)

type recorder struct {
	start time.Time

	mu     sync.Mutex
	result models.Result
}

func newRecorder() *recorder {
	return &recorder{start: time.Now()}
}

func (r *recorder) trigger() {
	r.mu.Lock()
	r.result.Triggers++
	r.mu.Unlock()
}

func (r *recorder) run(run models.Run) {
	r.mu.Lock()
	r.result.Runs = append(r.result.Runs, run)
	r.mu.Unlock()
}

func (r *recorder) skip() {
	r.mu.Lock()
	r.result.Skipped++
	r.mu.Unlock()
}

func (r *recorder) finish() *models.Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := r.result
	result.Runs = append([]models.Run(nil), r.result.Runs...)
	result.Duration = time.Since(r.start)
	return &result
}
