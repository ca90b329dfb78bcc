package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"water-billing-backend/internal/metrics"
	"water-billing-backend/internal/store"
)

// ErrQueueFull is returned by Dispatch when no worker can take the job.
var ErrQueueFull = errors.New("export queue is full")

// jobRetention is how long finished job states stay queryable.
const jobRetention = time.Hour

// ReportSource loads the data behind a client report.
type ReportSource interface {
	ClientReport(ctx context.Context, clientID int64) (store.ClientReport, error)
}

// ReportSink persists a rendered report under a file name.
type ReportSink interface {
	Save(name string, body []byte) (string, error)
}

// DirSink writes reports into a directory.
type DirSink struct {
	Dir string
}

// Save writes body to Dir/name and returns the full path.
func (s DirSink) Save(name string, body []byte) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}

// JobState is the lifecycle stage of an export job.
type JobState string

const (
	JobQueued JobState = "queued"
	JobDone   JobState = "done"
	JobFailed JobState = "failed"
)

// JobStatus describes an export job.
type JobStatus struct {
	ID       string   `json:"id"`
	ClientID int64    `json:"clientId"`
	State    JobState `json:"state"`
	Path     string   `json:"path,omitempty"`
	Error    string   `json:"error,omitempty"`
}

type job struct {
	id       string
	clientID int64
}

// WorkerPool manages a pool of workers writing client reports.
type WorkerPool struct {
	size   int
	jobs   chan job
	source ReportSource
	sink   ReportSink
	states *cache.Cache
	loc    *time.Location
	now    func() time.Time
	log    *zap.Logger
	wg     sync.WaitGroup
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, source ReportSource, sink ReportSink, loc *time.Location, log *zap.Logger) *WorkerPool {
	if size < 1 {
		size = 1
	}
	return &WorkerPool{
		size:   size,
		jobs:   make(chan job, size*4),
		source: source,
		sink:   sink,
		states: cache.New(jobRetention, jobRetention),
		loc:    loc,
		now:    time.Now,
		log:    log,
	}
}

// Start launches the worker goroutines. They exit when ctx is done, after
// finishing the job in hand.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, i)
	}
}

// Wait blocks until every worker has exited or ctx is done.
func (wp *WorkerPool) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		wp.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	defer wp.wg.Done()
	wp.log.Debug("export worker started", zap.Int("worker", id))
	for {
		select {
		case j := <-wp.jobs:
			wp.run(ctx, j)
		case <-ctx.Done():
			wp.log.Debug("export worker shutting down", zap.Int("worker", id))
			return
		}
	}
}

// Dispatch queues a report for clientID and returns the job id.
func (wp *WorkerPool) Dispatch(clientID int64) (string, error) {
	j := job{id: uuid.NewString(), clientID: clientID}
	wp.states.SetDefault(j.id, JobStatus{ID: j.id, ClientID: clientID, State: JobQueued})

	select {
	case wp.jobs <- j:
		return j.id, nil
	default:
		wp.states.Delete(j.id)
		metrics.ObserveExport("rejected")
		return "", ErrQueueFull
	}
}

// Status returns the state of a job dispatched within the retention window.
func (wp *WorkerPool) Status(id string) (JobStatus, bool) {
	v, ok := wp.states.Get(id)
	if !ok {
		return JobStatus{}, false
	}
	return v.(JobStatus), true
}

func (wp *WorkerPool) run(ctx context.Context, j job) {
	status := JobStatus{ID: j.id, ClientID: j.clientID}
	path, err := wp.export(ctx, j)
	if err != nil {
		status.State = JobFailed
		status.Error = err.Error()
		wp.log.Error("client report export failed", zap.String("job_id", j.id),
			zap.Int64("client_id", j.clientID), zap.Error(err))
		metrics.ObserveExport("failed")
	} else {
		status.State = JobDone
		status.Path = path
		wp.log.Info("client report exported", zap.String("job_id", j.id),
			zap.Int64("client_id", j.clientID), zap.String("path", path))
		metrics.ObserveExport("ok")
	}
	wp.states.SetDefault(j.id, status)
}

func (wp *WorkerPool) export(ctx context.Context, j job) (string, error) {
	report, err := wp.source.ClientReport(ctx, j.clientID)
	if err != nil {
		return "", err
	}
	now := wp.now()
	name := fmt.Sprintf("client_%d_%s_%s.txt", j.clientID, now.In(wp.loc).Format("20060102_150405"), j.id[:8])
	return wp.sink.Save(name, RenderReport(report, wp.loc, now))
}
