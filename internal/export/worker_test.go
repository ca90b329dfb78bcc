package export

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"water-billing-backend/internal/model"
	"water-billing-backend/internal/store"
)

// mockSource is a mock implementation of the ReportSource interface.
type mockSource struct {
	ReportFunc func(ctx context.Context, clientID int64) (store.ClientReport, error)
}

func (m *mockSource) ClientReport(ctx context.Context, clientID int64) (store.ClientReport, error) {
	return m.ReportFunc(ctx, clientID)
}

// memorySink keeps saved reports in memory.
type memorySink struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (m *memorySink) Save(name string, body []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = body
	return "mem://" + name, nil
}

func sampleReport() store.ClientReport {
	created := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	return store.ClientReport{
		Client: model.Client{ID: 7, Name: "Ana Ruiz", Address: "Calle 5 #10", Status: model.ClientActive, CreatedAt: created},
		Payments: []model.Payment{
			{ID: 2, Amount: decimal.RequireFromString("120"), Status: model.PaymentPaid,
				PaymentDate: created.AddDate(0, 1, 0), Notes: "febrero"},
			{ID: 1, Amount: decimal.RequireFromString("80.5"), Status: model.PaymentPending, PaymentDate: created},
		},
		Consumption: []model.ConsumptionRecord{
			{ID: 1, Type: model.ConsumptionExcess, RecordedAt: created},
		},
		TotalPaid:     decimal.RequireFromString("120"),
		ExcessRecords: 1,
	}
}

func TestRenderReport(t *testing.T) {
	out := string(RenderReport(sampleReport(), time.UTC, time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)))

	assert.Contains(t, out, "Name: Ana Ruiz")
	assert.Contains(t, out, "Registered: 2026-01-10")
	assert.Contains(t, out, "Total paid: $120.00")
	assert.Contains(t, out, "[x] $120.00 - 2026-02-10 (paid)")
	assert.Contains(t, out, "    Notes: febrero")
	assert.Contains(t, out, "[ ] $80.50 - 2026-01-10 (pending)")
	assert.Contains(t, out, "Excess records: 1")
	assert.Contains(t, out, "Generated: 2026-03-01 08:30:00")
}

func TestRenderReportEmptyHistory(t *testing.T) {
	r := store.ClientReport{Client: model.Client{ID: 1, Name: "Luis Pérez"}, TotalPaid: decimal.Zero}
	out := string(RenderReport(r, time.UTC, time.Now()))

	assert.Contains(t, out, "No payments recorded")
	assert.Contains(t, out, "No consumption records")
}

func TestWriteClientsCSV(t *testing.T) {
	var b strings.Builder
	err := WriteClientsCSV(&b, []store.ClientWithStatus{
		{ID: 1, Name: "Ana Ruiz", Address: "Calle 5, #10", Status: model.ClientActive,
			PaymentStatus: model.PaymentNone, ConsumptionType: model.ConsumptionNormal},
	})
	require.NoError(t, err)

	assert.Equal(t,
		"id,name,address,status,payment_status,consumption_type\n"+
			"1,Ana Ruiz,\"Calle 5, #10\",active,no_payments,normal\n",
		b.String())
}

func TestWorkerPool_Export(t *testing.T) {
	sink := &memorySink{files: map[string][]byte{}}
	source := &mockSource{
		ReportFunc: func(ctx context.Context, clientID int64) (store.ClientReport, error) {
			if clientID == 404 {
				return store.ClientReport{}, store.ErrNotFound
			}
			return sampleReport(), nil
		},
	}
	wp := NewWorkerPool(2, source, sink, time.UTC, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	t.Run("writes the report", func(t *testing.T) {
		id, err := wp.Dispatch(7)
		require.NoError(t, err)

		require.Eventually(t, func() bool {
			st, ok := wp.Status(id)
			return ok && st.State == JobDone
		}, time.Second, 10*time.Millisecond)

		st, _ := wp.Status(id)
		assert.True(t, strings.HasPrefix(st.Path, "mem://client_7_"))

		sink.mu.Lock()
		defer sink.mu.Unlock()
		require.Len(t, sink.files, 1)
	})

	t.Run("records failures", func(t *testing.T) {
		id, err := wp.Dispatch(404)
		require.NoError(t, err)

		require.Eventually(t, func() bool {
			st, ok := wp.Status(id)
			return ok && st.State == JobFailed
		}, time.Second, 10*time.Millisecond)

		st, _ := wp.Status(id)
		assert.Contains(t, st.Error, "record not found")
	})

	t.Run("unknown job", func(t *testing.T) {
		_, ok := wp.Status("missing")
		assert.False(t, ok)
	})
}

func TestWorkerPool_QueueFull(t *testing.T) {
	source := &mockSource{
		ReportFunc: func(ctx context.Context, clientID int64) (store.ClientReport, error) {
			return store.ClientReport{}, errors.New("unused")
		},
	}
	// Not started, so nothing drains the queue.
	wp := NewWorkerPool(1, source, &memorySink{files: map[string][]byte{}}, time.UTC, zap.NewNop())

	for i := 0; i < cap(wp.jobs); i++ {
		_, err := wp.Dispatch(int64(i + 1))
		require.NoError(t, err)
	}
	_, err := wp.Dispatch(99)
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestDirSink(t *testing.T) {
	dir := t.TempDir()
	path, err := DirSink{Dir: dir + "/reports"}.Save("r.txt", []byte("hello"))
	require.NoError(t, err)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))
}

func TestWorkerPool_WaitFinishesJobInHand(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	source := &mockSource{ReportFunc: func(ctx context.Context, clientID int64) (store.ClientReport, error) {
		close(started)
		<-release
		return sampleReport(), nil
	}}
	sink := &memorySink{files: map[string][]byte{}}
	pool := NewWorkerPool(1, source, sink, time.UTC, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)
	id, err := pool.Dispatch(7)
	require.NoError(t, err)
	<-started
	cancel()

	short, stop := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer stop()
	assert.ErrorIs(t, pool.Wait(short), context.DeadlineExceeded)

	close(release)
	require.NoError(t, pool.Wait(context.Background()))

	status, ok := pool.Status(id)
	require.True(t, ok)
	assert.Equal(t, JobDone, status.State)
	sink.mu.Lock()
	assert.Len(t, sink.files, 1)
	sink.mu.Unlock()
}
