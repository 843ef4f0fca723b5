package queue

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
)

// SyncQueue, job'ı Push anında çalıştırır. Gecikme ve retry uygulanmaz;
// başarısız job'ın Failed'ı hemen çağrılır.
type SyncQueue struct {
	logger *log.Logger
}

func NewSyncQueue(logger *log.Logger) *SyncQueue {
	return &SyncQueue{logger: logger}
}

func (s *SyncQueue) Push(ctx context.Context, job Job, queue string) error {
	meta := job.Meta()
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}
	meta.Queue = queue

	if err := job.Handle(ctx); err != nil {
		s.logger.Printf("❌ Job başarısız: %s %s (%v)", job.Name(), meta.ID, err)
		job.Failed(err)
		return err
	}
	s.logger.Printf("⚡ Job çalıştırıldı: %s %s", job.Name(), meta.ID)
	return nil
}

// Later, sync driver'da gecikmeyi yok sayar.
func (s *SyncQueue) Later(ctx context.Context, _ time.Duration, job Job, queue string) error {
	return s.Push(ctx, job, queue)
}

func (s *SyncQueue) Pop(context.Context, string) (Job, error) { return nil, nil }

func (s *SyncQueue) Delete(context.Context, string, Job) error { return nil }

func (s *SyncQueue) Release(context.Context, string, Job, time.Duration) error { return nil }

func (s *SyncQueue) Size(context.Context, string) (int64, error) { return 0, nil }
