package queue

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

// Worker, kuyruktaki job'ları işler. Run, context iptal edilene kadar
// bloklar; işlenmekte olan job tamamlandıktan sonra döner.
type Worker struct {
	queue      Queue
	logger     *log.Logger
	retryDelay time.Duration
	idle       time.Duration // Pop hata verdiğinde bekleme
}

func NewWorker(queue Queue, logger *log.Logger) *Worker {
	return &Worker{
		queue:      queue,
		logger:     logger,
		retryDelay: time.Minute,
		idle:       time.Second,
	}
}

// SetRetryDelay, başarısız job'ın tekrar denenmeden önce bekleyeceği süre.
func (w *Worker) SetRetryDelay(delay time.Duration) *Worker {
	w.retryDelay = delay
	return w
}

// Run, her kuyruk için bir goroutine başlatır.
//
//	go worker.Run(ctx, "mail")
func (w *Worker) Run(ctx context.Context, queues ...string) {
	if len(queues) == 0 {
		queues = []string{"default"}
	}
	w.logger.Printf("🚀 Queue worker başladı: %v (retry %v)", queues, w.retryDelay)

	var wg sync.WaitGroup
	for _, name := range queues {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			w.loop(ctx, name)
		}(name)
	}
	wg.Wait()

	w.logger.Println("✅ Queue worker durdu")
}

func (w *Worker) loop(ctx context.Context, queueName string) {
	for ctx.Err() == nil {
		job, err := w.queue.Pop(ctx, queueName)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return
			}
			w.logger.Printf("❌ Job pop hatası [%s]: %v", queueName, err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(w.idle):
			}
			continue
		}
		if job == nil {
			continue
		}

		// Job, kapanış sinyalinden bağımsız olarak tamamlanır.
		w.process(context.WithoutCancel(ctx), queueName, job)
	}
}

func (w *Worker) process(ctx context.Context, queueName string, job Job) {
	meta := job.Meta()
	started := time.Now()

	err := job.Handle(ctx)
	if err == nil {
		w.logger.Printf("✅ Job tamamlandı: %s %s (%v)", job.Name(), meta.ID, time.Since(started))
		if delErr := w.queue.Delete(ctx, queueName, job); delErr != nil {
			w.logger.Printf("⚠️  Job silinemedi: %v", delErr)
		}
		return
	}

	w.logger.Printf("❌ Job başarısız: %s %s (deneme %d/%d): %v",
		job.Name(), meta.ID, meta.Attempts+1, meta.Tries(), err)

	if meta.Attempts+1 >= meta.Tries() {
		job.Failed(err)
	}
	if relErr := w.queue.Release(ctx, queueName, job, w.retryDelay); relErr != nil {
		w.logger.Printf("❌ Job release hatası: %v", relErr)
	}
}

// Stats, kuyruk başına bekleyen job sayısı.
func (w *Worker) Stats(ctx context.Context, queues ...string) map[string]interface{} {
	stats := make(map[string]interface{}, len(queues))
	for _, name := range queues {
		size, err := w.queue.Size(ctx, name)
		if err != nil {
			stats[name] = map[string]interface{}{"error": err.Error()}
			continue
		}
		stats[name] = map[string]interface{}{"size": size}
	}
	return stats
}
