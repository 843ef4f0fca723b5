// -----------------------------------------------------------------------------
// Queue
// -----------------------------------------------------------------------------
// İstek döngüsünün dışında çalışması gereken işler (başvuru sahibine giden
// bildirim mailleri gibi) için job kuyruğu.
//
// Driver'lar:
//   - SyncQueue:  job'ı Push anında çalıştırır (development, test)
//   - RedisQueue: job'ı Redis list'ine yazar, Worker ayrı goroutine'de işler
// -----------------------------------------------------------------------------

package queue

import (
	"context"
	"time"
)

// Queue, tüm queue driver'ların implement ettiği arayüz.
type Queue interface {
	// Push, job'ı hemen kuyruğa ekler.
	Push(ctx context.Context, job Job, queue string) error

	// Later, job'ı delay sonra işlenecek şekilde kuyruğa ekler.
	Later(ctx context.Context, delay time.Duration, job Job, queue string) error

	// Pop, kuyruktan bir job çeker. Kuyruk boşsa (nil, nil) döner.
	Pop(ctx context.Context, queue string) (Job, error)

	// Delete, başarıyla işlenen job'ı reserved kümesinden siler.
	Delete(ctx context.Context, queue string, job Job) error

	// Release, başarısız job'ı attempt sayısını artırarak tekrar kuyruğa
	// ekler. Deneme hakkı bittiyse job failed listesine taşınır.
	Release(ctx context.Context, queue string, job Job, delay time.Duration) error

	// Size, bekleyen (anlık + gecikmeli) job sayısı.
	Size(ctx context.Context, queue string) (int64, error)
}
