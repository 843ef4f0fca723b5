package queue

import (
	"fmt"
	"sync"
)

// JobFactory, boş bir job instance üretir. Bağımlılıklar closure ile verilir:
//
//	registry.Register("applicant.mail", func() queue.Job {
//	    return &jobs.ApplicantMail{Mailer: mailer}
//	})
type JobFactory func() Job

// Registry, job adlarını factory'lere eşler. Worker, kuyruktan okuduğu
// payload'ı bu sayede tekrar Job'a çevirir.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]JobFactory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]JobFactory)}
}

func (r *Registry) Register(name string, factory JobFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

func (r *Registry) Create(name string) (Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("job tipi register edilmemiş: %s", name)
	}
	return factory(), nil
}
