package world

import (
	"context"
	"sync"
)

// GenerationPool generates chunks on background goroutines. Callers submit
// ids and later drain finished chunks; the pool never touches any chunk map,
// so the owner of the map stays its only writer.
type GenerationPool struct {
	gen     *Generator
	jobs    chan ChunkID
	results chan *Chunk

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

// NewGenerationPool starts workers goroutines with room for queueSize pending jobs.
func NewGenerationPool(gen *Generator, workers, queueSize int) *GenerationPool {
	ctx, cancel := context.WithCancel(context.Background())
	p := &GenerationPool{
		gen:     gen,
		jobs:    make(chan ChunkID, queueSize),
		results: make(chan *Chunk, queueSize),
		ctx:     ctx,
		cancel:  cancel,
	}
	for range max(workers, 1) {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *GenerationPool) worker() {
	defer p.wg.Done()
	for {
		select {
		case id := <-p.jobs:
			c := p.gen.Generate(id)
			select {
			case p.results <- c:
			case <-p.ctx.Done():
				return
			}
		case <-p.ctx.Done():
			return
		}
	}
}

// Submit queues id. It returns false without blocking when the queue is full
// or the pool has shut down.
func (p *GenerationPool) Submit(id ChunkID) bool {
	if p.ctx.Err() != nil {
		return false
	}
	select {
	case p.jobs <- id:
		return true
	default:
		return false
	}
}

// Drain returns every chunk finished so far without blocking.
func (p *GenerationPool) Drain() []*Chunk {
	var out []*Chunk
	for {
		select {
		case c := <-p.results:
			out = append(out, c)
		default:
			return out
		}
	}
}

// Wait blocks until one finished chunk is available or ctx is done.
func (p *GenerationPool) Wait(ctx context.Context) (*Chunk, error) {
	select {
	case c := <-p.results:
		return c, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Shutdown stops the workers and waits for them to exit. Pending jobs are dropped.
func (p *GenerationPool) Shutdown() {
	p.once.Do(func() {
		p.cancel()
		p.wg.Wait()
	})
}

// QueueLength returns the number of jobs waiting for a worker.
func (p *GenerationPool) QueueLength() int {
	return len(p.jobs)
}
