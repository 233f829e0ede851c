package sim

import (
	"runtime"
	"sync"
)

// chunk is a range of snapshot slots for one worker to process.
type chunk struct {
	start, end int
	dt         float32
}

// workerPool runs stepRange over disjoint chunks on persistent goroutines.
// Workers only read the frozen snapshot and write each agent's own slot, so
// the only synchronization is the completion barrier per tick.
type workerPool struct {
	sim        *Simulation
	numWorkers int

	workChan chan chunk
	doneChan chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

func newWorkerPool(s *Simulation) *workerPool {
	return &workerPool{
		sim:        s,
		numWorkers: runtime.GOMAXPROCS(0),
	}
}

// start launches the persistent worker goroutines.
func (p *workerPool) start() {
	if p.running {
		return
	}

	p.workChan = make(chan chunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// stop signals all workers to exit and waits for them.
func (p *workerPool) stop() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

func (p *workerPool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case c, ok := <-p.workChan:
			if !ok {
				return
			}
			p.sim.stepRange(c.start, c.end, c.dt)
			p.doneChan <- struct{}{}
		}
	}
}

// run splits n agents into per-worker chunks and blocks until every chunk
// has been processed.
func (p *workerPool) run(n int, dt float32) {
	if !p.running {
		p.start()
	}

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers

	dispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		p.workChan <- chunk{start: start, end: end, dt: dt}
		dispatched++
	}

	for i := 0; i < dispatched; i++ {
		<-p.doneChan
	}
}
