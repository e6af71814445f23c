package route

import (
	"sync"

	"circuit-cad/pkg/geometry"
)

// Request asks the dispatcher to route one wire. Key identifies the wire;
// later requests with the same key supersede earlier pending ones.
type Request struct {
	Key   int
	Start geometry.Point2D
	End   geometry.Point2D
}

// Dispatcher offloads FindPath calls to background goroutines with at most
// one in-flight search per wire. During an interactive drag every move tick
// may submit a request; only the newest pending request per wire is
// computed, so the settled path after the final move always matches the
// synchronous FindPath result for the final endpoints.
type Dispatcher struct {
	grid     *ObstacleGrid
	onResult func(key int, path []geometry.Point2D)

	mu      sync.Mutex
	pending map[int]Request
	active  map[int]bool
	wg      sync.WaitGroup
}

// NewDispatcher creates a dispatcher routing against the given grid.
// onResult is called from a worker goroutine each time a path is computed;
// the caller is responsible for marshalling onto its UI thread.
func NewDispatcher(grid *ObstacleGrid, onResult func(key int, path []geometry.Point2D)) *Dispatcher {
	return &Dispatcher{
		grid:     grid,
		onResult: onResult,
		pending:  make(map[int]Request),
		active:   make(map[int]bool),
	}
}

// Submit schedules a route computation for the request's wire. If a search
// for the same wire is already running, the request is parked as the
// wire's single pending entry, replacing any older one.
func (d *Dispatcher) Submit(req Request) {
	d.mu.Lock()
	d.pending[req.Key] = req
	if d.active[req.Key] {
		d.mu.Unlock()
		return
	}
	d.active[req.Key] = true
	d.wg.Add(1)
	d.mu.Unlock()

	go d.work(req.Key)
}

// work drains pending requests for one wire until none remain.
func (d *Dispatcher) work(key int) {
	defer d.wg.Done()
	for {
		d.mu.Lock()
		req, ok := d.pending[key]
		if !ok {
			d.active[key] = false
			d.mu.Unlock()
			return
		}
		delete(d.pending, key)
		d.mu.Unlock()

		path := FindPath(req.Start, req.End, d.grid)
		if d.onResult != nil {
			d.onResult(key, path)
		}
	}
}

// Wait blocks until all in-flight searches have finished. Submitting while
// waiting is a caller error.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
