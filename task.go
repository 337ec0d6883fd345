package armada

import "sync"

func task[T any](workersCount int, data []T, fn func(data T)) {
	var wg sync.WaitGroup
	dataSize := len(data)
	chunkSize := (dataSize + workersCount - 1) / workersCount

	for workerID := 0; workerID < workersCount; workerID++ {
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(data[i])
			}
		}(workerID*chunkSize, min((workerID+1)*chunkSize, dataSize))
	}
	wg.Wait()
}

// taskLocal is task with per-worker state, for systems that need a
// scratch buffer per goroutine (tree traversal stacks and such).
func taskLocal[T any, S any](workersCount int, data []T, newState func() S, fn func(data T, state *S)) {
	var wg sync.WaitGroup
	dataSize := len(data)
	chunkSize := (dataSize + workersCount - 1) / workersCount

	for workerID := 0; workerID < workersCount; workerID++ {
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			state := newState()
			for i := start; i < end; i++ {
				fn(data[i], &state)
			}
		}(workerID*chunkSize, min((workerID+1)*chunkSize, dataSize))
	}
	wg.Wait()
}

// deferBuffer collects world mutations produced inside parallel systems.
// Workers only append; the world drains the buffer single-threaded
// between systems.
type deferBuffer struct {
	mu  sync.Mutex
	fns []func(*World)
}

func (d *deferBuffer) push(fn func(*World)) {
	d.mu.Lock()
	d.fns = append(d.fns, fn)
	d.mu.Unlock()
}

func (d *deferBuffer) drain(w *World) {
	for _, fn := range d.fns {
		fn(w)
	}
	d.fns = d.fns[:0]
}
