package convert

import (
	"sync"
)

// BatchItem is one source file in a batch conversion.
type BatchItem struct {
	Name string
	Data []byte
}

// BatchResult pairs a source file with its run outcome.
type BatchResult struct {
	Name   string
	Result *Result
	Err    error
}

// RunBatch converts many files concurrently across a bounded worker pool.
// Runs share nothing, so the only coordination is handing out work; results
// come back in input order regardless of completion order.
func RunBatch(items []BatchItem, opts Options, workers int) []BatchResult {
	if workers < 1 {
		workers = 1
	}
	if workers > len(items) {
		workers = len(items)
	}

	results := make([]BatchResult, len(items))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				itemOpts := opts
				itemOpts.InputName = items[i].Name
				res, err := Run(items[i].Data, itemOpts)
				results[i] = BatchResult{Name: items[i].Name, Result: res, Err: err}
			}
		}()
	}
	for i := range items {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}
