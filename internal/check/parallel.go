package check

import (
	"runtime"
	"sync"

	"github.com/inodb/hgvs-checker/internal/diag"
	"github.com/inodb/hgvs-checker/internal/hgvsvar"
	"github.com/inodb/hgvs-checker/internal/refseq"
)

// WorkItem holds one description ready to check, tagged with its
// position in the input stream so results can be put back in order.
type WorkItem struct {
	Seq         int
	Reference   *refseq.ReferenceRecord
	Description hgvsvar.Description
}

// WorkResult holds the outcome of checking a single WorkItem.
type WorkResult struct {
	Seq    int
	Report *Report
	Log    *diag.Log
}

// ParallelCheck runs Check over items using a pool of workers, per §5's
// "multiple checks are independent and may run in parallel tasks."
// Results arrive on the returned channel in arrival order, not sequence
// order; use OrderedCollect to restore input order. If workers is 0,
// runtime.NumCPU() is used.
//
// Grounded on the teacher's internal/annotate/parallel.go
// (Annotator.ParallelAnnotate/OrderedCollect), generalized from a
// VCF-variant work item to a reference+description work item.
func ParallelCheck(items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for item := range items {
				rep, log := Check(item.Reference, item.Description)
				results <- WorkResult{Seq: item.Seq, Report: rep, Log: log}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in sequence-number order,
// buffering out-of-order results until the next expected sequence
// number arrives. Blocks until results is closed.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	pending := make(map[int]WorkResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				for range results {
				}
				return err
			}
		}
	}

	return nil
}
