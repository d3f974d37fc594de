package bake

import (
	"runtime"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/BenjaminSRussell/3d-swift-widget/internal/config"
	"github.com/BenjaminSRussell/3d-swift-widget/internal/logger"
)

// FileResult holds the outcome of one file in a batch run.
type FileResult struct {
	Input string
	Stats Stats
	Err   error
}

// BatchSummary aggregates a whole batch run.
type BatchSummary struct {
	Results  []FileResult
	Baked    int
	Failed   int
	Meshlets int
	Elapsed  time.Duration
}

// Batch bakes every input file using a worker pool. A failed file is
// recorded in its FileResult rather than aborting the run, so one bad
// export out of a directory of meshes does not sink the batch.
func Batch(cfg *config.Config, inputs []string) *BatchSummary {
	workers := cfg.Batch.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(inputs) {
		workers = len(inputs)
	}
	if workers < 1 {
		workers = 1
	}

	var bar *progressbar.ProgressBar
	if cfg.Batch.Progress {
		bar = progressbar.Default(int64(len(inputs)), "baking")
	}

	start := time.Now()
	results := make([]FileResult, len(inputs))

	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				res, err := File(cfg, inputs[idx])
				fr := FileResult{Input: inputs[idx], Err: err}
				if err == nil {
					fr.Stats = res.Stats
				}
				results[idx] = fr
				if bar != nil {
					_ = bar.Add(1)
				}
			}
		}()
	}

	for i := range inputs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if bar != nil {
		_ = bar.Close()
	}

	sum := &BatchSummary{Results: results, Elapsed: time.Since(start)}
	for _, r := range results {
		if r.Err != nil {
			sum.Failed++
			logger.Error("bake failed", zap.String("input", r.Input), zap.Error(r.Err))
			continue
		}
		sum.Baked++
		sum.Meshlets += r.Stats.Meshlets
	}
	return sum
}
