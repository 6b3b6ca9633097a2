package ggm

import (
	"fmt"
	"runtime"
)

type dstJob struct {
	Index    int
	Filename string
}

type dstResult struct {
	Index    int
	Filename string
	Records  []DSTRecord
	Err      error
}

func dstWorker(id int, jobs <-chan dstJob, results chan<- dstResult, logger Logger) {
	for job := range jobs {
		if logger.Verbosity() > 2 {
			logger.Info(fmt.Sprintf("Worker %d reading %s", id, job.Filename), "curve")
		}
		records, err := ReadDSTFile(job.Filename)
		results <- dstResult{Index: job.Index, Filename: job.Filename, Records: records, Err: err}
	}
}

// readDSTFiles reads files on a pool of workers and returns the results in
// the order of files.
func readDSTFiles(files []string, nWorkers int, logger Logger) []dstResult {
	if nWorkers < 1 {
		nWorkers = runtime.NumCPU()
	}
	if nWorkers > len(files) {
		nWorkers = len(files)
	}

	jobs := make(chan dstJob, len(files))
	results := make(chan dstResult, len(files))
	for w := 1; w <= nWorkers; w++ {
		go dstWorker(w, jobs, results, logger)
	}
	for i, filename := range files {
		jobs <- dstJob{Index: i, Filename: filename}
	}
	close(jobs)

	ordered := make([]dstResult, len(files))
	for range files {
		result := <-results
		ordered[result.Index] = result
	}
	return ordered
}
