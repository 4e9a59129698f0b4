/*
Package workers sizes worker pools from GOMAXPROCS so container CPU limits
are respected, and runs bounded pools over a slice of jobs.

runtime.NumCPU reports host CPUs; GOMAXPROCS (Go 1.25+) follows the cgroup
limit, so a pod limited to 2 CPUs on a 64-core node gets 2 workers:

	n := workers.ForCPU(8) // encoding renditions
	n := workers.ForIO(8)  // reading originals during indexing

Operators can pin the count with RENDER_WORKERS.

Run fans jobs out to n goroutines and stops handing out new jobs once the
context is cancelled. Job errors do not stop the pool; they are joined:

	err := workers.Run(ctx, n, rows, func(ctx context.Context, row catalog.Row) error {
		return render(ctx, row)
	})
*/
package workers
