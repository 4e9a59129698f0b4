// Package memory sizes the Go heap for containers and throttles rendering
// under memory pressure.
//
// # Configuration
//
// Call [ConfigureFromEnv] early in main, before large allocations:
//
//   - GOMEMLIMIT: standard Go variable; when set it wins and is only reported.
//   - MEMORY_LIMIT: container limit in bytes, typically from the Kubernetes
//     Downward API.
//   - MEMORY_RATIO: fraction of MEMORY_LIMIT given to the Go heap (default
//     0.85). libvips allocates outside the Go heap, so lower this when
//     rendering large originals.
//
// In a Kubernetes container definition:
//
//	env:
//	  - name: MEMORY_LIMIT
//	    valueFrom:
//	      resourceFieldRef:
//	        resource: limits.memory
//
// # Backpressure
//
// A [Monitor] samples heap usage against the limit. Once usage crosses the
// critical mark, [Monitor.Wait] blocks render workers until usage falls back
// below the high-water mark. Without a limit the monitor never blocks.
package memory
