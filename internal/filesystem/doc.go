// Package filesystem wraps os.Stat and os.Open with retries for NFS stale
// file handle errors (ESTALE).
//
// Collections and the rendition origin are commonly NFS mounts. A handle can
// go stale when the server replaces a file underneath a client; the operation
// usually succeeds when retried after a short backoff. Other errors are
// returned immediately.
//
// Metrics are labeled with a volume name resolved from the path:
//
//	filesystem.SetDefaultVolumeResolver(filesystem.NewVolumeResolver(map[string]string{
//	    "source": cfg.SourceDir,
//	    "origin": cfg.OriginDir,
//	}))
//	info, err := filesystem.StatWithRetry(path, filesystem.DefaultRetryConfig())
package filesystem
