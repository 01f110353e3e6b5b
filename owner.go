// Owner metadata for External sidecar files.
//
// When an External lock is acquired through a writable handle, the
// sidecar is stamped with a single-line JSON record identifying the
// process that took it. This is diagnostic breadcrumb only: sidecars
// are never deleted, so neither the file's presence nor a fresh-looking
// owner record means the lock is currently held. The OS lock table is
// the sole source of truth.
package flock

import (
	"os"
	"time"

	json "github.com/goccy/go-json"
)

// OwnerInfo identifies the process that last stamped a sidecar file.
type OwnerInfo struct {
	PID  int    `json:"pid"`  // Process ID of the locker
	Host string `json:"host"` // Hostname of the locker
	Time int64  `json:"ts"`   // Unix milliseconds at acquisition
}

// writeOwner stamps the held sidecar with the current process. Best
// effort: read-only handles (lost the creation race, or a read-only
// fallback) and write failures are silently skipped — the lock is
// already held either way.
func (l *Lock) writeOwner() {
	if !l.writable {
		return
	}
	host, _ := os.Hostname()
	buf, err := json.Marshal(OwnerInfo{
		PID:  os.Getpid(),
		Host: host,
		Time: time.Now().UnixMilli(),
	})
	if err != nil {
		return
	}
	if l.f.Truncate(0) != nil {
		return
	}
	_, _ = l.f.WriteAt(buf, 0)
}

// Owner reads the owner record from a sidecar file. It reports who last
// acquired the lock, not who holds it now — a record survives release
// and process exit.
func Owner(path string) (OwnerInfo, error) {
	var info OwnerInfo
	data, err := os.ReadFile(path)
	if err != nil {
		return info, err
	}
	if err := json.Unmarshal(data, &info); err != nil {
		return info, err
	}
	return info, nil
}
