package state

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

var (
	sessionID = uuid.NewString()
	snapshots uint64

	// Now is the sample clock in milliseconds. Tests may replace it.
	Now = func() int64 { return time.Now().UnixMilli() }
)

// SessionID identifies this run in logs.
func SessionID() string {
	return sessionID
}

// NextSnapshotID labels a history entry as "<session prefix>-<seq>".
func NextSnapshotID() string {
	n := atomic.AddUint64(&snapshots, 1)
	return fmt.Sprintf("%s-%d", sessionID[:8], n)
}
