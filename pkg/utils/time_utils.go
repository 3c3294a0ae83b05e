package utils

import "time"

// Snapshot and ledger timestamps are stored as unix seconds.
func NowUnixSeconds() int64 { return time.Now().Unix() }
