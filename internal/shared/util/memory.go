// # internal/shared/util/memory.go
package util

import (
	"runtime"
)

// HeapAllocMB returns the current heap allocation in MB.
func HeapAllocMB() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.Alloc / 1024 / 1024
}
