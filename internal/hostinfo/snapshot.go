// Package hostinfo provides a periodic host-resource snapshot (§11.3),
// logged as structured attributes rather than served over HTTP — the
// receiver daemon's only consumer of gopsutil.
package hostinfo

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// Snapshot is one point-in-time reading of host resource usage.
type Snapshot struct {
	NumCPU         int
	CPUUsedPercent float64
	MemTotalMB     float64
	MemUsedMB      float64
	MemUsedPercent float64
	ProcessCount   int
	OwnRSSMB       float64
}

func ownPID() int {
	return os.Getpid()
}

// Take samples the current host state. CPU usage is sampled over a short
// window (200ms), matching the teacher's Stats handler.
func Take() (Snapshot, error) {
	snap := Snapshot{NumCPU: runtime.NumCPU()}

	if vm, err := mem.VirtualMemory(); err == nil {
		snap.MemTotalMB = float64(vm.Total) / 1024 / 1024
		snap.MemUsedMB = float64(vm.Used) / 1024 / 1024
		snap.MemUsedPercent = vm.UsedPercent
	}

	if pct, err := cpu.Percent(200*time.Millisecond, false); err == nil && len(pct) > 0 {
		snap.CPUUsedPercent = pct[0]
	}

	if pids, err := process.Pids(); err == nil {
		snap.ProcessCount = len(pids)
	}

	if p, err := process.NewProcess(int32(ownPID())); err == nil {
		if mi, err := p.MemoryInfo(); err == nil && mi != nil {
			snap.OwnRSSMB = float64(mi.RSS) / 1024 / 1024
		}
	}

	return snap, nil
}

// LogAttrs renders the snapshot as a flat list for slog.Logger.With.
func (s Snapshot) LogAttrs() []any {
	return []any{
		"num_cpu", s.NumCPU,
		"cpu_used_percent", fmt.Sprintf("%.1f", s.CPUUsedPercent),
		"mem_used_mb", fmt.Sprintf("%.1f", s.MemUsedMB),
		"mem_used_percent", fmt.Sprintf("%.1f", s.MemUsedPercent),
		"process_count", s.ProcessCount,
		"own_rss_mb", fmt.Sprintf("%.1f", s.OwnRSSMB),
	}
}
