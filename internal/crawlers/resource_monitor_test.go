package crawlers

import (
	"errors"
	"testing"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/stretchr/testify/assert"
)

const mb = 1024 * 1024

func fakeMonitor(config ResourceMonitorConfig, available uint64, load float64) *ResourceMonitor {
	rm := NewResourceMonitor(config)
	rm.memSampler = func() (*mem.VirtualMemoryStat, error) {
		return &mem.VirtualMemoryStat{Total: 8192 * mb, Available: available, UsedPercent: 50}, nil
	}
	rm.cpuSampler = func() (float64, error) { return load, nil }
	return rm
}

func TestResourceMonitor_MaxWorkers(t *testing.T) {
	base := ResourceMonitorConfig{
		SafetyReserveMemory: 512 * mb,
		CPULoadThreshold:    85,
		MaxWorkersLimit:     16,
		WorkerMemoryUsage:   32 * mb,
	}

	tests := []struct {
		name      string
		requested int
		available uint64
		load      float64
		want      int
	}{
		{"单并发直接返回", 1, 0, 0, 1},
		{"资源充足", 8, 4096 * mb, 10, 8},
		{"受配置上限限制", 32, 4096 * mb, 10, 16},
		{"受内存限制", 8, 512*mb + 96*mb, 10, 3},
		{"内存耗尽至少为1", 8, 100 * mb, 10, 1},
		{"CPU过载减半", 8, 4096 * mb, 95, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rm := fakeMonitor(base, tt.available, tt.load)
			assert.Equal(t, tt.want, rm.MaxWorkers(tt.requested))
		})
	}
}

func TestResourceMonitor_SamplerFailure(t *testing.T) {
	rm := NewResourceMonitor(ResourceMonitorConfig{MaxWorkersLimit: 4})
	rm.memSampler = func() (*mem.VirtualMemoryStat, error) { return nil, errors.New("unsupported") }
	rm.cpuSampler = func() (float64, error) { return 0, errors.New("unsupported") }

	assert.Equal(t, 4, rm.MaxWorkers(8))
	status := rm.MemoryStatus()
	assert.Zero(t, status.TotalMemory)
	assert.NotZero(t, status.HeapAlloc)
}
