package crawlers

import (
	"runtime"
	"time"

	"github.com/RecoveryAshes/wordcrawl/internal/utils"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// ResourceMonitorConfig 资源监控配置
type ResourceMonitorConfig struct {
	SafetyReserveMemory int64   // 系统预留内存(字节)
	CPULoadThreshold    float64 // CPU负载阈值(%),超过时并发减半
	MaxWorkersLimit     int     // 绝对并发上限,0为不限
	WorkerMemoryUsage   int64   // 单个抓取任务的估算内存(字节)
}

// MemoryStatus 内存状态快照
type MemoryStatus struct {
	TotalMemory     uint64  // 系统总内存(字节)
	AvailableMemory uint64  // 系统可用内存(字节)
	UsedPercent     float64 // 系统内存使用率
	HeapAlloc       uint64  // 本进程堆内存(字节)
}

// ResourceMonitor 资源监控器
// 按需采样系统内存与CPU,据此限制并发抓取数
type ResourceMonitor struct {
	config ResourceMonitorConfig

	memSampler func() (*mem.VirtualMemoryStat, error)
	cpuSampler func() (float64, error)
}

// NewResourceMonitor 创建资源监控器
func NewResourceMonitor(config ResourceMonitorConfig) *ResourceMonitor {
	if config.WorkerMemoryUsage <= 0 {
		config.WorkerMemoryUsage = 32 * 1024 * 1024
	}
	return &ResourceMonitor{
		config:     config,
		memSampler: mem.VirtualMemory,
		cpuSampler: sampleCPU,
	}
}

func sampleCPU() (float64, error) {
	percentages, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil || len(percentages) == 0 {
		return 0, err
	}
	return percentages[0], nil
}

// MaxWorkers 根据当前资源计算允许的并发数
// 结果在 [1, requested] 之间;采样失败时不做限制
func (rm *ResourceMonitor) MaxWorkers(requested int) int {
	if requested <= 1 {
		return 1
	}

	result := requested
	if rm.config.MaxWorkersLimit > 0 && result > rm.config.MaxWorkersLimit {
		result = rm.config.MaxWorkersLimit
	}

	if vm, err := rm.memSampler(); err != nil {
		utils.Warnf("获取系统内存失败,不限制并发: %v", err)
	} else {
		surplus := int64(vm.Available) - rm.config.SafetyReserveMemory
		byMemory := int(surplus / rm.config.WorkerMemoryUsage)
		if byMemory < result {
			utils.Warnf("可用内存不足(%dMB),并发由 %d 降至 %d",
				vm.Available/(1024*1024), result, max(byMemory, 1))
			result = byMemory
		}
	}

	if rm.config.CPULoadThreshold > 0 {
		if load, err := rm.cpuSampler(); err != nil {
			utils.Warnf("获取CPU使用率失败: %v", err)
		} else if load > rm.config.CPULoadThreshold {
			utils.Warnf("CPU负载过高(%.1f%%),并发减半", load)
			result /= 2
		}
	}

	return max(result, 1)
}

// MemoryStatus 当前内存状态
func (rm *ResourceMonitor) MemoryStatus() MemoryStatus {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	status := MemoryStatus{HeapAlloc: memStats.HeapAlloc}
	if vm, err := rm.memSampler(); err == nil {
		status.TotalMemory = vm.Total
		status.AvailableMemory = vm.Available
		status.UsedPercent = vm.UsedPercent
	}
	return status
}
