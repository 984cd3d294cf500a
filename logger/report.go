package logger

import (
	"context"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aws/aws-sdk-go-v2/aws"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

type streamStat struct {
	messages int64
	bytes    int64
}

var (
	errorsFetch      int64
	errorsProcess    int64
	errorsWrite      int64
	warnsFetch       int64
	warnsProcess     int64
	warnsWrite       int64
	infoFetches      int64
	statementFetches int64
	fxLookups        int64
	snapshotWrites   int64
	streams          sync.Map // map[string]*streamStat
)

func stage(component string) string {
	switch {
	case strings.Contains(component, "reader"), strings.Contains(component, "yahoo"):
		return "fetch"
	case strings.Contains(component, "writer"), strings.Contains(component, "manifest"), strings.Contains(component, "s3"):
		return "write"
	default:
		return "process"
	}
}

func recordWarn(component string) {
	switch stage(component) {
	case "fetch":
		atomic.AddInt64(&warnsFetch, 1)
	case "write":
		atomic.AddInt64(&warnsWrite, 1)
	default:
		atomic.AddInt64(&warnsProcess, 1)
	}
}

func recordError(component string) {
	switch stage(component) {
	case "fetch":
		atomic.AddInt64(&errorsFetch, 1)
	case "write":
		atomic.AddInt64(&errorsWrite, 1)
	default:
		atomic.AddInt64(&errorsProcess, 1)
	}
}

// IncrementInfoFetch records a completed info snapshot fetch of the given
// payload size.
func IncrementInfoFetch(size int) {
	atomic.AddInt64(&infoFetches, 1)
	recordStream("provider_info", size)
}

// IncrementStatementFetch records a completed statement bundle fetch.
func IncrementStatementFetch(size int) {
	atomic.AddInt64(&statementFetches, 1)
	recordStream("provider_statements", size)
}

// IncrementFXLookup records a spot exchange-rate lookup.
func IncrementFXLookup() {
	atomic.AddInt64(&fxLookups, 1)
	recordStream("provider_fx", 0)
}

// IncrementSnapshotWrite records a snapshot file written to disk.
func IncrementSnapshotWrite(size int64) {
	atomic.AddInt64(&snapshotWrites, 1)
	recordStream("snapshot_write", int(size))
}

func recordStream(name string, size int) {
	v, _ := streams.LoadOrStore(name, &streamStat{})
	ss := v.(*streamStat)
	atomic.AddInt64(&ss.messages, 1)
	atomic.AddInt64(&ss.bytes, int64(size))
}

func startReport(ctx context.Context, log *Log, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		for {
			select {
			case <-ctx.Done():
				ticker.Stop()
				return
			case <-ticker.C:
				logReport(ctx, log)
			}
		}
	}()
}

// StartReport begins periodic logging of system and pipeline statistics.
func StartReport(ctx context.Context, log *Log, interval time.Duration) {
	startReport(ctx, log, interval)
}

func logReport(ctx context.Context, log *Log) {
	cpuPercent, _ := cpu.Percent(0, false)
	memStats, _ := mem.VirtualMemory()
	diskStats, _ := disk.Usage("/")
	streamData := map[string]map[string]int64{}
	streams.Range(func(k, v any) bool {
		name := k.(string)
		ss := v.(*streamStat)
		streamData[name] = map[string]int64{
			"messages": atomic.LoadInt64(&ss.messages),
			"bytes":    atomic.LoadInt64(&ss.bytes),
		}
		return true
	})

	cpuPct := 0.0
	if len(cpuPercent) > 0 {
		cpuPct = cpuPercent[0]
	}

	fields := Fields{
		"errors_fetch":      atomic.LoadInt64(&errorsFetch),
		"errors_process":    atomic.LoadInt64(&errorsProcess),
		"errors_write":      atomic.LoadInt64(&errorsWrite),
		"warns_fetch":       atomic.LoadInt64(&warnsFetch),
		"warns_process":     atomic.LoadInt64(&warnsProcess),
		"warns_write":       atomic.LoadInt64(&warnsWrite),
		"info_fetches":      atomic.LoadInt64(&infoFetches),
		"statement_fetches": atomic.LoadInt64(&statementFetches),
		"fx_lookups":        atomic.LoadInt64(&fxLookups),
		"snapshot_writes":   atomic.LoadInt64(&snapshotWrites),
		"goroutines":        runtime.NumGoroutine(),
		"cpu_percent":       cpuPct,
		"memory_mb":         int64(memStats.Used) / 1024 / 1024,
		"disk_mb":           int64(diskStats.Used) / 1024 / 1024,
		"streams":           streamData,
	}

	log.WithComponent("report").WithFields(fields).Info("runtime report")

	var data []cwtypes.MetricDatum
	data = append(data,
		cwtypes.MetricDatum{MetricName: aws.String("CPUPercent"), Unit: cwtypes.StandardUnitPercent, Value: aws.Float64(cpuPct)},
		cwtypes.MetricDatum{MetricName: aws.String("MemoryMB"), Unit: cwtypes.StandardUnitMegabytes, Value: aws.Float64(float64(memStats.Used) / 1024 / 1024)},
		cwtypes.MetricDatum{MetricName: aws.String("ErrorsFetch"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(fields["errors_fetch"].(int64)))},
		cwtypes.MetricDatum{MetricName: aws.String("ErrorsProcess"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(fields["errors_process"].(int64)))},
		cwtypes.MetricDatum{MetricName: aws.String("ErrorsWrite"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(fields["errors_write"].(int64)))},
		cwtypes.MetricDatum{MetricName: aws.String("InfoFetches"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(fields["info_fetches"].(int64)))},
		cwtypes.MetricDatum{MetricName: aws.String("StatementFetches"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(fields["statement_fetches"].(int64)))},
		cwtypes.MetricDatum{MetricName: aws.String("FXLookups"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(fields["fx_lookups"].(int64)))},
		cwtypes.MetricDatum{MetricName: aws.String("SnapshotWrites"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(fields["snapshot_writes"].(int64)))},
	)

	for name, stats := range streamData {
		data = append(data,
			cwtypes.MetricDatum{
				MetricName: aws.String("StreamMessages"),
				Unit:       cwtypes.StandardUnitCount,
				Dimensions: []cwtypes.Dimension{{Name: aws.String("Stream"), Value: aws.String(name)}},
				Value:      aws.Float64(float64(stats["messages"])),
			},
			cwtypes.MetricDatum{
				MetricName: aws.String("StreamBytes"),
				Unit:       cwtypes.StandardUnitBytes,
				Dimensions: []cwtypes.Dimension{{Name: aws.String("Stream"), Value: aws.String(name)}},
				Value:      aws.Float64(float64(stats["bytes"])),
			},
		)
	}

	publishMetrics(ctx, data)
}
