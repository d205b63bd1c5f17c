package main

import (
	"fmt"
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/screenspace/ecs"
)

type Report struct {
	// Configuration
	Duration time.Duration
	Interval time.Duration
	Seed     uint64
	Hold     int
	Source   string
	Relative bool
	Speed    float32
	Realtime bool

	// Results
	TotalTime     time.Duration
	Checks        CheckResults
	Start, End    mgl32.Vec3
	Scheduler     *ecs.SchedulerStats
	MemStatsStart runtime.MemStats
	MemStatsEnd   runtime.MemStats
}

// Passed reports whether the run saw no invariant violations.
func (r *Report) Passed() bool {
	return r.Checks.Violations == 0 && r.Checks.EntityChanges == 0
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Movement Soak Report

## Configuration
- **Run Duration:** {{.Duration}}
- **Frame Interval:** {{.Interval}}{{if .Realtime}} (real time){{else}} (simulated){{end}}
- **Input:** {{.Source}}
- **Seed / Hold:** {{.Seed}} / {{.Hold}} frames
- **Mode:** {{if .Relative}}relative to camera{{else}}world axes{{end}}, speed {{.Speed}}

## Results
- **Status:** {{if .Passed}}PASS{{else}}FAIL{{end}}
- **Frames Checked:** {{.Checks.Frames}} ({{.Checks.MovingFrames}} moving, {{.Checks.IdleFrames}} idle)
- **Violations:** {{.Checks.Violations}}{{if .Checks.FirstViolation}} (first: {{.Checks.FirstViolation}}, max error {{printf "%.3g" .Checks.MaxError}}){{end}}
- **Entity Count Changes:** {{.Checks.EntityChanges}}
- **Distance Travelled:** {{printf "%.3f" .Checks.Distance}}
- **Player:** {{vec .Start}} -> {{vec .End}}
- **Total Test Time:** {{.TotalTime}}

## Systems
{{range .Scheduler.Systems}}- **{{.Name}}:** {{.ExecutionCount}} runs, avg {{.AvgDuration}}, min {{.MinDuration}}, max {{.MaxDuration}}
{{end}}
## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
`

	fm := template.FuncMap{
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"vec": func(v mgl32.Vec3) string {
			return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X(), v.Y(), v.Z())
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
