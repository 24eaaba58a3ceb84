package profiling

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Per-tick timing totals, keyed by "package.Operation".

type entry struct {
	total time.Duration
	calls int
}

var (
	mu     sync.Mutex
	totals = make(map[string]*entry)
)

// Track returns a stop function that adds the elapsed time to name.
// Usage: defer profiling.Track("world.Generate")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		e := totals[name]
		if e == nil {
			e = &entry{}
			totals[name] = e
		}
		e.total += d
		e.calls++
		mu.Unlock()
	}
}

// ResetFrame clears the totals. Hosts call it at the start of each tick.
func ResetFrame() {
	mu.Lock()
	clear(totals)
	mu.Unlock()
}

// Snapshot returns a copy of the current totals.
func Snapshot() map[string]time.Duration {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]time.Duration, len(totals))
	for k, e := range totals {
		out[k] = e.total
	}
	return out
}

// Calls returns how many times name was tracked since the last reset.
func Calls(name string) int {
	mu.Lock()
	defer mu.Unlock()
	if e := totals[name]; e != nil {
		return e.calls
	}
	return 0
}

// TopN formats the n largest totals, e.g. "world.Generate:4.2ms x3, meshing.BuildChunkMesh:0.8ms x1".
func TopN(n int) string {
	type row struct {
		name  string
		total time.Duration
		calls int
	}
	mu.Lock()
	rows := make([]row, 0, len(totals))
	for k, e := range totals {
		rows = append(rows, row{k, e.total, e.calls})
	}
	mu.Unlock()

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].total != rows[j].total {
			return rows[i].total > rows[j].total
		}
		return rows[i].name < rows[j].name
	})
	n = min(n, len(rows))
	parts := make([]string, 0, n)
	for _, r := range rows[:n] {
		ms := float64(r.total.Microseconds()) / 1000
		parts = append(parts, r.name+":"+strconv.FormatFloat(ms, 'f', 1, 64)+"ms x"+strconv.Itoa(r.calls))
	}
	return strings.Join(parts, ", ")
}
