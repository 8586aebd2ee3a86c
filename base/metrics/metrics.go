/*Package metrics wraps datadog-go to record engine metrics.
Naming convention:
- Internal process time: *.time
- Error: *.err
- Counters: *.count
*/
package metrics

import (
	"strings"
	"time"

	"github.com/x-xyz/nftmarket/base/env"
)

// Ender provides interface for BumpTime
type Ender interface {
	End()
}

// Service provides interface for metrics
type Service interface {
	BumpAvg(key string, val float64, tags ...string)
	BumpSum(key string, val float64, tags ...string)
	BumpHistogram(key string, val float64, tags ...string)

	BumpTime(key string, tags ...string) Ender
}

// New creates a metric client with package name as prefix
func New(pkgName string) Service {
	return &Metrics{
		pkgName: pkgName,
		tags: []string{
			"host:", // drop the agent host tag
			"pod:" + env.PodName(),
			"env:" + env.EnvName(),
			"app:" + env.AppName(),
		},
	}
}

// Metrics prefixes every key with its package name and forwards to the shared statsd clients.
type Metrics struct {
	pkgName string
	tags    []string
}

func (mt *Metrics) key(key string) string {
	return mt.pkgName + "." + key
}

// recoverBump keeps a broken metrics client from taking the caller down.
func (mt *Metrics) recoverBump(kind, key string, tags []string) {
	if err := recover(); err != nil {
		bump(func(cli statsCli) error {
			return cli.Count(kind+".panic", 1, []string{"tag:" + mt.key(key) + "#" + strings.Join(tags, "#")}, 1)
		}, kind, key, 1)
	}
}

// BumpAvg bumps the average for the given key.
func (mt *Metrics) BumpAvg(key string, val float64, tags ...string) {
	defer mt.recoverBump("bumpavg", key, tags)
	bump(func(cli statsCli) error {
		return cli.Gauge(mt.key(key), val, mt.withTags(tags), 1)
	}, "BumpAvg", key, val)
}

// BumpSum bumps the sum for the given key.
func (mt *Metrics) BumpSum(key string, val float64, tags ...string) {
	defer mt.recoverBump("bumpsum", key, tags)
	bump(func(cli statsCli) error {
		return cli.Count(mt.key(key), int64(val), mt.withTags(tags), 1)
	}, "BumpSum", key, val)
}

// BumpHistogram bumps the histogram for the given key.
func (mt *Metrics) BumpHistogram(key string, val float64, tags ...string) {
	defer mt.recoverBump("bumphistogram", key, tags)
	bump(func(cli statsCli) error {
		return cli.Histogram(mt.key(key), val, mt.withTags(tags), 1)
	}, "BumpHistogram", key, val)
}

// BumpTime starts a timer and returns a value on which End() stops it:
//
//     defer s.BumpTime("my.function").End()
func (mt *Metrics) BumpTime(key string, tags ...string) Ender {
	return &timeTracker{
		start: time.Now(),
		end: func(ms float64) {
			defer mt.recoverBump("bumptime", key, tags)
			bump(func(cli statsCli) error {
				return cli.TimeInMilliseconds(mt.key(key), ms, mt.withTags(tags), 1)
			}, "BumpTime", key, ms)
		},
	}
}

func (mt *Metrics) withTags(tags []string) []string {
	out := make([]string, 0, len(mt.tags)+len(tags)/2)
	out = append(out, mt.tags...)
	return append(out, parseTag(tags)...)
}

type timeTracker struct {
	start time.Time
	end   func(ms float64)
}

func (t *timeTracker) End() {
	t.end(float64(time.Since(t.start)) / float64(time.Millisecond))
}

// NewNop returns a Service that drops everything.
func NewNop() Service {
	return nop{}
}

type nop struct{}

func (nop) BumpAvg(string, float64, ...string)       {}
func (nop) BumpSum(string, float64, ...string)       {}
func (nop) BumpHistogram(string, float64, ...string) {}
func (nop) BumpTime(string, ...string) Ender         { return nop{} }
func (nop) End()                                     {}
