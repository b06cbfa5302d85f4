/*Package metrics wraps datadog-go to facilitate metric recording
Following are naming convention of metric:
- Internal process time: *.time
- External latency: *.latency
- Error: *.err
- Warning: *.warn
*/
package metrics

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/spf13/viper"

	"github.com/inkmarket/goapi/base/env"
	"github.com/inkmarket/goapi/base/log"
)

// TagValueNA is used for tags whose values are not available.
const TagValueNA = "n/a"

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

var (
	initOnce sync.Once
	client   *statsd.Client
)

func ddClient() *statsd.Client {
	initOnce.Do(func() {
		host := viper.GetString("datadog_host")
		if host == "" {
			return
		}
		addr := fmt.Sprintf("%s:%d", host, 8125)
		c, err := statsd.NewBuffered(addr, 10)
		if err != nil {
			log.Log().WithFields(log.Fields{"addr": addr, "err": err}).Warn("can't talk to datadog agent")
			return
		}
		c.Tags = append(c.Tags,
			"host:",
			"pod:"+env.PodName(),
			"env:"+viper.GetString("env_name"),
			"app:"+viper.GetString("app_name"),
		)
		client = c
	})
	return client
}

// New creates a metric client with package name as prefix
func New(pkgName string) Service {
	return &metrics{pkgName: pkgName}
}

type metrics struct {
	pkgName string
}

func (m *metrics) key(key string) string {
	return m.pkgName + "." + key
}

func toDDTags(tags []string) []string {
	dd := make([]string, 0, len(tags)/2)
	for i := 0; i+1 < len(tags); i += 2 {
		dd = append(dd, strings.ToLower(tags[i])+":"+tags[i+1])
	}
	return dd
}

func (m *metrics) BumpAvg(key string, val float64, tags ...string) {
	if c := ddClient(); c != nil {
		c.Gauge(m.key(key), val, toDDTags(tags), 1)
	}
}

func (m *metrics) BumpSum(key string, val float64, tags ...string) {
	if c := ddClient(); c != nil {
		c.Count(m.key(key), int64(val), toDDTags(tags), 1)
	}
}

func (m *metrics) BumpHistogram(key string, val float64, tags ...string) {
	if c := ddClient(); c != nil {
		c.Histogram(m.key(key), val, toDDTags(tags), 1)
	}
}

type timeEnder struct {
	m     *metrics
	key   string
	tags  []string
	start time.Time
}

func (e *timeEnder) End() {
	e.m.BumpHistogram(e.key, float64(time.Since(e.start).Milliseconds()), e.tags...)
}

func (m *metrics) BumpTime(key string, tags ...string) Ender {
	return &timeEnder{m: m, key: key, tags: tags, start: time.Now()}
}
