package observability

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	servertiming "github.com/mitchellh/go-server-timing"
	"go.opentelemetry.io/otel/attribute"
)

// ServerTiming is one metric reported by the catalogue in its Server-Timing header.
type ServerTiming struct {
	Name     string
	Desc     string
	Duration time.Duration
}

// ParseServerTiming reads every Server-Timing header line of h. A malformed header
// yields nil.
func ParseServerTiming(h http.Header) []ServerTiming {
	values := h.Values(servertiming.HeaderKey)
	if len(values) == 0 {
		return nil
	}

	header, err := servertiming.ParseHeader(strings.Join(values, ","))
	if err != nil {
		return nil
	}

	out := make([]ServerTiming, 0, len(header.Metrics))
	for _, m := range header.Metrics {
		out = append(out, ServerTiming{Name: m.Name, Desc: m.Desc, Duration: m.Duration})
	}
	return out
}

// ServerTimingAttrs converts timings into span attributes valued in milliseconds.
func ServerTimingAttrs(timings []ServerTiming) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(timings))
	for _, t := range timings {
		attrs = append(attrs, attribute.Float64(AttrServerTimingPrefix+t.Name, durationMillis(t.Duration)))
	}
	return attrs
}

// ServerTimingLogAttr groups timings under a single "server_timing" log attribute.
func ServerTimingLogAttr(timings []ServerTiming) slog.Attr {
	args := make([]any, 0, len(timings))
	for _, t := range timings {
		args = append(args, slog.Float64(t.Name, durationMillis(t.Duration)))
	}
	return slog.Group("server_timing", args...)
}

func durationMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
