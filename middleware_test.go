package ragblade

import (
	"context"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/go-kit/kit/metrics"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type failingService struct{}

func (failingService) Retrieve(ctx context.Context, query string, k ...int) ([]Match, error) {
	return nil, errBoom
}

func (failingService) RetrieveAndGenerate(ctx context.Context, query string, k ...int) (*Response, error) {
	return nil, errBoom
}

func TestLoggingMiddleware(t *testing.T) {
	assert := assert.New(t)

	core, logs := observer.New(zapcore.InfoLevel)
	log := zap.New(core)

	svc := LoggingMiddleware(log)(&countingService{})

	ctx := context.WithValue(context.Background(), RequestID, "req-1")

	_, err := svc.RetrieveAndGenerate(ctx, "question", 1)
	assert.NoError(err)

	entries := logs.FilterMessage("answer generated").All()
	assert.Len(entries, 1)

	fields := entries[0].ContextMap()
	assert.Equal("retrieve_and_generate", fields["action"])
	assert.Equal("question", fields["query"])
	assert.Equal("req-1", fields["request_id"])
	assert.Equal("doc", fields["document"])

	failing := LoggingMiddleware(log)(failingService{})

	_, err = failing.Retrieve(ctx, "question")
	assert.ErrorIs(err, errBoom)
	assert.Equal(1, logs.FilterMessage(errBoom.Error()).Len())
}

// recorder keeps every counter increment and histogram observation keyed
// by its joined label values.
type recorder struct {
	mu           sync.Mutex
	counts       map[string]float64
	observations map[string][]float64
}

func newRecorder() *recorder {
	return &recorder{
		counts:       make(map[string]float64),
		observations: make(map[string][]float64),
	}
}

func (r *recorder) count(lvs ...string) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.counts[strings.Join(lvs, ",")]
}

func (r *recorder) observed(lvs ...string) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.observations[strings.Join(lvs, ",")])
}

type recordingCounter struct {
	rec *recorder
	lvs []string
}

func (c recordingCounter) With(labelValues ...string) metrics.Counter {
	return recordingCounter{c.rec, append(slices.Clone(c.lvs), labelValues...)}
}

func (c recordingCounter) Add(delta float64) {
	c.rec.mu.Lock()
	defer c.rec.mu.Unlock()

	c.rec.counts[strings.Join(c.lvs, ",")] += delta
}

type recordingHistogram struct {
	rec *recorder
	lvs []string
}

func (h recordingHistogram) With(labelValues ...string) metrics.Histogram {
	return recordingHistogram{h.rec, append(slices.Clone(h.lvs), labelValues...)}
}

func (h recordingHistogram) Observe(value float64) {
	h.rec.mu.Lock()
	defer h.rec.mu.Unlock()

	key := strings.Join(h.lvs, ",")
	h.rec.observations[key] = append(h.rec.observations[key], value)
}

func TestInstrumentingMiddleware(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	counts := newRecorder()
	latencies := newRecorder()
	scores := newRecorder()

	count := recordingCounter{rec: counts}
	latency := recordingHistogram{rec: latencies}
	score := recordingHistogram{rec: scores}

	svc := InstrumentingMiddleware(count, latency, score)(&countingService{})

	_, err := svc.Retrieve(ctx, "question")
	assert.NoError(err)

	_, err = svc.RetrieveAndGenerate(ctx, "question")
	assert.NoError(err)

	failing := InstrumentingMiddleware(count, latency, score)(failingService{})

	_, err = failing.RetrieveAndGenerate(ctx, "question")
	assert.ErrorIs(err, errBoom)

	assert.Equal(1.0, counts.count("method", "retrieve", "error", "false"))
	assert.Equal(1.0, counts.count("method", "retrieve_and_generate", "error", "false"))
	assert.Equal(1.0, counts.count("method", "retrieve_and_generate", "error", "true"))
	assert.Equal(0.0, counts.count("method", "retrieve", "error", "true"))

	assert.Len(latencies.observed("method", "retrieve", "error", "false"), 1)
	assert.Len(latencies.observed("method", "retrieve_and_generate", "error", "true"), 1)

	assert.Equal([]float64{0.5}, scores.observed("method", "retrieve"))
	assert.Equal([]float64{0.25}, scores.observed("method", "retrieve_and_generate"),
		"failed calls record no score")
}
