package ragblade

import (
	"context"
	"strconv"
	"time"

	"github.com/go-kit/kit/metrics"
)

// InstrumentingMiddleware records request counts, latencies and the score
// of the best match for every call.
func InstrumentingMiddleware(requestCount metrics.Counter, requestLatency metrics.Histogram, matchScore metrics.Histogram) ServiceMiddleware {
	return func(next Service) Service {
		return &instrumentingMiddleware{
			requestCount:   requestCount,
			requestLatency: requestLatency,
			matchScore:     matchScore,
			next:           next,
		}
	}
}

type instrumentingMiddleware struct {
	requestCount   metrics.Counter
	requestLatency metrics.Histogram
	matchScore     metrics.Histogram
	next           Service
}

func (mw *instrumentingMiddleware) observe(method string, begin time.Time, err error) {
	lvs := []string{"method", method, "error", strconv.FormatBool(err != nil)}
	mw.requestCount.With(lvs...).Add(1)
	mw.requestLatency.With(lvs...).Observe(time.Since(begin).Seconds())
}

func (mw *instrumentingMiddleware) Retrieve(ctx context.Context, query string, k ...int) (matches []Match, err error) {
	defer func(begin time.Time) {
		mw.observe("retrieve", begin, err)

		if err == nil && len(matches) > 0 {
			mw.matchScore.With("method", "retrieve").Observe(matches[0].Score)
		}
	}(time.Now())

	return mw.next.Retrieve(ctx, query, k...)
}

func (mw *instrumentingMiddleware) RetrieveAndGenerate(ctx context.Context, query string, k ...int) (resp *Response, err error) {
	defer func(begin time.Time) {
		mw.observe("retrieve_and_generate", begin, err)

		if err == nil && resp != nil {
			mw.matchScore.With("method", "retrieve_and_generate").Observe(resp.Score)
		}
	}(time.Now())

	return mw.next.RetrieveAndGenerate(ctx, query, k...)
}
