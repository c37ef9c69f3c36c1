package ragblade

import (
	"context"

	"go.uber.org/zap"
)

func LoggingMiddleware(log *zap.Logger) ServiceMiddleware {
	log = log.With(
		zap.String("service", "ragblade"),
	)

	return func(next Service) Service {
		log.Info("service initialized")

		return &loggingMiddleware{
			log:  log,
			next: next,
		}
	}
}

type loggingMiddleware struct {
	log  *zap.Logger
	next Service
}

func (mw *loggingMiddleware) logger(ctx context.Context, action string, query string, k ...int) *zap.Logger {
	log := mw.log.With(
		zap.String("action", action),
		zap.String("query", query),
	)

	if len(k) > 0 && k[0] > 0 {
		log = log.With(
			zap.Int("k", k[0]),
		)
	}

	requestID, ok := ctx.Value(RequestID).(string)
	if ok {
		log = log.With(
			zap.String("request_id", requestID),
		)
	}

	return log
}

func (mw *loggingMiddleware) Retrieve(ctx context.Context, query string, k ...int) ([]Match, error) {
	log := mw.logger(ctx, "retrieve", query, k...)

	matches, err := mw.next.Retrieve(ctx, query, k...)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}

	if len(matches) > 0 {
		log = log.With(
			zap.Int("position", matches[0].Position),
			zap.Float64("score", matches[0].Score),
		)
	}

	log.Info("documents retrieved", zap.Int("count", len(matches)))

	return matches, nil
}

func (mw *loggingMiddleware) RetrieveAndGenerate(ctx context.Context, query string, k ...int) (*Response, error) {
	log := mw.logger(ctx, "retrieve_and_generate", query, k...)

	resp, err := mw.next.RetrieveAndGenerate(ctx, query, k...)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}

	log.Info("answer generated",
		zap.Int("position", resp.Position),
		zap.Float64("score", resp.Score),
		zap.String("document", resp.RetrievedDocument),
	)

	return resp, nil
}
