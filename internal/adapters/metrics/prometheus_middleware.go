package metrics

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/andrescamacho/dsp-calculator/internal/application/common"
)

// PrometheusMiddleware creates a mediator middleware recording request
// duration and success/failure counts. Request names drop the package
// prefix: "*queries.ResolveProductionTreesQuery" becomes
// "ResolveProductionTreesQuery".
func PrometheusMiddleware(collector *RequestMetricsCollector) common.Middleware {
	return func(ctx context.Context, request common.Request, next common.HandlerFunc) (common.Response, error) {
		if collector == nil {
			return next(ctx, request)
		}

		start := time.Now()
		response, err := next(ctx, request)
		collector.RecordRequest(extractRequestName(request), time.Since(start).Seconds(), err == nil)

		return response, err
	}
}

func extractRequestName(request common.Request) string {
	if request == nil {
		return "UnknownRequest"
	}

	fullName := strings.TrimPrefix(reflect.TypeOf(request).String(), "*")
	parts := strings.Split(fullName, ".")
	return parts[len(parts)-1]
}
