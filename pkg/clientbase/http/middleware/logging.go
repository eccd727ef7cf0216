package cbhttpmiddleware

import (
	"time"

	log "github.com/sirupsen/logrus"
	cbhttp "github.infra.cloudera.com/CAI/MLFlowClient/pkg/clientbase/http"
	lhttp "github.infra.cloudera.com/CAI/MLFlowClient/pkg/http"
)

// Logging writes one debug line per request.
func Logging(logger log.FieldLogger) cbhttp.MiddlewareFunc {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return func(next cbhttp.RunnerFunc) cbhttp.RunnerFunc {
		return func(r *cbhttp.Request) (*cbhttp.Response, *lhttp.HttpError) {
			start := time.Now()
			resp, herr := next(r)
			entry := logger.WithFields(log.Fields{
				"method":   r.Method,
				"uri":      r.URI,
				"duration": time.Since(start),
			})
			switch {
			case herr.IsTransport():
				entry.WithError(herr).Debug("request failed")
			case herr != nil:
				entry.WithField("status", herr.Code).Debug("request returned an error status")
			case resp != nil:
				entry.WithField("status", resp.StatusCode).Debug("request completed")
			}
			return resp, herr
		}
	}
}
