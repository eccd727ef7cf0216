package mlflow

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.infra.cloudera.com/CAI/MLFlowClient/pkg/app"
	"github.infra.cloudera.com/CAI/MLFlowClient/pkg/clientbase"
	cbhttp "github.infra.cloudera.com/CAI/MLFlowClient/pkg/clientbase/http"
	cbhttpmiddleware "github.infra.cloudera.com/CAI/MLFlowClient/pkg/clientbase/http/middleware"
	ltime "github.infra.cloudera.com/CAI/MLFlowClient/pkg/time"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const apiPrefix = "/api/2.0/mlflow/"

// Client talks to one MLflow tracking server and remembers a current run.
//
// A Client is not safe for concurrent use. Independent clients may share Connections.
type Client struct {
	cfg         *Config
	connections *clientbase.Connections
	http        cbhttp.Client
	identity    Identity
	watch       ltime.Watch
	tracer      trace.Tracer

	runId   string
	running bool
}

func NewClient(cfg *Config, connections *clientbase.Connections, identity Identity, watch ltime.Watch) *Client {
	return &Client{
		cfg:         cfg,
		connections: connections,
		http:        connections.HttpClient.With(cbhttpmiddleware.Logging(nil)),
		identity:    identity,
		watch:       watch,
		tracer:      otel.Tracer("mlflow"),
	}
}

// WithTracer replaces the tracer used for request spans.
func (c *Client) WithTracer(tracer trace.Tracer) *Client {
	c.tracer = tracer
	return c
}

func (c *Client) url(path string) string {
	return strings.TrimRight(c.cfg.TrackingURI, "/") + apiPrefix + path
}

func (c *Client) get(ctx context.Context, op string, query interface{}) ([]byte, error) {
	req := cbhttp.NewRequest(ctx, http.MethodGet, c.url(op), cbhttp.QueryObj(query))
	if req.HErr != nil {
		return nil, errors.Wrapf(req.HErr.Err, "%s: failed to encode query", op)
	}
	return c.roundTrip(op, req)
}

func (c *Client) post(ctx context.Context, op string, body interface{}) ([]byte, error) {
	options := []cbhttp.RequestOption{cbhttp.BodyObj(body)}
	if c.cfg.CompressRequests {
		options = append(options, cbhttp.GzipBody())
	}
	req := cbhttp.NewRequest(ctx, http.MethodPost, c.url(op), options...)
	if req.HErr != nil {
		return nil, errors.Wrapf(req.HErr.Err, "%s: failed to encode body", op)
	}
	return c.roundTrip(op, req)
}

func (c *Client) now() int64 {
	return ltime.NowMillis(c.watch)
}

// Close ends the current run with FINISHED when it is still running and EndRunOnClose is set.
// A run adopted with SetRunId is never ended here. The shared Connections are left open. Close
// is safe to call more than once.
func (c *Client) Close() error {
	if !c.cfg.EndRunOnClose || !c.running || c.runId == "" {
		return nil
	}

	log.Warnf("run %s is still running, ending it with status %s", c.runId, RunStatusFinished)
	ctx, cancel := app.BackgroundTimeoutContext()
	defer cancel()
	if _, err := c.EndRun(ctx); err != nil {
		log.Warnf("failed to end run %s: %s", c.runId, err)
		return err
	}
	return nil
}
