package mlflow

import (
	"context"
	"strings"
)

const (
	opCreateRun = "runs/create"
	opUpdateRun = "runs/update"
	opLogMetric = "runs/log-metric"
	opLogBatch  = "runs/log-batch"
	opLogParam  = "runs/log-parameter"
	opSetTag    = "runs/set-tag"
)

type createRunRequest struct {
	ExperimentId string         `json:"experiment_id"`
	StartTime    *numericString `json:"start_time"`
	Tags         []keyValueWire `json:"tags"`
}

type updateRunRequest struct {
	RunId   string         `json:"run_id"`
	Status  RunStatus      `json:"status"`
	EndTime *numericString `json:"end_time,omitempty"`
}

type logMetricRequest struct {
	RunId string `json:"run_id"`
	metricWire
}

type logBatchRequest struct {
	RunId   string         `json:"run_id"`
	Metrics []metricWire   `json:"metrics"`
	Params  []keyValueWire `json:"params"`
	Tags    []keyValueWire `json:"tags"`
}

type keyValueRequest struct {
	RunId string `json:"run_id"`
	keyValueWire
}

// CreateRun starts a run in the experiment at the current time.
func (c *Client) CreateRun(ctx context.Context, experimentId string, tags ...RunTag) (*Run, error) {
	return c.CreateRunAt(ctx, experimentId, c.now(), tags)
}

// CreateRunAt starts a run with an explicit start time in epoch milliseconds. It does not
// change the current run, see StartRun for that.
func (c *Client) CreateRunAt(ctx context.Context, experimentId string, startTime int64, tags []RunTag) (*Run, error) {
	body, err := c.post(ctx, opCreateRun, createRunRequest{
		ExperimentId: experimentId,
		StartTime:    newNumericString(startTime),
		Tags:         keyValuesToWire(tags),
	})
	if err != nil {
		return nil, err
	}
	run, err := decodeKey(opCreateRun, "run", body, DecodeRun)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// UpdateRun sets the status of a run. Terminal statuses stamp the current time as end time.
func (c *Client) UpdateRun(ctx context.Context, runId string, status RunStatus) (*RunInfo, error) {
	return c.UpdateRunAt(ctx, runId, status, c.now())
}

// UpdateRunAt sets the status of a run. endTime is only sent with FINISHED, FAILED or KILLED.
// When runId is the current run the running flag follows the new status.
func (c *Client) UpdateRunAt(ctx context.Context, runId string, status RunStatus, endTime int64) (*RunInfo, error) {
	info, err := c.updateRun(ctx, runId, status, endTime)
	if err != nil {
		return nil, err
	}
	if runId == c.runId {
		c.running = status == RunStatusRunning
	}
	return info, nil
}

func (c *Client) updateRun(ctx context.Context, runId string, status RunStatus, endTime int64) (*RunInfo, error) {
	request := updateRunRequest{
		RunId:  runId,
		Status: status,
	}
	if status.Terminal() {
		request.EndTime = newNumericString(endTime)
	}
	body, err := c.post(ctx, opUpdateRun, request)
	if err != nil {
		return nil, err
	}
	info, err := decodeKey(opUpdateRun, "run_info", body, DecodeRunInfo)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) LogMetric(ctx context.Context, runId string, metric Metric) error {
	_, err := c.post(ctx, opLogMetric, logMetricRequest{
		RunId:      runId,
		metricWire: metricToWire(metric),
	})
	return err
}

// LogBatch sends metrics, params and tags in one request. Empty groups are sent as empty arrays.
func (c *Client) LogBatch(ctx context.Context, runId string, metrics []Metric, params []Param, tags []RunTag) error {
	_, err := c.post(ctx, opLogBatch, logBatchRequest{
		RunId:   runId,
		Metrics: metricsToWire(metrics),
		Params:  keyValuesToWire(params),
		Tags:    keyValuesToWire(tags),
	})
	return err
}

func (c *Client) LogParam(ctx context.Context, runId string, param Param) error {
	_, err := c.post(ctx, opLogParam, keyValueRequest{
		RunId:        runId,
		keyValueWire: keyValueToWire(param),
	})
	return err
}

func (c *Client) SetTag(ctx context.Context, runId string, tag RunTag) error {
	_, err := c.post(ctx, opSetTag, keyValueRequest{
		RunId:        runId,
		keyValueWire: keyValueToWire(tag),
	})
	return err
}

func (c *Client) SetRunName(ctx context.Context, runId string, name string) error {
	return c.SetTag(ctx, runId, RunTag{Key: TagRunName, Value: name})
}

// SetSourceName tags the run with its source path. An empty path means the running executable.
func (c *Client) SetSourceName(ctx context.Context, runId string, path string) error {
	if path == "" {
		executable, err := c.identity.ExecutablePath()
		if err != nil {
			return err
		}
		path = strings.ReplaceAll(executable, `\`, "/")
	}
	return c.SetTag(ctx, runId, RunTag{Key: TagSourceName, Value: path})
}

// SetUserName tags the run with a user. An empty user means the current OS user.
func (c *Client) SetUserName(ctx context.Context, runId string, user string) error {
	if user == "" {
		name, err := c.identity.UserName()
		if err != nil {
			return err
		}
		user = name
	}
	return c.SetTag(ctx, runId, RunTag{Key: TagUser, Value: user})
}
