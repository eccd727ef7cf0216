package mlflow

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// SetRunId makes runId the current run. The running flag is cleared since the state of an
// adopted run is unknown.
func (c *Client) SetRunId(runId string) {
	c.runId = runId
	c.running = false
}

func (c *Client) RunId() string {
	return c.runId
}

// Running reports whether the current run was started or resumed by this client and has not
// been moved to another status since.
func (c *Client) Running() bool {
	return c.running
}

type StartRunOptions struct {
	RunName string
	// RunId resumes an existing run by moving it back to RUNNING before a new run is created.
	RunId        string
	ExperimentId string
}

// StartRun creates a new run and makes it the current one. The steps run in order and the
// first failure is returned as is. The current run only changes once every step succeeded.
func (c *Client) StartRun(ctx context.Context, opts StartRunOptions) (*Run, error) {
	experimentId := opts.ExperimentId
	if experimentId == "" {
		experimentId = c.cfg.ExperimentId
	}

	if opts.RunId != "" {
		if _, err := c.updateRun(ctx, opts.RunId, RunStatusRunning, 0); err != nil {
			return nil, err
		}
	}

	experiment, err := c.GetExperiment(ctx, experimentId)
	if err != nil {
		return nil, err
	}

	run, err := c.CreateRun(ctx, experiment.ExperimentId)
	if err != nil {
		return nil, err
	}
	runId := run.Info.RunId

	if err := c.tagNewRun(ctx, runId, opts.RunName); err != nil {
		log.Warnf("run %s was created but left as is, tagging failed: %s", runId, err)
		return nil, err
	}

	log.Debugf("started run %s in experiment %s", runId, experiment.ExperimentId)
	c.runId = runId
	c.running = true
	return run, nil
}

func (c *Client) tagNewRun(ctx context.Context, runId string, runName string) error {
	if runName != "" {
		if err := c.SetRunName(ctx, runId, runName); err != nil {
			return err
		}
	}
	return c.SetTag(ctx, runId, RunTag{Key: TagSourceType, Value: SourceTypeLocal})
}

// EndRun moves the current run to FINISHED.
func (c *Client) EndRun(ctx context.Context) (*RunInfo, error) {
	return c.Active().UpdateRun(ctx, RunStatusFinished)
}

// ActiveRun binds the run operations to the client's current run.
type ActiveRun struct {
	client *Client
}

func (c *Client) Active() *ActiveRun {
	return &ActiveRun{client: c}
}

func (a *ActiveRun) runId() (string, error) {
	if a.client.runId == "" {
		return "", ErrNoActiveRun
	}
	return a.client.runId, nil
}

func (a *ActiveRun) UpdateRun(ctx context.Context, status RunStatus) (*RunInfo, error) {
	runId, err := a.runId()
	if err != nil {
		return nil, err
	}
	return a.client.UpdateRun(ctx, runId, status)
}

func (a *ActiveRun) LogMetric(ctx context.Context, metric Metric) error {
	runId, err := a.runId()
	if err != nil {
		return err
	}
	return a.client.LogMetric(ctx, runId, metric)
}

func (a *ActiveRun) LogBatch(ctx context.Context, metrics []Metric, params []Param, tags []RunTag) error {
	runId, err := a.runId()
	if err != nil {
		return err
	}
	return a.client.LogBatch(ctx, runId, metrics, params, tags)
}

func (a *ActiveRun) LogParam(ctx context.Context, param Param) error {
	runId, err := a.runId()
	if err != nil {
		return err
	}
	return a.client.LogParam(ctx, runId, param)
}

func (a *ActiveRun) SetTag(ctx context.Context, tag RunTag) error {
	runId, err := a.runId()
	if err != nil {
		return err
	}
	return a.client.SetTag(ctx, runId, tag)
}

func (a *ActiveRun) SetRunName(ctx context.Context, name string) error {
	runId, err := a.runId()
	if err != nil {
		return err
	}
	return a.client.SetRunName(ctx, runId, name)
}

func (a *ActiveRun) SetSourceName(ctx context.Context, path string) error {
	runId, err := a.runId()
	if err != nil {
		return err
	}
	return a.client.SetSourceName(ctx, runId, path)
}

func (a *ActiveRun) SetUserName(ctx context.Context, user string) error {
	runId, err := a.runId()
	if err != nil {
		return err
	}
	return a.client.SetUserName(ctx, runId, user)
}
