package mlflow

import (
	"context"
)

const (
	opCreateExperiment    = "experiments/create"
	opGetExperiment       = "experiments/get"
	opGetExperimentByName = "experiments/get-by-name"
)

type createExperimentRequest struct {
	Name             string `json:"name"`
	ArtifactLocation string `json:"artifact_location,omitempty"`
}

type getExperimentQuery struct {
	ExperimentId string `json:"experiment_id"`
}

type getExperimentByNameQuery struct {
	ExperimentName string `json:"experiment_name"`
}

// CreateExperiment returns the id of the new experiment. An empty artifactLocation lets the
// server pick one.
func (c *Client) CreateExperiment(ctx context.Context, name string, artifactLocation string) (string, error) {
	body, err := c.post(ctx, opCreateExperiment, createExperimentRequest{
		Name:             name,
		ArtifactLocation: artifactLocation,
	})
	if err != nil {
		return "", err
	}
	return decodeKey(opCreateExperiment, "experiment_id", body, decodeString)
}

func (c *Client) GetExperiment(ctx context.Context, experimentId string) (*Experiment, error) {
	body, err := c.get(ctx, opGetExperiment, getExperimentQuery{ExperimentId: experimentId})
	if err != nil {
		return nil, err
	}
	experiment, err := decodeKey(opGetExperiment, "experiment", body, DecodeExperiment)
	if err != nil {
		return nil, err
	}
	return &experiment, nil
}

func (c *Client) GetExperimentByName(ctx context.Context, name string) (*Experiment, error) {
	body, err := c.get(ctx, opGetExperimentByName, getExperimentByNameQuery{ExperimentName: name})
	if err != nil {
		return nil, err
	}
	experiment, err := decodeKey(opGetExperimentByName, "experiment", body, DecodeExperiment)
	if err != nil {
		return nil, err
	}
	return &experiment, nil
}
