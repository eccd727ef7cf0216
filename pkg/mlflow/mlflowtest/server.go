// Package mlflowtest provides an in-memory MLflow tracking server for tests. It speaks the
// REST wire format directly so it can be used by the mlflow package's own tests.
package mlflowtest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	lgzip "github.infra.cloudera.com/CAI/MLFlowClient/pkg/gzip"
	ltest "github.infra.cloudera.com/CAI/MLFlowClient/pkg/test"
)

const apiPrefix = "/api/2.0/mlflow/"

// Request is one request received by the server. Path is relative to /api/2.0/mlflow/.
type Request struct {
	Method   string
	Path     string
	Query    url.Values
	RawQuery string
	Header   http.Header
	Body     []byte
}

// JSON decodes the request body into a generic object.
func (r Request) JSON() map[string]interface{} {
	var out map[string]interface{}
	_ = json.Unmarshal(r.Body, &out)
	return out
}

type keyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type experiment struct {
	ExperimentId     string     `json:"experiment_id"`
	Name             string     `json:"name"`
	ArtifactLocation string     `json:"artifact_location"`
	LifecycleStage   string     `json:"lifecycle_stage"`
	LastUpdateTime   string     `json:"last_update_time"`
	CreationTime     string     `json:"creation_time"`
	Tags             []keyValue `json:"tags,omitempty"`
}

type metric struct {
	Key       string      `json:"key"`
	Value     json.Number `json:"value"`
	Timestamp string      `json:"timestamp"`
	Step      string      `json:"step"`
}

type runInfo struct {
	RunId          string `json:"run_id"`
	RunUuid        string `json:"run_uuid"`
	RunName        string `json:"run_name"`
	ExperimentId   string `json:"experiment_id"`
	UserId         string `json:"user_id"`
	Status         string `json:"status"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time,omitempty"`
	ArtifactUri    string `json:"artifact_uri"`
	LifecycleStage string `json:"lifecycle_stage"`
}

type runData struct {
	Metrics []metric   `json:"metrics,omitempty"`
	Params  []keyValue `json:"params,omitempty"`
	Tags    []keyValue `json:"tags,omitempty"`
}

type run struct {
	Info runInfo `json:"info"`
	Data runData `json:"data"`
}

type failure struct {
	status int
	body   string
}

type apiError struct {
	status  int
	code    string
	message string
}

func errorf(status int, code string, format string, args ...interface{}) *apiError {
	return &apiError{status: status, code: code, message: fmt.Sprintf(format, args...)}
}

func invalidParameter(format string, args ...interface{}) *apiError {
	return errorf(http.StatusBadRequest, "INVALID_PARAMETER_VALUE", format, args...)
}

// Server is a fake tracking server. It starts empty: experiment ids are handed out from "0".
type Server struct {
	*httptest.Server

	// Now is the clock used for times the client does not send.
	Now func() time.Time

	mu          sync.Mutex
	experiments []*experiment
	runs        map[string]*run
	requests    []Request
	failures    map[string][]failure
}

func NewServer(t ltest.T) *Server {
	t.Helper()
	s := &Server{
		Now:      time.Now,
		runs:     make(map[string]*run),
		failures: make(map[string][]failure),
	}

	mux := http.NewServeMux()
	s.route(mux, http.MethodPost, "experiments/create", s.createExperiment)
	s.route(mux, http.MethodGet, "experiments/get", s.getExperiment)
	s.route(mux, http.MethodGet, "experiments/get-by-name", s.getExperimentByName)
	s.route(mux, http.MethodPost, "runs/create", s.createRun)
	s.route(mux, http.MethodPost, "runs/update", s.updateRun)
	s.route(mux, http.MethodGet, "runs/get", s.getRun)
	s.route(mux, http.MethodPost, "runs/log-metric", s.logMetric)
	s.route(mux, http.MethodPost, "runs/log-batch", s.logBatch)
	s.route(mux, http.MethodPost, "runs/log-parameter", s.logParam)
	s.route(mux, http.MethodPost, "runs/set-tag", s.setTag)

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

type handlerFunc func(body []byte, query url.Values) (interface{}, *apiError)

func (s *Server) route(mux *http.ServeMux, method string, path string, handler handlerFunc) {
	mux.HandleFunc(apiPrefix+path, func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		var err error
		if r.Header.Get("Content-Encoding") == "gzip" {
			body, err = lgzip.Decompress(r.Body)
		} else {
			body, err = io.ReadAll(r.Body)
		}
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		s.requests = append(s.requests, Request{
			Method:   r.Method,
			Path:     path,
			Query:    r.URL.Query(),
			RawQuery: r.URL.RawQuery,
			Header:   r.Header.Clone(),
			Body:     body,
		})

		if queued := s.failures[path]; len(queued) > 0 {
			s.failures[path] = queued[1:]
			w.WriteHeader(queued[0].status)
			_, _ = w.Write([]byte(queued[0].body))
			return
		}

		if r.Method != method {
			writeError(w, errorf(http.StatusMethodNotAllowed, "ENDPOINT_NOT_FOUND", "%s is not supported on %s", r.Method, path))
			return
		}
		if method == http.MethodPost && r.Header.Get("Content-Type") != "application/json" {
			writeError(w, invalidParameter("expected an application/json body"))
			return
		}

		response, apiErr := handler(body, r.URL.Query())
		if apiErr != nil {
			writeError(w, apiErr)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	})
}

func writeError(w http.ResponseWriter, apiErr *apiError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error_code": apiErr.code,
		"message":    apiErr.message,
	})
}

// FailNext makes the next request to path answer with status and body verbatim, whatever the
// request contains. Calls queue up.
func (s *Server) FailNext(path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = append(s.failures[path], failure{status: status, body: body})
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// RequestsTo returns the requests received on path.
func (s *Server) RequestsTo(path string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// AddExperiment creates an experiment directly and returns its id.
func (s *Server) AddExperiment(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addExperiment(name, "").ExperimentId
}

// RunStatus returns the status of a run, or "" if it does not exist.
func (s *Server) RunStatus(runId string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.runs[runId]; ok {
		return r.Info.Status
	}
	return ""
}

// RunTags returns the tags of a run as a map.
func (s *Server) RunTags(runId string) map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	tags := make(map[string]string)
	if r, ok := s.runs[runId]; ok {
		for _, tag := range r.Data.Tags {
			tags[tag.Key] = tag.Value
		}
	}
	return tags
}

// RunParams returns the params of a run as a map.
func (s *Server) RunParams(runId string) map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	params := make(map[string]string)
	if r, ok := s.runs[runId]; ok {
		for _, param := range r.Data.Params {
			params[param.Key] = param.Value
		}
	}
	return params
}

// RunMetrics returns the number of metric points logged to a run.
func (s *Server) RunMetrics(runId string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.runs[runId]; ok {
		return len(r.Data.Metrics)
	}
	return 0
}

func (s *Server) millis() string {
	return fmt.Sprintf("%d", s.Now().UnixMilli())
}

func (s *Server) addExperiment(name string, artifactLocation string) *experiment {
	id := fmt.Sprintf("%d", len(s.experiments))
	if artifactLocation == "" {
		artifactLocation = "mlflow-artifacts:/" + id
	}
	now := s.millis()
	e := &experiment{
		ExperimentId:     id,
		Name:             name,
		ArtifactLocation: artifactLocation,
		LifecycleStage:   "active",
		LastUpdateTime:   now,
		CreationTime:     now,
	}
	s.experiments = append(s.experiments, e)
	return e
}

func (s *Server) findExperiment(match func(*experiment) bool) *experiment {
	for _, e := range s.experiments {
		if match(e) {
			return e
		}
	}
	return nil
}

func decode(body []byte, v interface{}) *apiError {
	if err := json.Unmarshal(body, v); err != nil {
		return invalidParameter("malformed request body: %s", err)
	}
	return nil
}

func (s *Server) createExperiment(body []byte, _ url.Values) (interface{}, *apiError) {
	var req struct {
		Name             string `json:"name"`
		ArtifactLocation string `json:"artifact_location"`
	}
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, invalidParameter("missing value for required parameter 'name'")
	}
	if s.findExperiment(func(e *experiment) bool { return e.Name == req.Name }) != nil {
		return nil, errorf(http.StatusBadRequest, "RESOURCE_ALREADY_EXISTS", "experiment '%s' already exists", req.Name)
	}
	e := s.addExperiment(req.Name, req.ArtifactLocation)
	return map[string]string{"experiment_id": e.ExperimentId}, nil
}

func (s *Server) getExperiment(_ []byte, query url.Values) (interface{}, *apiError) {
	id := query.Get("experiment_id")
	e := s.findExperiment(func(e *experiment) bool { return e.ExperimentId == id })
	if e == nil {
		return nil, errorf(http.StatusNotFound, "RESOURCE_DOES_NOT_EXIST", "no experiment with id=%s", id)
	}
	return map[string]interface{}{"experiment": e}, nil
}

func (s *Server) getExperimentByName(_ []byte, query url.Values) (interface{}, *apiError) {
	name := query.Get("experiment_name")
	e := s.findExperiment(func(e *experiment) bool { return e.Name == name })
	if e == nil {
		return nil, errorf(http.StatusNotFound, "RESOURCE_DOES_NOT_EXIST", "could not find experiment with name '%s'", name)
	}
	return map[string]interface{}{"experiment": e}, nil
}

func (s *Server) createRun(body []byte, _ url.Values) (interface{}, *apiError) {
	var req struct {
		ExperimentId string      `json:"experiment_id"`
		StartTime    json.Number `json:"start_time"`
		Tags         []keyValue  `json:"tags"`
	}
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	e := s.findExperiment(func(e *experiment) bool { return e.ExperimentId == req.ExperimentId })
	if e == nil {
		return nil, errorf(http.StatusNotFound, "RESOURCE_DOES_NOT_EXIST", "no experiment with id=%s", req.ExperimentId)
	}
	startTime := req.StartTime.String()
	if startTime == "" {
		startTime = s.millis()
	}

	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	r := &run{
		Info: runInfo{
			RunId:          id,
			RunUuid:        id,
			ExperimentId:   e.ExperimentId,
			Status:         "RUNNING",
			StartTime:      startTime,
			ArtifactUri:    e.ArtifactLocation + "/" + id + "/artifacts",
			LifecycleStage: "active",
		},
	}
	for _, tag := range req.Tags {
		r.setTag(tag)
	}
	s.runs[id] = r
	return map[string]interface{}{"run": r}, nil
}

func (r *run) setTag(tag keyValue) {
	switch tag.Key {
	case "mlflow.runName":
		r.Info.RunName = tag.Value
	case "mlflow.user":
		r.Info.UserId = tag.Value
	}
	for i := range r.Data.Tags {
		if r.Data.Tags[i].Key == tag.Key {
			r.Data.Tags[i].Value = tag.Value
			return
		}
	}
	r.Data.Tags = append(r.Data.Tags, tag)
}

func (r *run) logParam(param keyValue) *apiError {
	for _, existing := range r.Data.Params {
		if existing.Key == param.Key {
			if existing.Value != param.Value {
				return invalidParameter("changing param values is not allowed, param with key='%s' was already logged", param.Key)
			}
			return nil
		}
	}
	r.Data.Params = append(r.Data.Params, param)
	return nil
}

type metricRequest struct {
	Key       string      `json:"key"`
	Value     json.Number `json:"value"`
	Timestamp json.Number `json:"timestamp"`
	Step      json.Number `json:"step"`
}

func (r *run) logMetric(m metricRequest) *apiError {
	if m.Key == "" || m.Value == "" || m.Timestamp == "" {
		return invalidParameter("missing value for required parameter 'key', 'value' or 'timestamp'")
	}
	step := m.Step.String()
	if step == "" {
		step = "0"
	}
	r.Data.Metrics = append(r.Data.Metrics, metric{
		Key:       m.Key,
		Value:     m.Value,
		Timestamp: m.Timestamp.String(),
		Step:      step,
	})
	return nil
}

func (s *Server) findRun(runId string) (*run, *apiError) {
	if runId == "" {
		return nil, invalidParameter("missing value for required parameter 'run_id'")
	}
	r, ok := s.runs[runId]
	if !ok {
		return nil, errorf(http.StatusNotFound, "RESOURCE_DOES_NOT_EXIST", "run '%s' not found", runId)
	}
	return r, nil
}

var runStatuses = map[string]bool{
	"RUNNING": true, "SCHEDULED": true, "FINISHED": true, "FAILED": true, "KILLED": true,
}

func (s *Server) updateRun(body []byte, _ url.Values) (interface{}, *apiError) {
	var req struct {
		RunId   string      `json:"run_id"`
		Status  string      `json:"status"`
		EndTime json.Number `json:"end_time"`
	}
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	r, apiErr := s.findRun(req.RunId)
	if apiErr != nil {
		return nil, apiErr
	}
	if !runStatuses[req.Status] {
		return nil, invalidParameter("invalid value '%s' for parameter 'status'", req.Status)
	}
	r.Info.Status = req.Status
	if req.EndTime != "" {
		r.Info.EndTime = req.EndTime.String()
	}
	return map[string]interface{}{"run_info": r.Info}, nil
}

func (s *Server) getRun(_ []byte, query url.Values) (interface{}, *apiError) {
	r, apiErr := s.findRun(query.Get("run_id"))
	if apiErr != nil {
		return nil, apiErr
	}
	return map[string]interface{}{"run": r}, nil
}

func (s *Server) logMetric(body []byte, _ url.Values) (interface{}, *apiError) {
	var req struct {
		RunId string `json:"run_id"`
		metricRequest
	}
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	r, apiErr := s.findRun(req.RunId)
	if apiErr != nil {
		return nil, apiErr
	}
	if apiErr := r.logMetric(req.metricRequest); apiErr != nil {
		return nil, apiErr
	}
	return struct{}{}, nil
}

func (s *Server) logBatch(body []byte, _ url.Values) (interface{}, *apiError) {
	var req struct {
		RunId   string          `json:"run_id"`
		Metrics []metricRequest `json:"metrics"`
		Params  []keyValue      `json:"params"`
		Tags    []keyValue      `json:"tags"`
	}
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	r, apiErr := s.findRun(req.RunId)
	if apiErr != nil {
		return nil, apiErr
	}
	for _, m := range req.Metrics {
		if apiErr := r.logMetric(m); apiErr != nil {
			return nil, apiErr
		}
	}
	for _, p := range req.Params {
		if apiErr := r.logParam(p); apiErr != nil {
			return nil, apiErr
		}
	}
	for _, tag := range req.Tags {
		r.setTag(tag)
	}
	return struct{}{}, nil
}

type keyValueRequest struct {
	RunId string `json:"run_id"`
	keyValue
}

func (s *Server) logParam(body []byte, _ url.Values) (interface{}, *apiError) {
	var req keyValueRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	r, apiErr := s.findRun(req.RunId)
	if apiErr != nil {
		return nil, apiErr
	}
	if req.Key == "" {
		return nil, invalidParameter("missing value for required parameter 'key'")
	}
	if apiErr := r.logParam(req.keyValue); apiErr != nil {
		return nil, apiErr
	}
	return struct{}{}, nil
}

func (s *Server) setTag(body []byte, _ url.Values) (interface{}, *apiError) {
	var req keyValueRequest
	if err := decode(body, &req); err != nil {
		return nil, err
	}
	r, apiErr := s.findRun(req.RunId)
	if apiErr != nil {
		return nil, apiErr
	}
	if req.Key == "" {
		return nil, invalidParameter("missing value for required parameter 'key'")
	}
	r.setTag(req.keyValue)
	return struct{}{}, nil
}
