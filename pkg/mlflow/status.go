package mlflow

type RunStatus int

const (
	// RunStatusUninitialized is the zero value. It only exists locally and is never sent.
	RunStatusUninitialized RunStatus = iota
	RunStatusRunning
	RunStatusScheduled
	RunStatusFinished
	RunStatusFailed
	RunStatusKilled
)

var runStatusNames = [...]string{
	RunStatusRunning:   "RUNNING",
	RunStatusScheduled: "SCHEDULED",
	RunStatusFinished:  "FINISHED",
	RunStatusFailed:    "FAILED",
	RunStatusKilled:    "KILLED",
}

// RunStatuses lists every status that can be sent to the server.
var RunStatuses = []RunStatus{RunStatusRunning, RunStatusScheduled, RunStatusFinished, RunStatusFailed, RunStatusKilled}

func (s RunStatus) String() string {
	if name, ok := s.name(); ok {
		return name
	}
	return "UNINITIALIZED"
}

func (s RunStatus) name() (string, bool) {
	if s <= RunStatusUninitialized || int(s) >= len(runStatusNames) {
		return "", false
	}
	return runStatusNames[s], true
}

// Terminal reports whether the status ends a run. Only terminal updates carry an end time.
func (s RunStatus) Terminal() bool {
	switch s {
	case RunStatusFinished, RunStatusFailed, RunStatusKilled:
		return true
	}
	return false
}

func (s RunStatus) MarshalText() ([]byte, error) {
	name, ok := s.name()
	if !ok {
		return nil, &InvalidEnumError{Value: s.String()}
	}
	return []byte(name), nil
}

func (s *RunStatus) UnmarshalText(text []byte) error {
	status, err := ParseRunStatus(string(text))
	if err != nil {
		return err
	}
	*s = status
	return nil
}

// ParseRunStatus matches name exactly against the wire names.
func ParseRunStatus(name string) (RunStatus, error) {
	for i, candidate := range runStatusNames {
		if candidate != "" && candidate == name {
			return RunStatus(i), nil
		}
	}
	return RunStatusUninitialized, &InvalidEnumError{Value: name}
}

// ViewType selects active and/or deleted entities in list and search endpoints.
type ViewType int

const (
	ViewTypeUninitialized ViewType = iota
	ViewTypeActiveOnly
	ViewTypeDeletedOnly
	ViewTypeAll
)

var viewTypeNames = [...]string{
	ViewTypeActiveOnly:  "ACTIVE_ONLY",
	ViewTypeDeletedOnly: "DELETED_ONLY",
	ViewTypeAll:         "ALL",
}

func (v ViewType) String() string {
	if name, ok := v.name(); ok {
		return name
	}
	return "UNINITIALIZED"
}

func (v ViewType) name() (string, bool) {
	if v <= ViewTypeUninitialized || int(v) >= len(viewTypeNames) {
		return "", false
	}
	return viewTypeNames[v], true
}

func (v ViewType) MarshalText() ([]byte, error) {
	name, ok := v.name()
	if !ok {
		return nil, &InvalidEnumError{Value: v.String()}
	}
	return []byte(name), nil
}

func (v *ViewType) UnmarshalText(text []byte) error {
	viewType, err := ParseViewType(string(text))
	if err != nil {
		return err
	}
	*v = viewType
	return nil
}

func ParseViewType(name string) (ViewType, error) {
	for i, candidate := range viewTypeNames {
		if candidate != "" && candidate == name {
			return ViewType(i), nil
		}
	}
	return ViewTypeUninitialized, &InvalidEnumError{Value: name}
}
