package mlflow

// IdentityMock returns fixed values. A non-nil error field makes the matching lookup fail.
type IdentityMock struct {
	User          string
	Executable    string
	UserErr       error
	ExecutableErr error
}

var _ Identity = IdentityMock{}

func (m IdentityMock) UserName() (string, error) {
	if m.UserErr != nil {
		return "", m.UserErr
	}
	return m.User, nil
}

func (m IdentityMock) ExecutablePath() (string, error) {
	if m.ExecutableErr != nil {
		return "", m.ExecutableErr
	}
	return m.Executable, nil
}
