package mlflow

import (
	"os"
	"os/user"
	"strings"
)

// Identity supplies the defaults for the mlflow.user and mlflow.source.name tags.
type Identity interface {
	UserName() (string, error)
	ExecutablePath() (string, error)
}

type OSIdentity struct{}

func NewOSIdentity() Identity {
	return OSIdentity{}
}

// UserName returns the login name of the current user, without any Windows domain prefix.
func (OSIdentity) UserName() (string, error) {
	current, err := user.Current()
	if err != nil {
		return "", &IdentityError{Reason: "failed to look up the current user", Err: err}
	}
	name := current.Username
	if i := strings.LastIndex(name, `\`); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		return "", &IdentityError{Reason: "current user has no name"}
	}
	return name, nil
}

func (OSIdentity) ExecutablePath() (string, error) {
	path, err := os.Executable()
	if err != nil {
		return "", &IdentityError{Reason: "failed to resolve the executable path", Err: err}
	}
	return path, nil
}

var _ Identity = OSIdentity{}
