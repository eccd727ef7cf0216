package mlflow

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSIdentity(t *testing.T) {
	identity := NewOSIdentity()

	path, err := identity.ExecutablePath()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path))

	// Minimal containers may have no passwd entry for the current uid
	name, err := identity.UserName()
	if err != nil {
		var identityErr *IdentityError
		assert.True(t, errors.As(err, &identityErr))
		return
	}
	assert.NotEmpty(t, name)
	assert.False(t, strings.Contains(name, `\`))
}
