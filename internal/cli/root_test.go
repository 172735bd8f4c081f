package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/booknow-hub/pkg/util/errorutil"
)

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"login", "global"},
		{"login", "tenant"},
		{"logout"},
		{"whoami"},
		{"operators", "create"},
		{"schedule", "effective"},
		{"schedule", "apply"},
	} {
		cmd, _, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func TestHandleError_UsesDomainMessage(t *testing.T) {
	cmd := &cobra.Command{Use: "whoami"}

	err := handleError(apperrors.NewForbidden("no permission for this tenant"), cmd)
	assert.EqualError(t, err, "whoami: no permission for this tenant")

	err = handleError(errors.New("dial tcp: refused"), cmd)
	assert.EqualError(t, err, "whoami: internal server error")

	assert.NoError(t, handleError(nil, cmd))
}

func TestReadPassword(t *testing.T) {
	t.Setenv("HUBCTL_PASSWORD", "")
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader("s3cret-pass\n"))
	cmd.SetErr(&strings.Builder{})

	pw, err := readPassword(cmd)
	require.NoError(t, err)
	assert.Equal(t, "s3cret-pass", pw)

	cmd.SetIn(strings.NewReader(""))
	_, err = readPassword(cmd)
	assert.Error(t, err)

	t.Setenv("HUBCTL_PASSWORD", "from-env")
	pw, err = readPassword(cmd)
	require.NoError(t, err)
	assert.Equal(t, "from-env", pw)
}
