package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartcampus/internal/auth"
)

func TestTokenCmd_IssuesVerifiableToken(t *testing.T) {
	t.Setenv("ADMIN_JWT_SECRET", "cli-secret")
	t.Setenv("LAYOUT_FILE", "")

	cmd := tokenCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--subject", "ops", "--ttl", "1h"})
	require.NoError(t, cmd.Execute())

	claims, err := auth.ParseAdminToken("cli-secret", strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
}

func TestTokenCmd_RequiresSecret(t *testing.T) {
	t.Setenv("ADMIN_JWT_SECRET", "")
	t.Setenv("LAYOUT_FILE", "")

	cmd := tokenCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})
	assert.Error(t, cmd.Execute())
}
