package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"statusline/pkg/platform/httputil"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestValidateRiskCreate(t *testing.T) {
	out, err := execute(t,
		`{"projectId":"c1","description":"Vendor delay","impact":"2-week slip","severity":"HIGH","tags":["a"," a ",""]}`,
		"validate", "--entity", "risk", "-")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "OPEN", got["status"])
	assert.Equal(t, []any{"a"}, got["tags"])
}

func TestValidateRejectsWithViolations(t *testing.T) {
	out, err := execute(t, `{"projectId":"c1","description":"d","impact":"i"}`,
		"validate", "-e", "risk", "-")
	require.ErrorIs(t, err, errRejected)

	var resp httputil.ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "validation_error", resp.Error)
	assert.True(t, resp.Violations.Has("severity"))
}

func TestValidateTransitionPolicies(t *testing.T) {
	patch := `{"status":"RESOLVED"}`

	_, err := execute(t, patch, "validate", "-e", "risk", "--op", "update", "--current-status", "OPEN", "-")
	assert.ErrorIs(t, err, errRejected)

	_, err = execute(t, patch, "validate", "-e", "risk", "--op", "update", "--current-status", "OPEN",
		"--policy", "permissive", "-")
	assert.NoError(t, err)
}

func TestValidateYAMLInAndOut(t *testing.T) {
	path := writeFile(t, "project.yaml", `
name: "  Apollo "
masterProfileId: mp-1
sponsorEmail: ""
objectives:
  - ship
  - land
`)
	out, err := execute(t, "", "validate", "-e", "project", "-o", "yaml", path)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Apollo", got["name"])
	assert.Equal(t, "", got["sponsorEmail"])
	assert.Equal(t, []any{"ship", "land"}, got["objectives"])
}

func TestValidateUsageErrors(t *testing.T) {
	_, err := execute(t, "{}", "validate", "-")
	assert.ErrorContains(t, err, `"entity" not set`)

	_, err = execute(t, "{}", "validate", "-e", "risk", "-o", "xml", "-")
	assert.ErrorContains(t, err, "unknown output format")

	_, err = execute(t, "{}", "validate", "-e", "risk", "--policy", "lenient", "-")
	assert.Error(t, err)

	_, err = execute(t, "", "validate", "-e", "risk", filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "read payload")
}

func TestMigratePrint(t *testing.T) {
	out, err := execute(t, "", "migrate", "--print")
	require.NoError(t, err)
	assert.Contains(t, out, "CREATE TABLE IF NOT EXISTS risks")
}
