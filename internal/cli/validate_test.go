package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	validMockup = `{"kind":"mockup","title":"Calmer dashboard","regions":[{"id":"nav","label":"Nav","layout":"library","role":"sidebar"}]}`
	validLens   = `{"kind":"lens","title":"Screens","lensType":"screens","payload":{"sections":[{"id":"hero","label":"Header","contents":["Nav"]}],"callsToAction":[]}}`
	emptyMockup = `{"kind":"mockup","title":"Broken","regions":[]}`
	badLayout   = `{"kind":"mockup","title":"Broken","regions":[{"id":"nav","label":"Nav","layout":"grid"}]}`
)

func writeCardFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func runValidateCmd(format string, args ...string) (string, error) {
	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestValidateValidCards(t *testing.T) {
	dir := t.TempDir()
	mockup := writeCardFile(t, dir, "mockup.json", validMockup)
	lens := writeCardFile(t, dir, "lens.json", validLens)

	out, err := runValidateCmd("text", mockup, lens)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ "+mockup+": mockup \"Calmer dashboard\"")
	assert.Contains(t, out, "✓ "+lens+": lens \"Screens\"")
}

func TestValidateValidCardsJSON(t *testing.T) {
	dir := t.TempDir()
	mockup := writeCardFile(t, dir, "mockup.json", validMockup)

	var result ValidationResult
	out, err := runValidateCmd("json", mockup)
	require.NoError(t, err)

	resp := CLIResponse{Data: &result}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, result.Valid)
	require.Len(t, result.Files, 1)
	assert.Equal(t, "mockup", string(result.Files[0].Kind))
	assert.Equal(t, "Calmer dashboard", result.Files[0].Title)
}

func TestValidateInvalidCard(t *testing.T) {
	dir := t.TempDir()
	good := writeCardFile(t, dir, "good.json", validMockup)
	bad := writeCardFile(t, dir, "bad.json", badLayout)

	out, err := runValidateCmd("text", good, bad)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "validation failed for 1 file(s)")
	assert.Contains(t, out, "✓ "+good)
	assert.Contains(t, out, "✗ "+bad)
	assert.Contains(t, out, "[E201]")
}

func TestValidateInvalidCardJSON(t *testing.T) {
	dir := t.TempDir()
	bad := writeCardFile(t, dir, "bad.json", emptyMockup)

	var result ValidationResult
	out, err := runValidateCmd("json", bad)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp := CLIResponse{Data: &result}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, bad)
	assert.False(t, result.Valid)
	require.Len(t, result.Files, 1)
	assert.NotEmpty(t, result.Files[0].Errors)
}

func TestValidateNotJSON(t *testing.T) {
	dir := t.TempDir()
	bad := writeCardFile(t, dir, "notes.json", "regions: nav")

	out, err := runValidateCmd("text", bad)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "[E200]")
}

func TestValidateKindFlag(t *testing.T) {
	dir := t.TempDir()
	mockup := writeCardFile(t, dir, "mockup.json", validMockup)

	_, err := runValidateCmd("text", "--kind", "mockup", mockup)
	assert.NoError(t, err)

	out, err := runValidateCmd("text", "--kind", "lens", mockup)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ "+mockup)
}

func TestValidateUnknownKind(t *testing.T) {
	dir := t.TempDir()
	mockup := writeCardFile(t, dir, "mockup.json", validMockup)

	out, err := runValidateCmd("text", "--kind", "poster", mockup)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E008]")
	assert.Contains(t, out, `unknown card kind "poster"`)
}

func TestValidateMissingFile(t *testing.T) {
	out, err := runValidateCmd("text", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E004]")
}

func TestValidateRequiresFile(t *testing.T) {
	_, err := runValidateCmd("text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg")
}

func TestValidateVerboseOutput(t *testing.T) {
	dir := t.TempDir()
	mockup := writeCardFile(t, dir, "mockup.json", validMockup)

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "text", Verbose: true})
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs([]string{mockup})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, errOut.String(), "Validating "+mockup+" against #AnyCard")
	assert.NotContains(t, out.String(), "Validating")
}
