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

	"resumefit/internal/analyses"
	"resumefit/internal/analyzer"
	"resumefit/internal/shared/telemetry"
)

const cliJob = "Seeking Python Django developer with leadership experience and AWS knowledge"

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyzeCommandJSONRanked(t *testing.T) {
	dir := t.TempDir()
	job := writeFile(t, dir, "job.txt", cliJob)
	weak := writeFile(t, dir, "weak.txt", "Barista with latte art skills")
	strong := writeFile(t, dir, "strong.txt", "Python Django developer, led a team of 4, AWS Lambda, leadership experience")

	out, err := execute(t, "analyze", "--job", job, "--format", "json", "--rank", weak, strong)
	require.NoError(t, err)

	var results []struct {
		File  string  `json:"file"`
		Score float64 `json:"score"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.Equal(t, strong, results[0].File)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)

	want := analyzer.Analyze("Python Django developer, led a team of 4, AWS Lambda, leadership experience", cliJob)
	assert.Equal(t, want.Score, results[0].Score)
}

func TestAnalyzeCommandTextAndErrors(t *testing.T) {
	dir := t.TempDir()
	resume := writeFile(t, dir, "cv.txt", "Python developer")
	bad := writeFile(t, dir, "photo.png", "png")

	out, err := execute(t, "analyze", "--job-text", cliJob, resume, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2")
	assert.Contains(t, out, "FILE")
	assert.Contains(t, out, "cv.txt")
	assert.Contains(t, out, "unsupported file type")
}

func TestAnalyzeCommandRequiresJob(t *testing.T) {
	dir := t.TempDir()
	resume := writeFile(t, dir, "cv.txt", "Python developer")

	_, err := execute(t, "analyze", resume)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "job description is required")

	_, err = execute(t, "analyze", "--job-text", cliJob, "--format", "yaml", resume)
	require.Error(t, err)
}

func TestCompareCommand(t *testing.T) {
	dir := t.TempDir()
	original := writeFile(t, dir, "before.txt", "Backend developer")
	rewritten := writeFile(t, dir, "after.txt", "Backend developer with Python, Django and AWS leadership experience")

	out, err := execute(t, "compare", "--job-text", cliJob, "--format", "json", original, rewritten)
	require.NoError(t, err)

	var res analyses.CompareResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Greater(t, res.Improvement.KeywordMatchScore, 0.0)
	assert.NotEmpty(t, res.NewlyMatched)

	out, err = execute(t, "compare", "--job-text", cliJob, original, rewritten)
	require.NoError(t, err)
	assert.Contains(t, out, "newly matched:")
}

func TestVerboseLogsPipelineEventsToStderr(t *testing.T) {
	t.Cleanup(func() { telemetry.SetLogger(nil) })
	dir := t.TempDir()
	short := writeFile(t, dir, "short.txt", "Barista with latte art skills")
	strong := writeFile(t, dir, "strong.txt", "Python Django developer, led a team of 4, AWS Lambda, leadership experience")

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"-v", "analyze", "--job-text", cliJob, "--format", "json", short, strong})
	require.NoError(t, cmd.Execute())

	var results []map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &results))
	require.Len(t, results, 2)

	logs := stderr.String()
	assert.Equal(t, 2, strings.Count(logs, "analysis.completed"))
	assert.Contains(t, logs, short)
	assert.Contains(t, logs, strong)
	assert.Contains(t, logs, "similarity.fallback")
	assert.Contains(t, logs, "short_input")
}

func TestQuietRunWritesNoLogs(t *testing.T) {
	dir := t.TempDir()
	resume := writeFile(t, dir, "cv.txt", "Barista with latte art skills")

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"analyze", "--job-text", cliJob, resume})
	require.NoError(t, cmd.Execute())
	assert.Empty(t, stderr.String())
}
