package main

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/restful-booker/booking-contract-tests/fakebooker"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	color.NoColor = true
}

func executeAgainstFake(t *testing.T, opts fakebooker.Options, args ...string) (int, string, string) {
	var code int
	var out, errOut bytes.Buffer
	httphelpers.WithServer(fakebooker.New(opts).Handler(), func(server *httptest.Server) {
		code = execute("booking-contract-tests", append([]string{"--url", server.URL}, args...), &out, &errOut)
	})
	return code, out.String(), errOut.String()
}

func TestExecuteConformingService(t *testing.T) {
	code, out, errOut := executeAgainstFake(t, fakebooker.Options{})

	assert.Equal(t, 0, code, out)
	assert.Empty(t, errOut)
	assert.Contains(t, out, "Running test suite")
	assert.Contains(t, out, "All tests passed (7 passed, 0 failed, 0 expected failures, 0 skipped)")
}

func TestExecuteKnownDefectDoesNotFailRun(t *testing.T) {
	code, out, _ := executeAgainstFake(t, fakebooker.Options{MissingFieldsStatus: 200})

	assert.Equal(t, 0, code, out)
	assert.Contains(t, out, "Known service defects (1):")
	assert.Contains(t, out, "KNOWN DEFECT: negative/create without firstname and lastname")
}

func TestExecuteFailurePrintsRerunCommand(t *testing.T) {
	code, out, _ := executeAgainstFake(t, fakebooker.Options{UnauthorizedDeleteStatus: 200},
		"--session", "per-scenario")

	assert.Equal(t, 1, code)
	assert.Contains(t, out, "FAILED TESTS (1):")
	assert.Contains(t, out, "To run only the failed tests again:")
	assert.Contains(t, out, "--session per-scenario --run '^negative/delete without authentication$' --debug")
}

func TestRerunCommandRunsTheFailedTestAgain(t *testing.T) {
	defect := fakebooker.Options{UnauthorizedDeleteStatus: 200}
	code, out, _ := executeAgainstFake(t, defect)
	require.Equal(t, 1, code)

	m := regexp.MustCompile(`--run '([^']+)'`).FindStringSubmatch(out)
	require.NotNil(t, m, "no --run argument in output: %s", out)

	code, out, _ = executeAgainstFake(t, defect, "--run", m[1])
	assert.Equal(t, 1, code, out)
	assert.Contains(t, out, "Test run failed (0 passed, 1 failed, 0 expected failures, 6 skipped)")
	assert.Contains(t, out, "FAILED TESTS (1):\n  negative/delete without authentication\n")
}

func TestExecuteWritesReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.yaml")
	code, out, _ := executeAgainstFake(t, fakebooker.Options{}, "--report", path, "--skip", "^CRUD")

	require.Equal(t, 0, code, out)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ok: true")
	assert.Contains(t, string(data), "skipped: 3")
	assert.Contains(t, string(data), "id: negative/delete without authentication\n    status: passed")
	assert.Contains(t, string(data), "id: CRUD/full update is idempotent\n    status: skipped")
	assert.NotContains(t, string(data), "id: CRUD\n")
	assert.Contains(t, out, "skip tests matching")
	assert.Contains(t, out, "All tests passed (4 passed, 0 failed, 0 expected failures, 3 skipped)")
}

func TestExecuteRejectsInvalidConfiguration(t *testing.T) {
	for _, p := range []struct {
		name   string
		args   []string
		errMsg string
	}{
		{"no url", nil, "url is required"},
		{"bad session", []string{"--url", "http://localhost:1", "--session", "per-test"}, "unknown session scope"},
		{"bad timeout", []string{"--url", "http://localhost:1", "--timeout", "0s"}, "timeout must be positive"},
		{"bad regex", []string{"--url", "http://localhost:1", "--run", "("}, "invalid regex"},
	} {
		t.Run(p.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			code := execute("booking-contract-tests", p.args, &out, &errOut)
			assert.Equal(t, 1, code)
			assert.Contains(t, errOut.String(), p.errMsg)
		})
	}
}

func TestExecuteUnreachableService(t *testing.T) {
	var out, errOut bytes.Buffer
	code := execute("booking-contract-tests",
		[]string{"--url", "http://127.0.0.1:1", "--startup-timeout", "200ms"}, &out, &errOut)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut.String(), "test service error")
}
