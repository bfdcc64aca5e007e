package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/checkmon/checkmon/internal/check"
)

func run(t *testing.T, registry check.Registry, updates []check.Update) string {
	t.Helper()
	ch := make(chan check.Update, len(updates))
	for _, u := range updates {
		ch <- u
	}
	close(ch)

	var buf bytes.Buffer
	New(zap.NewNop(), registry, &buf).Run(ch)
	return buf.String()
}

func TestReporter_PrintsStatusAndIndentedMessage(t *testing.T) {
	registry := check.Registry{0: {Name: "web"}}
	out := run(t, registry, []check.Update{
		{ID: 0, Status: check.StatusRunning},
		{ID: 0, Status: check.StatusRetrying, Message: "line1\nline2"},
		{ID: 0, Status: check.StatusSucceeded},
	})

	want := strings.Join([]string{
		"web: Running",
		"web: Retrying",
		"    line1",
		"    line2",
		"web: Succeeded",
		"",
	}, "\n")
	if out != want {
		t.Fatalf("output mismatch:\ngot:\n%s\nwant:\n%s", out, want)
	}
}

func TestReporter_WaitingShowsDurationAndReason(t *testing.T) {
	registry := check.Registry{0: {Name: "web"}}
	out := run(t, registry, []check.Update{
		{ID: 0, Status: check.StatusWaiting, Message: "recheck", Wait: 5 * time.Second},
	})

	if !strings.Contains(out, "web: Waiting 5s (recheck)") {
		t.Fatalf("waiting line wrong: %q", out)
	}
}

func TestReporter_UnknownID(t *testing.T) {
	out := run(t, check.Registry{}, []check.Update{
		{ID: 42, Status: check.StatusRunning},
	})

	if !strings.Contains(out, "unknown check: Running") {
		t.Fatalf("unknown id should still print: %q", out)
	}
}
