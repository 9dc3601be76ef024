package orchestration

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/agbru/copyqueue/internal/errors"
	"github.com/agbru/copyqueue/internal/results"
	"github.com/agbru/copyqueue/internal/stats"
)

type recordingPresenter struct {
	rows    int
	summary bool
}

func (p *recordingPresenter) PresentJobTable(snaps []*results.Snapshot, _ io.Writer) {
	p.rows = len(snaps)
}

func (p *recordingPresenter) PresentSummary(*results.Set, time.Duration, io.Writer) {
	p.summary = true
}

func snapWithStatus(name string, status stats.ExitStatus) *results.Snapshot {
	return results.NewSnapshot(results.Data{JobName: name, Status: status})
}

func TestAnalyzeRunResults(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		snaps    []*results.Snapshot
		wantCode int
		wantText string
	}{
		{"empty", nil, apperrors.ExitSuccess, "Nothing to do"},
		{"success with warnings", []*results.Snapshot{
			snapWithStatus("a", stats.FilesCopied),
			snapWithStatus("b", stats.ExtraFiles|stats.MismatchedItems),
		}, apperrors.ExitSuccess, "Success"},
		{"copy failures", []*results.Snapshot{
			snapWithStatus("a", stats.FilesCopied),
			snapWithStatus("b", stats.CopyErrors),
		}, apperrors.ExitErrorCopyFailures, "Failure"},
		{"cancelled wins", []*results.Snapshot{
			snapWithStatus("a", stats.CopyErrors),
			results.CancelledSnapshot("b"),
		}, apperrors.ExitErrorCanceled, "Cancelled"},
		{"faulted", []*results.Snapshot{
			results.FaultedSnapshot("a", nil, errors.New("boom")),
		}, apperrors.ExitErrorCopyFailures, "Failure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var out bytes.Buffer
			p := &recordingPresenter{}
			code := AnalyzeRunResults(results.NewSet(tt.snaps...), time.Second, p, &out)

			assert.Equal(t, tt.wantCode, code)
			assert.Contains(t, out.String(), tt.wantText)
			assert.Equal(t, len(tt.snaps), p.rows)
			assert.True(t, p.summary)
		})
	}
}

func TestNullProgressReporterWaitsForRun(t *testing.T) {
	t.Parallel()
	run := &Run{done: make(chan struct{})}
	var wg sync.WaitGroup
	wg.Add(1)
	go NullProgressReporter{}.DisplayProgress(&wg, run, io.Discard)

	finished := make(chan struct{})
	go func() {
		wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		t.Fatal("reporter returned before the run was done")
	case <-time.After(20 * time.Millisecond):
	}
	close(run.done)
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("reporter did not return after the run finished")
	}
}

func TestProgressReporterFunc(t *testing.T) {
	t.Parallel()
	var out strings.Builder
	called := false
	f := ProgressReporterFunc(func(wg *sync.WaitGroup, _ *Run, w io.Writer) {
		defer wg.Done()
		called = true
		_, _ = io.WriteString(w, "tick")
	})
	var wg sync.WaitGroup
	wg.Add(1)
	f.DisplayProgress(&wg, nil, &out)
	wg.Wait()
	require.True(t, called)
	assert.Equal(t, "tick", out.String())
}
