package orchestration

import (
	"strings"

	apperrors "github.com/agbru/copyqueue/internal/errors"
	"github.com/agbru/copyqueue/internal/job"
)

// SelectJobs determines which jobs should be run based on a comma-separated
// list of names. An empty filter or "all" selects every job in declaration
// order; otherwise jobs are returned in the order they are named.
//
// Parameters:
//   - jobs: The available jobs.
//   - filter: The selection, e.g. "docs,photos".
//
// Returns:
//   - []job.Job: The selected jobs.
//   - error: A ConfigError naming the first unknown or repeated job.
func SelectJobs(jobs []job.Job, filter string) ([]job.Job, error) {
	filter = strings.TrimSpace(filter)
	if filter == "" || filter == "all" {
		return jobs, nil
	}

	byName := make(map[string]job.Job, len(jobs))
	for _, j := range jobs {
		byName[j.Name()] = j
	}

	var selected []job.Job
	seen := make(map[string]bool)
	for _, name := range strings.Split(filter, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		j, ok := byName[name]
		if !ok {
			return nil, apperrors.NewConfigError("unknown job %q", name)
		}
		if seen[name] {
			return nil, apperrors.NewConfigError("job %q selected twice", name)
		}
		seen[name] = true
		selected = append(selected, j)
	}
	return selected, nil
}
