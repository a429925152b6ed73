package analyses

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resumefit/internal/llm"
)

const (
	testResume = "Software Engineer with 5 years Python Django experience. Led a team of 3 and reduced latency by 40%."
	testJob    = "Seeking Python Django developer with leadership experience and AWS knowledge"
)

type failingRepo struct {
	*MemoryRepo
	saveErr error
}

func (r *failingRepo) Save(ctx context.Context, record Record) error {
	return r.saveErr
}

type fakeLLM struct {
	suggestions []string
	err         error
	calls       int
	last        llm.Input
}

func (f *fakeLLM) TailoredSuggestions(ctx context.Context, input llm.Input) ([]string, error) {
	f.calls++
	f.last = input
	return f.suggestions, f.err
}

var errBoom = errors.New("boom")

// newTestService returns a service with a fixed clock and sequential ids.
func newTestService(repo Repo, client llm.Client) *Service {
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	n := 0
	return &Service{
		Repo: repo,
		LLM:  client,
		now: func() time.Time {
			return base.Add(time.Duration(n) * time.Minute)
		},
		newID: func() string {
			n++
			return fmt.Sprintf("analysis-%d", n)
		},
	}
}
