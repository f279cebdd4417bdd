package execx

import (
	"context"
	"strings"
	"sync"
)

// Fake is a scripted Runner for tests. It records every invocation and
// answers with the first matching stub, or success with empty output.
type Fake struct {
	mu    sync.Mutex
	calls []Cmd
	stubs []stub
}

type stub struct {
	prefix string
	result Result
	err    error
}

// NewFake creates an empty fake runner.
func NewFake() *Fake {
	return &Fake{}
}

// Stub registers a canned result for any command whose rendered form
// starts with prefix. Stubs are matched in registration order.
func (f *Fake) Stub(prefix string, r Result, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stubs = append(f.stubs, stub{prefix: prefix, result: r, err: err})
}

// Run records the call and answers from the stub table.
func (f *Fake) Run(_ context.Context, c Cmd) (Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	rendered := c.String()
	for _, s := range f.stubs {
		if strings.HasPrefix(rendered, s.prefix) {
			return s.result, s.err
		}
	}
	return Result{}, nil
}

// Calls returns a copy of the recorded invocations.
func (f *Fake) Calls() []Cmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Cmd, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallStrings returns the recorded invocations in rendered form.
func (f *Fake) CallStrings() []string {
	calls := f.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.String()
	}
	return out
}

var _ Runner = (*Fake)(nil)
