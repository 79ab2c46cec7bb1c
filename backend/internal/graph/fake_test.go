package graph

import (
	"context"
	"sync"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type fakeResponse struct {
	records []*neo4j.Record
	err     error
}

type fakeCall struct {
	mode      string
	operation string
	cypher    string
	params    map[string]any
}

// fakeExecutor scripts responses per operation name and records every statement.
// Statements issued inside a rolled back transaction never reach committed.
type fakeExecutor struct {
	mu        sync.Mutex
	responses map[string][]fakeResponse
	calls     []fakeCall
	committed []fakeCall
	rollbacks int
	commits   int
	commitErr error
}

func newFakeExecutor() *fakeExecutor {
	return &fakeExecutor{responses: make(map[string][]fakeResponse)}
}

// on queues a response for the next statement with this operation name.
// The last queued response repeats once the queue is drained.
func (f *fakeExecutor) on(operation string, records []*neo4j.Record, err error) *fakeExecutor {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[operation] = append(f.responses[operation], fakeResponse{records: records, err: err})
	return f
}

func (f *fakeExecutor) respond(mode, operation, cypher string, params map[string]any) fakeResponse {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, fakeCall{mode: mode, operation: operation, cypher: cypher, params: params})

	queue := f.responses[operation]
	if len(queue) == 0 {
		return fakeResponse{}
	}
	resp := queue[0]
	if len(queue) > 1 {
		f.responses[operation] = queue[1:]
	}
	return resp
}

func (f *fakeExecutor) RunRead(_ context.Context, operation, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	resp := f.respond(modeRead, operation, cypher, params)
	return resp.records, resp.err
}

func (f *fakeExecutor) RunWrite(_ context.Context, operation, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	resp := f.respond(modeWrite, operation, cypher, params)
	if resp.err == nil {
		f.mu.Lock()
		f.committed = append(f.committed, fakeCall{mode: modeWrite, operation: operation, cypher: cypher, params: params})
		f.mu.Unlock()
	}
	return resp.records, resp.err
}

func (f *fakeExecutor) ExecuteInTransaction(ctx context.Context, _ string, work TxWork) (any, error) {
	tx := &fakeTx{exec: f}
	result, err := work(ctx, tx)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.rollbacks++
		return nil, err
	}
	if f.commitErr != nil {
		f.rollbacks++
		return nil, f.commitErr
	}
	f.commits++
	f.committed = append(f.committed, tx.pending...)
	return result, nil
}

func (f *fakeExecutor) operations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ops := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		ops = append(ops, c.operation)
	}
	return ops
}

func (f *fakeExecutor) committedOperations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ops := make([]string, 0, len(f.committed))
	for _, c := range f.committed {
		ops = append(ops, c.operation)
	}
	return ops
}

func (f *fakeExecutor) lastCall(operation string) (fakeCall, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].operation == operation {
			return f.calls[i], true
		}
	}
	return fakeCall{}, false
}

type fakeTx struct {
	exec    *fakeExecutor
	pending []fakeCall
}

func (t *fakeTx) Query(_ context.Context, operation, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	resp := t.exec.respond(modeTx, operation, cypher, params)
	if resp.err == nil {
		t.pending = append(t.pending, fakeCall{mode: modeTx, operation: operation, cypher: cypher, params: params})
	}
	return resp.records, resp.err
}

func rec(keys []string, values ...any) *neo4j.Record {
	return &neo4j.Record{Keys: keys, Values: values}
}

func rows(rs ...*neo4j.Record) []*neo4j.Record {
	return rs
}
