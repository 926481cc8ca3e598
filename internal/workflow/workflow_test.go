package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLogger is a no-op ports.Logger implementation.
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

// testCtx records which tasks ran.
type testCtx struct {
	trace []string
	label string
}

func traceTask(name, next string) Node[testCtx] {
	return Task(name, next, func(c *testCtx) {
		c.trace = append(c.trace, name)
	})
}

func TestBuildValidation(t *testing.T) {
	tests := []struct {
		name       string
		definition Definition[testCtx]
		wantReason string
	}{
		{
			name:       "empty definition",
			definition: Definition[testCtx]{Name: "empty"},
			wantReason: "definition has no nodes",
		},
		{
			name: "node with empty name",
			definition: Definition[testCtx]{
				Name:  "bad",
				Start: "a",
				Nodes: []Node[testCtx]{traceTask("", "")},
			},
			wantReason: "node with empty name",
		},
		{
			name: "duplicate node name",
			definition: Definition[testCtx]{
				Name:  "bad",
				Start: "a",
				Nodes: []Node[testCtx]{traceTask("a", ""), traceTask("a", "")},
			},
			wantReason: `duplicate node "a"`,
		},
		{
			name: "node without action or predicate",
			definition: Definition[testCtx]{
				Name:  "bad",
				Start: "a",
				Nodes: []Node[testCtx]{Task[testCtx]("a", "", nil)},
			},
			wantReason: "neither action nor predicate",
		},
		{
			name: "missing start",
			definition: Definition[testCtx]{
				Name:  "bad",
				Nodes: []Node[testCtx]{traceTask("a", "")},
			},
			wantReason: "no start node declared",
		},
		{
			name: "unknown start",
			definition: Definition[testCtx]{
				Name:  "bad",
				Start: "nope",
				Nodes: []Node[testCtx]{traceTask("a", "")},
			},
			wantReason: `start node "nope" does not exist`,
		},
		{
			name: "task targets unknown node",
			definition: Definition[testCtx]{
				Name:  "bad",
				Start: "a",
				Nodes: []Node[testCtx]{traceTask("a", "nope")},
			},
			wantReason: `task "a" targets unknown node "nope"`,
		},
		{
			name: "gateway with a single branch",
			definition: Definition[testCtx]{
				Name:  "bad",
				Start: "g",
				Nodes: []Node[testCtx]{
					Gateway("g", func(c *testCtx) string { return "Yes" }, map[string]string{"Yes": "a"}),
					traceTask("a", ""),
				},
			},
			wantReason: "at least two labeled branches",
		},
		{
			name: "gateway branch targets unknown node",
			definition: Definition[testCtx]{
				Name:  "bad",
				Start: "g",
				Nodes: []Node[testCtx]{
					Gateway("g", func(c *testCtx) string { return "Yes" }, map[string]string{"Yes": "a", "No": "nope"}),
					traceTask("a", ""),
				},
			},
			wantReason: `branch "No" targets unknown node "nope"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Build(tt.definition, &mockLogger{})
			require.Error(t, err)
			assert.Nil(t, p)

			var buildErr *BuildError
			require.ErrorAs(t, err, &buildErr)
			assert.Contains(t, buildErr.Reason, tt.wantReason)
		})
	}
}

func TestBuildRequiresLogger(t *testing.T) {
	def := Definition[testCtx]{
		Name:  "linear",
		Start: "a",
		Nodes: []Node[testCtx]{traceTask("a", "")},
	}
	_, err := Build(def, nil)
	var buildErr *BuildError
	require.ErrorAs(t, err, &buildErr)
}

func TestRunLinear(t *testing.T) {
	def := Definition[testCtx]{
		Name:  "linear",
		Start: "a",
		Nodes: []Node[testCtx]{
			traceTask("a", "b"),
			traceTask("b", "c"),
			traceTask("c", ""),
		},
	}
	p, err := Build(def, &mockLogger{})
	require.NoError(t, err)
	assert.Equal(t, "linear", p.Name())

	c := &testCtx{}
	res, err := p.Run(context.Background(), c)
	require.NoError(t, err)
	assert.Same(t, c, res)
	assert.Equal(t, []string{"a", "b", "c"}, res.trace)
}

func TestRunGateway(t *testing.T) {
	def := Definition[testCtx]{
		Name:  "branching",
		Start: "decide",
		Nodes: []Node[testCtx]{
			Gateway("decide", func(c *testCtx) string { return c.label }, map[string]string{
				"Yes": "accepted",
				"No":  "rejected",
			}),
			traceTask("accepted", ""),
			traceTask("rejected", ""),
		},
	}
	p, err := Build(def, &mockLogger{})
	require.NoError(t, err)

	tests := []struct {
		name      string
		label     string
		wantTrace []string
		wantRunErr bool
	}{
		{name: "yes branch", label: "Yes", wantTrace: []string{"accepted"}},
		{name: "no branch", label: "No", wantTrace: []string{"rejected"}},
		{name: "unwired label", label: "Maybe", wantRunErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := p.Run(context.Background(), &testCtx{label: tt.label})
			if tt.wantRunErr {
				var runErr *RunError
				require.ErrorAs(t, err, &runErr)
				assert.Equal(t, "decide", runErr.Node)
				assert.Contains(t, runErr.Reason, `unwired label "Maybe"`)
				assert.Nil(t, res)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTrace, res.trace)
		})
	}
}

func TestRunDetectsCycle(t *testing.T) {
	// Both targets resolve, so Build accepts the wiring; Run must stop it.
	def := Definition[testCtx]{
		Name:  "cyclic",
		Start: "a",
		Nodes: []Node[testCtx]{
			traceTask("a", "b"),
			traceTask("b", "a"),
		},
	}
	p, err := Build(def, &mockLogger{})
	require.NoError(t, err)

	_, err = p.Run(context.Background(), &testCtx{})
	var runErr *RunError
	require.ErrorAs(t, err, &runErr)
	assert.Contains(t, runErr.Reason, "cycle")
}

func TestProcessSharedAcrossRuns(t *testing.T) {
	def := Definition[testCtx]{
		Name:  "shared",
		Start: "a",
		Nodes: []Node[testCtx]{traceTask("a", "")},
	}
	p, err := Build(def, &mockLogger{})
	require.NoError(t, err)

	// Each run owns its context; traces must not bleed across runs.
	first, err := p.Run(context.Background(), &testCtx{})
	require.NoError(t, err)
	second, err := p.Run(context.Background(), &testCtx{})
	require.NoError(t, err)

	assert.Equal(t, []string{"a"}, first.trace)
	assert.Equal(t, []string{"a"}, second.trace)
	assert.NotSame(t, first, second)
}
