package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/signalmesh/dagengine/pkg/schema"
)

func writeSchemaFile(t *testing.T, doc *schema.Schema) string {
	t.Helper()
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, os.WriteFile(path, raw, 0o600))
	return path
}

func TestRunNonInteractiveExecutesLinearPipeline(t *testing.T) {
	t.Parallel()

	app := testApp(t)
	doc := &schema.Schema{
		Nodes: []schema.Node{
			{ID: "c1", Type: "Const", Inputs: map[string]schema.NodePort{"value": {Value: 2.0}}, Outputs: map[string]schema.NodePort{"O": {ID: "c1-o"}}},
			{ID: "a1", Type: "AddOne", Inputs: map[string]schema.NodePort{"I": {ID: "a1-i"}}, Outputs: map[string]schema.NodePort{"O": {ID: "a1-o"}}},
		},
		Connections: []schema.Connection{{ID: "conn1", From: "c1-o", To: "a1-i"}},
	}
	path := writeSchemaFile(t, doc)

	cmd := newRunCmd(app, &rootFlags{})
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--schema", path, "--non-interactive"})
	require.NoError(t, cmd.Execute())
	require.Contains(t, buf.String(), "run completed successfully")
}

func TestRunExecutesScriptCompiledBlock(t *testing.T) {
	t.Parallel()

	app := testApp(t)
	doc := &schema.Schema{
		Nodes: []schema.Node{
			{ID: "c1", Type: "Const", Inputs: map[string]schema.NodePort{"value": {Value: 2.0}}, Outputs: map[string]schema.NodePort{"O": {ID: "c1-o"}}},
			{ID: "s1", Type: "Scripted", Inputs: map[string]schema.NodePort{"I": {ID: "s1-i"}}, Outputs: map[string]schema.NodePort{"O": {ID: "s1-o"}}},
		},
		Connections: []schema.Connection{{ID: "conn1", From: "c1-o", To: "s1-i"}},
	}
	schemaPath := writeSchemaFile(t, doc)

	scriptRaw := []byte(`{"name":"Scripted","inputs":["I"],"outputs":["O"],"expression":"{{.I}}"}`)
	scriptPath := filepath.Join(t.TempDir(), "script.json")
	require.NoError(t, os.WriteFile(scriptPath, scriptRaw, 0o600))

	cmd := newRunCmd(app, &rootFlags{})
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--schema", schemaPath, "--script", scriptPath, "--non-interactive"})
	require.NoError(t, cmd.Execute())
	require.Contains(t, buf.String(), "run completed successfully")
}

func TestRunReportsComputeFailure(t *testing.T) {
	t.Parallel()

	app := testApp(t)
	doc := &schema.Schema{
		Nodes: []schema.Node{
			{ID: "a1", Type: "AddOne", Inputs: map[string]schema.NodePort{"I": {ID: "a1-i"}}, Outputs: map[string]schema.NodePort{"O": {ID: "a1-o"}}},
		},
	}
	path := writeSchemaFile(t, doc)

	cmd := newRunCmd(app, &rootFlags{})
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--schema", path, "--non-interactive"})
	require.Error(t, cmd.Execute())
}
