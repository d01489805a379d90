package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/signalmesh/dagengine/internal/catalogue"
	"github.com/signalmesh/dagengine/internal/manager"
	"github.com/signalmesh/dagengine/internal/telemetry"
	"github.com/signalmesh/dagengine/pkg/block"
)

func testApp(t *testing.T) *AppContext {
	t.Helper()

	logger, err := telemetry.New(telemetry.Options{})
	require.NoError(t, err)

	reg := block.NewRegistry()
	catalogue.Register(reg)

	libraries := block.NewManager()
	libraries.RegisterBusiness("default", reg)

	mgr, err := manager.New(manager.DefaultConfig(), libraries)
	require.NoError(t, err)

	return &AppContext{Logger: logger, Manager: mgr, Libraries: libraries, Registry: reg, Business: "default"}
}

func TestBlocksListJSON(t *testing.T) {
	t.Parallel()

	app := testApp(t)
	cmd := newBlocksCmd(app)

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"list", "--json"})
	require.NoError(t, cmd.Execute())

	var descriptors []block.Descriptor
	require.NoError(t, json.Unmarshal(buf.Bytes(), &descriptors))
	require.NotEmpty(t, descriptors)
}

func TestBlocksListTable(t *testing.T) {
	t.Parallel()

	app := testApp(t)
	cmd := newBlocksCmd(app)

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"list"})
	require.NoError(t, cmd.Execute())
	require.Contains(t, buf.String(), "NAME")
}
