package block

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistrySnapshotDoesNotMutateBase(t *testing.T) {
	t.Parallel()

	base := NewRegistry()
	base.Register(NewTemplate("Const", nil).AddOutput("O"))

	extra := NewTemplate("Scripted", nil).AddOutput("O")
	snap := base.Snapshot(extra)

	_, ok := base.Get("Scripted")
	require.False(t, ok, "base registry must not see snapshot-only templates")

	_, ok = snap.Get("Scripted")
	require.True(t, ok)
	_, ok = snap.Get("Const")
	require.True(t, ok)
}

func TestManagerUnknownBusiness(t *testing.T) {
	t.Parallel()

	m := NewManager()
	_, err := m.Library("ghost")
	require.Error(t, err)
}

func TestManagerRegisterAndLibrary(t *testing.T) {
	t.Parallel()

	m := NewManager()
	reg := NewRegistry()
	reg.Register(NewTemplate("Const", nil))
	m.RegisterBusiness("acme", reg)

	got, err := m.Library("acme")
	require.NoError(t, err)
	require.Same(t, reg, got)
}

func TestRegistryExportConfigSorted(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(NewTemplate("Zeta", nil))
	reg.Register(NewTemplate("Alpha", nil))

	descs := reg.ExportConfig()
	require.Len(t, descs, 2)
	require.Equal(t, "Alpha", descs[0].Name)
	require.Equal(t, "Zeta", descs[1].Name)
}
