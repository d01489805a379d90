package block

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSpawnIndependence(t *testing.T) {
	t.Parallel()

	min, max := 0.0, 10.0
	tmpl := NewTemplate("Scale", nil).AddInput("I").AddOutput("O")
	tmpl.AddNumberOption("k", 2, &min, &max)

	a := tmpl.Spawn("node-a")
	b := tmpl.Spawn("node-b")

	require.NoError(t, a.SetOption("k", 5.0))
	val, err := b.GetOption("k")
	require.NoError(t, err)
	require.EqualValues(t, 2, val, "sibling instances must not share option state")

	aVal, err := a.GetOption("k")
	require.NoError(t, err)
	require.EqualValues(t, 5.0, aVal)
}

func TestOptionClamping(t *testing.T) {
	t.Parallel()

	min, max := 0.0, 10.0
	tmpl := NewTemplate("Clamped", nil)
	tmpl.AddIntegerOption("n", 5, &min, &max)
	inst := tmpl.Spawn("n1")

	require.NoError(t, inst.SetOption("n", 99))
	v, err := inst.GetOption("n")
	require.NoError(t, err)
	require.Equal(t, 10, v)

	require.NoError(t, inst.SetOption("n", -5))
	v, err = inst.GetOption("n")
	require.NoError(t, err)
	require.Equal(t, 0, v)
}

func TestOnComputeReadsAndWrites(t *testing.T) {
	t.Parallel()

	tmpl := NewTemplate("AddOne", func(ctx context.Context, inst *Instance) error {
		in := inst.GetInterface("I")
		out := &Value{Data: Series{Y: []float64{in.Data.Y[0] + 1}}}
		return inst.SetInterface("O", out)
	}).AddInput("I").AddOutput("O")

	inst := tmpl.Spawn("n1")
	require.NoError(t, inst.SetInput("I", &Value{Data: Series{Y: []float64{7}}}))
	require.NoError(t, inst.OnCompute(context.Background()))
	require.Equal(t, []float64{8}, inst.OutputValue("O").Data.Y)
}

func TestResetClearsBuffersNotOptions(t *testing.T) {
	t.Parallel()

	min, max := 0.0, 10.0
	tmpl := NewTemplate("Const", nil).AddOutput("O")
	tmpl.AddNumberOption("value", 7, &min, &max)
	inst := tmpl.Spawn("n1")

	require.NoError(t, inst.SetInterface("O", &Value{Data: Series{Y: []float64{7}}}))
	inst.Reset()

	require.Nil(t, inst.OutputValue("O"))
	v, err := inst.GetOption("value")
	require.NoError(t, err)
	require.EqualValues(t, 7, v)
}

func TestExportConfigShapes(t *testing.T) {
	t.Parallel()

	tmpl := NewTemplate("Pair", nil).AddInput("A").AddInput("B").AddOutput("O")
	tmpl.AddSelectOption("mode", "sum", []string{"sum", "diff"})
	tmpl.AddButtonOption("trigger")

	desc := tmpl.ExportConfig()
	require.Equal(t, "Pair", desc.Name)
	require.Len(t, desc.Inputs, 2)
	require.Len(t, desc.Outputs, 1)
	require.Len(t, desc.Options, 2)

	var selectDesc, buttonDesc *OptionDescriptor
	for i := range desc.Options {
		switch desc.Options[i].Name {
		case "mode":
			selectDesc = &desc.Options[i]
		case "trigger":
			buttonDesc = &desc.Options[i]
		}
	}
	require.NotNil(t, selectDesc)
	require.Equal(t, []string{"sum", "diff"}, selectDesc.Items)
	require.Equal(t, []string{"sum", "diff"}, selectDesc.Properties.Items)
	require.NotNil(t, buttonDesc)
	require.Nil(t, buttonDesc.Value)
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()

	tmpl := NewTemplate("Const", nil).AddOutput("O")
	inst := tmpl.Spawn("n1")
	require.NoError(t, inst.SetInterface("O", &Value{Data: Series{Y: []float64{1}}}))

	clone := inst.Clone()
	require.Nil(t, clone.OutputValue("O"))
	require.NotNil(t, inst.OutputValue("O"))
}
