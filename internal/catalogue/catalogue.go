// Package catalogue provides a minimal block set for demos, the CLI's
// quickstart, and the engine's own tests. It is not the real block
// catalogue a production deployment would register — that catalogue is an
// external collaborator supplied by the business embedding this engine —
// but it exercises every shape (sources, transforms, fan-in sinks) the
// compiler and executor need to prove out against.
package catalogue

import (
	"context"
	"fmt"

	"github.com/signalmesh/dagengine/pkg/block"
)

// Register adds the demo catalogue's templates to reg.
func Register(reg *block.Registry) {
	reg.Register(constBlock())
	reg.Register(addOneBlock())
	reg.Register(scaleBlock())
	reg.Register(pairBlock())
	reg.Register(zipBlock())
	reg.Register(collectBlock())
}

func constBlock() *block.Template {
	min, max := -1e12, 1e12
	t := block.NewTemplate("Const", func(ctx context.Context, inst *block.Instance) error {
		v, err := inst.GetOption("value")
		if err != nil {
			return err
		}
		f, _ := v.(float64)
		return inst.SetInterface("O", &block.Value{Data: block.Series{Y: []float64{f}}})
	}).AddOutput("O")
	t.AddNumberOption("value", 0, &min, &max)
	return t
}

func addOneBlock() *block.Template {
	return block.NewTemplate("AddOne", func(ctx context.Context, inst *block.Instance) error {
		in := inst.GetInterface("I")
		if in == nil {
			return fmt.Errorf("AddOne: missing input I")
		}
		out := make([]float64, len(in.Data.Y))
		for i, y := range in.Data.Y {
			out[i] = y + 1
		}
		return inst.SetInterface("O", &block.Value{Data: block.Series{X: in.Data.X, Y: out}})
	}).AddInput("I").AddOutput("O")
}

func scaleBlock() *block.Template {
	min, max := -1e6, 1e6
	t := block.NewTemplate("Scale", func(ctx context.Context, inst *block.Instance) error {
		in := inst.GetInterface("I")
		if in == nil {
			return fmt.Errorf("Scale: missing input I")
		}
		factorAny, err := inst.GetOption("factor")
		if err != nil {
			return err
		}
		factor, _ := factorAny.(float64)
		out := make([]float64, len(in.Data.Y))
		for i, y := range in.Data.Y {
			out[i] = y * factor
		}
		return inst.SetInterface("O", &block.Value{Data: block.Series{X: in.Data.X, Y: out}})
	}).AddInput("I").AddOutput("O")
	t.AddNumberOption("factor", 1, &min, &max)
	return t
}

func pairBlock() *block.Template {
	return block.NewTemplate("Pair", func(ctx context.Context, inst *block.Instance) error {
		a := inst.GetInterface("A")
		b := inst.GetInterface("B")
		if a == nil || b == nil {
			return fmt.Errorf("Pair: missing input")
		}
		n := len(a.Data.Y)
		if len(b.Data.Y) < n {
			n = len(b.Data.Y)
		}
		out := make([]float64, n)
		for i := 0; i < n; i++ {
			out[i] = a.Data.Y[i] + b.Data.Y[i]
		}
		return inst.SetInterface("O", &block.Value{Data: block.Series{Y: out}})
	}).AddInput("A").AddInput("B").AddOutput("O")
}

func zipBlock() *block.Template {
	return block.NewTemplate("Zip", func(ctx context.Context, inst *block.Instance) error {
		a := inst.GetInterface("A")
		b := inst.GetInterface("B")
		if a == nil || b == nil {
			return fmt.Errorf("Zip: missing input")
		}
		n := len(a.Data.Y)
		if len(b.Data.Y) < n {
			n = len(b.Data.Y)
		}
		x := make([]float64, n)
		y := make([]float64, n)
		for i := 0; i < n; i++ {
			x[i] = a.Data.Y[i]
			y[i] = b.Data.Y[i]
		}
		return inst.SetInterface("O", &block.Value{Data: block.Series{X: x, Y: y}})
	}).AddInput("A").AddInput("B").AddOutput("O")
}

func collectBlock() *block.Template {
	t := block.NewTemplate("Collect", func(ctx context.Context, inst *block.Instance) error {
		in := inst.GetInterface("I")
		if in == nil {
			return fmt.Errorf("Collect: missing input I")
		}
		return inst.SetOption("last_count", fmt.Sprintf("%d", len(in.Data.Y)))
	}).AddInput("I")
	t.AddTextOption("last_count", "0")
	return t
}
