// Package block implements the block abstraction described in the engine's
// data model: named prototypes ("templates") with declared input/output
// ports and options, instantiated per compiled graph node ("instances")
// that carry independent, mutable port buffers.
package block

import (
	"context"
	"fmt"
	"sort"
)

// ComputeFunc is a block's synchronous compute body. It reads inputs via
// the Instance's GetInterface and writes outputs via SetInterface.
type ComputeFunc func(ctx context.Context, inst *Instance) error

// Template is a read-only prototype registered under a unique name. It is
// never mutated after registration (invariant I4); every instance is an
// independent Spawn() of it.
type Template struct {
	Name    string
	Inputs  []string
	Outputs []string
	Options []*Option
	Compute ComputeFunc
	// AsyncCompute overrides the default worker-offload behavior of
	// async_on_compute. Most blocks leave this nil.
	AsyncCompute func(ctx context.Context, inst *Instance) error
}

// NewTemplate constructs an empty template ready for add_input/add_output/
// add_*_option calls. Those calls are only valid before the template is
// registered (construction time).
func NewTemplate(name string, compute ComputeFunc) *Template {
	return &Template{Name: name, Compute: compute}
}

// AddInput declares an input port by name.
func (t *Template) AddInput(name string) *Template {
	t.Inputs = append(t.Inputs, name)
	return t
}

// AddOutput declares an output port by name.
func (t *Template) AddOutput(name string) *Template {
	t.Outputs = append(t.Outputs, name)
	return t
}

func (t *Template) addOption(opt *Option) *Template {
	t.Options = append(t.Options, opt)
	return t
}

// AddButtonOption declares a Button option (no persisted value).
func (t *Template) AddButtonOption(name string) *Template {
	return t.addOption(&Option{Name: name, Kind: OptionButton})
}

// AddCheckboxOption declares a Checkbox option.
func (t *Template) AddCheckboxOption(name string, def bool) *Template {
	return t.addOption(&Option{Name: name, Kind: OptionCheckbox, Value: def, Default: def})
}

// AddIntegerOption declares an Integer option with optional bounds.
func (t *Template) AddIntegerOption(name string, def int, min, max *float64) *Template {
	return t.addOption(&Option{Name: name, Kind: OptionInteger, Value: def, Default: def, Min: min, Max: max})
}

// AddNumberOption declares a Number option with optional bounds.
func (t *Template) AddNumberOption(name string, def float64, min, max *float64) *Template {
	return t.addOption(&Option{Name: name, Kind: OptionNumber, Value: def, Default: def, Min: min, Max: max})
}

// AddSliderOption declares a Slider option; min/max are required in practice
// but not enforced at declaration time.
func (t *Template) AddSliderOption(name string, def float64, min, max *float64) *Template {
	return t.addOption(&Option{Name: name, Kind: OptionSlider, Value: def, Default: def, Min: min, Max: max})
}

// AddSelectOption declares a Select option with an enumerated item list.
func (t *Template) AddSelectOption(name, def string, items []string) *Template {
	return t.addOption(&Option{Name: name, Kind: OptionSelect, Value: def, Default: def, Items: items})
}

// AddTextOption declares a read-only Text option.
func (t *Template) AddTextOption(name, def string) *Template {
	return t.addOption(&Option{Name: name, Kind: OptionText, Value: def, Default: def})
}

// AddTextInputOption declares a single-line TextInput option.
func (t *Template) AddTextInputOption(name, def string) *Template {
	return t.addOption(&Option{Name: name, Kind: OptionTextInput, Value: def, Default: def})
}

// AddTextareaInputOption declares a multi-line TextareaInput option.
func (t *Template) AddTextareaInputOption(name, def string) *Template {
	return t.addOption(&Option{Name: name, Kind: OptionTextareaInput, Value: def, Default: def})
}

// Descriptor is the export_config shape for a block template, used by the
// external editor to render the palette.
type Descriptor struct {
	Name    string             `json:"name"`
	Inputs  []PortDescriptor   `json:"inputs"`
	Outputs []PortDescriptor   `json:"outputs"`
	Options []OptionDescriptor `json:"options"`
}

// PortDescriptor names a single declared port.
type PortDescriptor struct {
	Name string `json:"name"`
}

// ExportConfig renders the template's editor-facing descriptor.
func (t *Template) ExportConfig() Descriptor {
	d := Descriptor{Name: t.Name}
	for _, in := range t.Inputs {
		d.Inputs = append(d.Inputs, PortDescriptor{Name: in})
	}
	for _, out := range t.Outputs {
		d.Outputs = append(d.Outputs, PortDescriptor{Name: out})
	}
	for _, opt := range t.Options {
		d.Options = append(d.Options, opt.Descriptor())
	}
	return d
}

// Spawn creates an independent instance of the template, stamped with the
// given instance ID (the schema node ID). Per the engine's design notes,
// this is a factory that copies state by value rather than a structural
// deep clone: each Option is cloned individually and port buffers start
// nil, so no instance shares mutable state with the template or its
// siblings.
func (t *Template) Spawn(instanceID string) *Instance {
	inst := &Instance{
		InstanceID: instanceID,
		templateName: t.Name,
		inputNames:  append([]string(nil), t.Inputs...),
		outputNames: append([]string(nil), t.Outputs...),
		inputs:      make(map[string]*Value, len(t.Inputs)),
		outputs:     make(map[string]*Value, len(t.Outputs)),
		options:     make(map[string]*Option, len(t.Options)),
		compute:     t.Compute,
		asyncCompute: t.AsyncCompute,
	}
	for _, name := range t.Inputs {
		inst.inputs[name] = nil
	}
	for _, name := range t.Outputs {
		inst.outputs[name] = nil
	}
	for _, opt := range t.Options {
		inst.options[opt.Name] = opt.Clone()
	}
	return inst
}

// Instance is a live, mutable copy of a template: the schema node's stable
// instance_id, its current input/output port buffers, and its option
// values after overlay from the schema (data model §3).
type Instance struct {
	InstanceID   string
	templateName string
	inputNames   []string
	outputNames  []string
	inputs       map[string]*Value
	outputs      map[string]*Value
	options      map[string]*Option
	compute      ComputeFunc
	asyncCompute func(ctx context.Context, inst *Instance) error
}

// Name returns the originating template's name.
func (inst *Instance) Name() string { return inst.templateName }

// InputNames returns the instance's declared input port names.
func (inst *Instance) InputNames() []string { return append([]string(nil), inst.inputNames...) }

// OutputNames returns the instance's declared output port names.
func (inst *Instance) OutputNames() []string { return append([]string(nil), inst.outputNames...) }

// HasInput reports whether name is a declared input port.
func (inst *Instance) HasInput(name string) bool {
	_, ok := inst.inputs[name]
	return ok
}

// HasOutput reports whether name is a declared output port.
func (inst *Instance) HasOutput(name string) bool {
	_, ok := inst.outputs[name]
	return ok
}

// HasOption reports whether name is a declared option.
func (inst *Instance) HasOption(name string) bool {
	_, ok := inst.options[name]
	return ok
}

// GetOption reads the current value of the named option.
func (inst *Instance) GetOption(name string) (any, error) {
	opt, ok := inst.options[name]
	if !ok {
		return nil, fmt.Errorf("block %s: no such option %q", inst.templateName, name)
	}
	return opt.Value, nil
}

// SetOption writes a new option value, clamping numeric kinds.
func (inst *Instance) SetOption(name string, value any) error {
	opt, ok := inst.options[name]
	if !ok {
		return fmt.Errorf("block %s: no such option %q", inst.templateName, name)
	}
	return opt.Set(value)
}

// GetInterface reads the current value of an input port.
func (inst *Instance) GetInterface(name string) *Value {
	return inst.inputs[name]
}

// SetInterface writes the current value of an output port.
func (inst *Instance) SetInterface(name string, value *Value) error {
	if _, ok := inst.outputs[name]; !ok {
		return fmt.Errorf("block %s: no such output %q", inst.templateName, name)
	}
	inst.outputs[name] = value
	return nil
}

// SetInput delivers a transferred value to an input port. It is used by the
// executor, not by block compute bodies (which use GetInterface).
func (inst *Instance) SetInput(name string, value *Value) error {
	if _, ok := inst.inputs[name]; !ok {
		return fmt.Errorf("block %s: no such input %q", inst.templateName, name)
	}
	inst.inputs[name] = value
	return nil
}

// OutputValue returns the current value of an output port without copying,
// for use by the executor when building transfers.
func (inst *Instance) OutputValue(name string) *Value { return inst.outputs[name] }

// OnCompute runs the synchronous compute body.
func (inst *Instance) OnCompute(ctx context.Context) error {
	if inst.compute == nil {
		return nil
	}
	return inst.compute(ctx, inst)
}

// AsyncOnCompute runs the asynchronous compute variant. The default
// behavior (AsyncCompute unset) offloads OnCompute onto worker, the
// responsibility of the caller-supplied runner so a blocking
// implementation never stalls a single cooperative scheduler goroutine,
// and waits for that compute to return; a running compute is never
// abandoned on cancellation.
func (inst *Instance) AsyncOnCompute(ctx context.Context, runner func(func())) error {
	if inst.asyncCompute != nil {
		return inst.asyncCompute(ctx, inst)
	}
	if runner == nil {
		return inst.OnCompute(ctx)
	}
	errCh := make(chan error, 1)
	runner(func() {
		errCh <- inst.OnCompute(ctx)
	})
	return <-errCh
}

// Reset clears all input and output port buffers to nil, leaving option
// values and port declarations untouched (lifecycle §3, property P5).
func (inst *Instance) Reset() {
	for name := range inst.inputs {
		inst.inputs[name] = nil
	}
	for name := range inst.outputs {
		inst.outputs[name] = nil
	}
}

// Options returns the instance's option names, sorted, for diagnostics and
// tests.
func (inst *Instance) Options() []string {
	names := make([]string, 0, len(inst.options))
	for name := range inst.options {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent instance with the same template identity,
// port declarations, and option values but cleared port buffers — used by
// the engine manager to check a fresh engine out of a blueprint without
// retaining shared mutable state (design note: factory over deep-copy).
func (inst *Instance) Clone() *Instance {
	out := &Instance{
		InstanceID:   inst.InstanceID,
		templateName: inst.templateName,
		inputNames:   append([]string(nil), inst.inputNames...),
		outputNames:  append([]string(nil), inst.outputNames...),
		inputs:       make(map[string]*Value, len(inst.inputs)),
		outputs:      make(map[string]*Value, len(inst.outputs)),
		options:      make(map[string]*Option, len(inst.options)),
		compute:      inst.compute,
		asyncCompute: inst.asyncCompute,
	}
	for name := range inst.inputs {
		out.inputs[name] = nil
	}
	for name := range inst.outputs {
		out.outputs[name] = nil
	}
	for name, opt := range inst.options {
		out.options[name] = opt.Clone()
	}
	return out
}
