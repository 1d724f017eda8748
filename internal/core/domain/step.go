package domain

// OutputSpec describes one declared output of a step.
// HashAlgorithm and Hash are empty for input-addressed outputs.
type OutputSpec struct {
	Path          StepID
	HashAlgorithm string
	Hash          string
}

// NamedOutput pairs an output name with its spec.
type NamedOutput struct {
	Name string
	OutputSpec
}

// InputStep is a reference to another step together with the output names
// consumed from it.
type InputStep struct {
	ID      StepID
	Outputs []string
}

// EnvVar is a single environment variable passed to the builder.
type EnvVar struct {
	Name  string
	Value string
}

// Step is one parsed build step. It is immutable once returned by the parser.
// Slices keep the order of the source description; keys within each slice
// are unique.
type Step struct {
	Outputs      []NamedOutput
	InputSteps   []InputStep
	InputSources []StepID
	Platform     string
	Builder      string
	Args         []string
	Env          []EnvVar
}

// Output looks up an output by name.
func (s *Step) Output(name string) (OutputSpec, bool) {
	for _, o := range s.Outputs {
		if o.Name == name {
			return o.OutputSpec, true
		}
	}
	return OutputSpec{}, false
}

// EnvValue looks up an environment variable by name.
func (s *Step) EnvValue(name string) (string, bool) {
	for _, e := range s.Env {
		if e.Name == name {
			return e.Value, true
		}
	}
	return "", false
}

// OutputNames returns the declared output names in order.
func (s *Step) OutputNames() []string {
	names := make([]string, len(s.Outputs))
	for i, o := range s.Outputs {
		names[i] = o.Name
	}
	return names
}

// InputStepIDs returns the referenced step identifiers in order.
func (s *Step) InputStepIDs() []StepID {
	ids := make([]StepID, len(s.InputSteps))
	for i, in := range s.InputSteps {
		ids[i] = in.ID
	}
	return ids
}

// ConsumedOutputs returns the output names consumed from the given input step.
func (s *Step) ConsumedOutputs(id StepID) []string {
	for _, in := range s.InputSteps {
		if in.ID == id {
			return in.Outputs
		}
	}
	return nil
}
