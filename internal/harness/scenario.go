package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario for the lifecycle engine.
type Scenario struct {
	// Name uniquely identifies this scenario. It is also the golden file
	// basename.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Objects declares every destroyable up front, with its named
	// destructors in registration order.
	Objects []ObjectDecl `yaml:"objects"`

	// Edges declares parent->child ownership. Edge order is significant:
	// siblings tear down in association order.
	Edges []EdgeDecl `yaml:"edges,omitempty"`

	// Steps drive the scenario in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final trace and registry state.
	// Supported types: teardown_order, teardown_count, destroyed,
	// destroying, no_leaks.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// ObjectDecl declares one destroyable.
type ObjectDecl struct {
	// ID names the object in edges, steps, and traces.
	ID string `yaml:"id"`

	// Destructors are registered in listed order under these names.
	Destructors []string `yaml:"destructors,omitempty"`

	// PreTeardown gives the object a pre-teardown hook, traced before any
	// of its destructors.
	PreTeardown bool `yaml:"pre_teardown,omitempty"`
}

// EdgeDecl declares one ownership edge.
type EdgeDecl struct {
	Parent string `yaml:"parent"`
	Child  string `yaml:"child"`
}

// Step is one scenario action. Exactly one field is set per step.
type Step struct {
	// Destroy triggers destruction of the named object.
	Destroy string `yaml:"destroy,omitempty"`

	// Flush drains the scheduler, running deferred teardown.
	Flush bool `yaml:"flush,omitempty"`

	// Unregister removes a named destructor before it runs.
	Unregister *UnregisterStep `yaml:"unregister,omitempty"`

	// ExpectLeak audits the registry and requires a LeakError.
	ExpectLeak bool `yaml:"expect_leak,omitempty"`
}

// UnregisterStep identifies a destructor registration to remove.
type UnregisterStep struct {
	Object     string `yaml:"object"`
	Destructor string `yaml:"destructor"`
}

// Assertion validates the trace or final registry state.
type Assertion struct {
	// Type selects the assertion:
	//   - "teardown_order": destructor invocations match Destructors exactly
	//   - "teardown_count": Destructor ran exactly Count times
	//   - "destroyed": every object in Objects is Destroyed
	//   - "destroying": every object in Objects is at least Destroying
	//   - "no_leaks": the leak audit passes
	Type string `yaml:"type"`

	Destructors []string `yaml:"destructors,omitempty"`
	Destructor  string   `yaml:"destructor,omitempty"`
	Count       int      `yaml:"count,omitempty"`
	Objects     []string `yaml:"objects,omitempty"`
}

// Assertion type names.
const (
	AssertTeardownOrder = "teardown_order"
	AssertTeardownCount = "teardown_count"
	AssertDestroyed     = "destroyed"
	AssertDestroying    = "destroying"
	AssertNoLeaks       = "no_leaks"
)

// LoadScenario reads and parses a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}

	if err := scenario.validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}

	return &scenario, nil
}

// validate performs structural checks the YAML decoder cannot express.
// Full schema validation (field types, assertion shapes) lives in
// internal/schema; this catches the references the harness would trip over.
func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Objects) == 0 {
		return fmt.Errorf("at least one object is required")
	}

	ids := make(map[string]bool, len(s.Objects))
	for _, obj := range s.Objects {
		if obj.ID == "" {
			return fmt.Errorf("object id is required")
		}
		if ids[obj.ID] {
			return fmt.Errorf("duplicate object id %q", obj.ID)
		}
		ids[obj.ID] = true

		seen := make(map[string]bool, len(obj.Destructors))
		for _, d := range obj.Destructors {
			if seen[d] {
				return fmt.Errorf("object %q: duplicate destructor %q", obj.ID, d)
			}
			seen[d] = true
		}
	}

	for _, e := range s.Edges {
		if !ids[e.Parent] {
			return fmt.Errorf("edge references unknown parent %q", e.Parent)
		}
		if !ids[e.Child] {
			return fmt.Errorf("edge references unknown child %q", e.Child)
		}
	}

	for i, step := range s.Steps {
		set := 0
		if step.Destroy != "" {
			if !ids[step.Destroy] {
				return fmt.Errorf("step[%d]: destroy references unknown object %q", i, step.Destroy)
			}
			set++
		}
		if step.Flush {
			set++
		}
		if step.Unregister != nil {
			if !ids[step.Unregister.Object] {
				return fmt.Errorf("step[%d]: unregister references unknown object %q", i, step.Unregister.Object)
			}
			set++
		}
		if step.ExpectLeak {
			set++
		}
		if set != 1 {
			return fmt.Errorf("step[%d]: exactly one action per step, got %d", i, set)
		}
	}

	return nil
}
