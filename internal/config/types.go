// Package config defines the YAML shape of a reconciliation scenario: a
// graph-kind, a set of node-kinds and states for the current graph, the
// same for the desired graph, and the edges connecting them.
package config

// Scenario is the top-level YAML document describing one reconciliation
// run.
type Scenario struct {
	Version   string     `yaml:"version" validate:"required"`
	GraphKind string     `yaml:"graph_kind" validate:"required,token"`
	Current   []NodeSpec `yaml:"current" validate:"required,min=1,dive"`
	Desired   []NodeSpec `yaml:"desired" validate:"required,min=1,dive"`
	Edges     []EdgeSpec `yaml:"edges" validate:"dive"`
}

// NodeSpec is one node's path, kind, and attribute state, as it appears in
// either the current or desired section of a Scenario.
type NodeSpec struct {
	Path  string                 `yaml:"path" validate:"required,abspath"`
	Kind  string                 `yaml:"kind" validate:"required,token"`
	State map[string]interface{} `yaml:"state"`
}

// EdgeSpec is one directed edge between two node paths.
type EdgeSpec struct {
	From string `yaml:"from" validate:"required,abspath"`
	To   string `yaml:"to" validate:"required,abspath"`
}
