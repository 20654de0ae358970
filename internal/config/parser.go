package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	rerrors "github.com/danrasband/reconcile/pkg/errors"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// ParseScenario loads a scenario file from disk, validates its shape, runs
// the semantic checks a State Graph pair requires, and returns the parsed
// Scenario: load -> unmarshal -> validate -> semantic-check.
func ParseScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, rerrors.NewParseError(path, 0, err)
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, rerrors.NewParseError(path, extractLine(err), err)
	}

	if err := validatorInstance().Struct(&scenario); err != nil {
		return nil, convertValidationError(err)
	}

	if err := checkSemantics(&scenario); err != nil {
		return nil, err
	}

	return &scenario, nil
}

func checkSemantics(s *Scenario) error {
	currentPaths := pathSet(s.Current)
	desiredPaths := pathSet(s.Desired)

	if len(currentPaths) != len(s.Current) {
		return rerrors.NewPreconditionViolation("ParseScenario", "duplicate node path in `current`")
	}
	if len(desiredPaths) != len(s.Desired) {
		return rerrors.NewPreconditionViolation("ParseScenario", "duplicate node path in `desired`")
	}

	if len(currentPaths) != len(desiredPaths) {
		return rerrors.NewPreconditionViolation("ParseScenario", "`current` and `desired` must describe the same set of node paths")
	}
	for p := range currentPaths {
		if _, ok := desiredPaths[p]; !ok {
			return rerrors.NewPreconditionViolation("ParseScenario", fmt.Sprintf("path %q present in `current` but missing from `desired`", p))
		}
	}

	for _, edge := range s.Edges {
		if _, ok := currentPaths[edge.From]; !ok {
			return rerrors.NewPreconditionViolation("ParseScenario", fmt.Sprintf("edge references unknown path %q", edge.From))
		}
		if _, ok := currentPaths[edge.To]; !ok {
			return rerrors.NewPreconditionViolation("ParseScenario", fmt.Sprintf("edge references unknown path %q", edge.To))
		}
	}

	return nil
}

func pathSet(nodes []NodeSpec) map[string]struct{} {
	set := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		set[n.Path] = struct{}{}
	}
	return set
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}
	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}
	var line int
	if _, scanErr := fmt.Sscanf(matches[1], "%d", &line); scanErr != nil {
		return 0
	}
	return line
}

func convertValidationError(err error) error {
	if err == nil {
		return nil
	}
	if ves, ok := err.(validator.ValidationErrors); ok {
		fe := ves[0]
		return rerrors.NewInvalidRegistration(fieldName(fe), fmt.Sprintf("failed validation for tag '%s'", fe.Tag()))
	}
	return rerrors.NewInvalidRegistration("scenario", err.Error())
}

func fieldName(fe validator.FieldError) string {
	return fe.Namespace()
}
