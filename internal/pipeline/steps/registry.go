// Package steps provides step definitions and dependency validation for the
// study schedule pipeline.
package steps

import (
	"fmt"
)

// Step names.
const (
	Anchors  = "anchors"
	Schedule = "schedule"
	Document = "document"
)

// StepDefinition defines metadata for a pipeline step
type StepDefinition struct {
	Name         string
	Description  string
	Dependencies []string
}

// StepRegistry holds all step definitions
var StepRegistry = map[string]StepDefinition{
	Anchors: {
		Name:         Anchors,
		Description:  "Computing Hebrew birthdays",
		Dependencies: []string{},
	},
	Schedule: {
		Name:         Schedule,
		Description:  "Building study schedule",
		Dependencies: []string{Anchors},
	},
	Document: {
		Name:         Document,
		Description:  "Assembling LaTeX document",
		Dependencies: []string{Schedule},
	},
}

// DependencyError represents a dependency validation error
type DependencyError struct {
	Step                string
	MissingDependencies []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("step %s: missing dependencies: %v", e.Step, e.MissingDependencies)
}

// ValidateDependencies checks that every required dependency of stepName is
// in completed.
func ValidateDependencies(completed map[string]bool, stepName string) error {
	def, ok := StepRegistry[stepName]
	if !ok {
		return fmt.Errorf("unknown step: %s", stepName)
	}

	var missing []string
	for _, dep := range def.Dependencies {
		if !completed[dep] {
			missing = append(missing, dep)
		}
	}

	if len(missing) > 0 {
		return &DependencyError{
			Step:                stepName,
			MissingDependencies: missing,
		}
	}
	return nil
}

// Resolve returns target and its transitive dependencies in execution order,
// skipping steps already in satisfied.
func Resolve(target string, satisfied map[string]bool) ([]StepDefinition, error) {
	var order []StepDefinition
	seen := map[string]bool{}
	visiting := map[string]bool{}

	var visit func(name string) error
	visit = func(name string) error {
		if seen[name] || satisfied[name] {
			return nil
		}
		if visiting[name] {
			return fmt.Errorf("dependency cycle at step %s", name)
		}
		def, ok := StepRegistry[name]
		if !ok {
			return fmt.Errorf("unknown step: %s", name)
		}
		visiting[name] = true
		for _, dep := range def.Dependencies {
			if err := visit(dep); err != nil {
				return err
			}
		}
		visiting[name] = false
		seen[name] = true
		order = append(order, def)
		return nil
	}

	if err := visit(target); err != nil {
		return nil, err
	}
	return order, nil
}
