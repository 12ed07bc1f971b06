// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package component

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalid marks a document that Image Builder would reject.
var ErrInvalid = errors.New("invalid component document")

// Document is an Image Builder component document.
type Document struct {
	Name          string  `yaml:"name"`
	Description   string  `yaml:"description"`
	SchemaVersion string  `yaml:"schemaVersion"`
	Phases        []Phase `yaml:"phases"`
}

// Phase is one of build, validate or test.
type Phase struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Step runs a single action module.
type Step struct {
	Name           string    `yaml:"name"`
	Action         string    `yaml:"action"`
	OnFailure      string    `yaml:"onFailure,omitempty"`
	TimeoutSeconds int       `yaml:"timeoutSeconds,omitempty"`
	MaxAttempts    int       `yaml:"maxAttempts,omitempty"`
	Inputs         yaml.Node `yaml:"inputs"`
}

var (
	phaseNames = []string{"build", "validate", "test"}

	onFailureValues = []string{"", "Abort", "Continue", "Ignore"}

	actions = []string{
		"AppendFile", "Assert", "CopyFile", "CopyFolder", "CreateFile",
		"CreateFolder", "CreateSymlink", "DeleteFile", "DeleteFolder",
		"ExecuteBash", "ExecuteBinary", "ExecuteDocument", "ExecutePowerShell",
		"InstallMSI", "ListFiles", "MoveFile", "MoveFolder", "ReadFile",
		"Reboot", "S3Download", "S3Upload", "SetFileEncoding", "SetFileOwner",
		"SetFilePermissions", "SetFolderOwner", "SetFolderPermissions",
		"SetRegistryKey", "UninstallMSI", "UpdateOS", "WebDownload",
	}

	stepNameRE = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)
)

// Parse decodes payload as a component document.
func Parse(payload []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(payload, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return doc, nil
}

// Problems returns every rule the document breaks, in document order.
func (d Document) Problems() []string {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if d.SchemaVersion != "1.0" {
		add("schemaVersion must be 1.0, got %q", d.SchemaVersion)
	}
	if len(d.Phases) == 0 {
		add("at least one phase is required")
	}

	seenPhase := map[string]bool{}
	for _, phase := range d.Phases {
		if !slices.Contains(phaseNames, phase.Name) {
			add("phase %q: name must be one of %s", phase.Name, strings.Join(phaseNames, ", "))
		}
		if seenPhase[phase.Name] {
			add("phase %q: duplicate", phase.Name)
		}
		seenPhase[phase.Name] = true

		if len(phase.Steps) == 0 {
			add("phase %q: at least one step is required", phase.Name)
		}

		seenStep := map[string]bool{}
		for _, step := range phase.Steps {
			where := phase.Name + "/" + step.Name
			if !stepNameRE.MatchString(step.Name) {
				add("step %q: invalid name", where)
			}
			if seenStep[step.Name] {
				add("step %q: duplicate", where)
			}
			seenStep[step.Name] = true

			if !slices.Contains(actions, step.Action) {
				add("step %q: unknown action %q", where, step.Action)
			}
			if !slices.Contains(onFailureValues, step.OnFailure) {
				add("step %q: onFailure must be Abort, Continue or Ignore", where)
			}
			if step.TimeoutSeconds < 0 && step.TimeoutSeconds != -1 {
				add("step %q: timeoutSeconds must be positive or -1", where)
			}
			if step.MaxAttempts < 0 {
				add("step %q: maxAttempts must not be negative", where)
			}
		}
	}

	return problems
}

// Validate returns ErrInvalid, listing every problem, when the document
// breaks any rule.
func (d Document) Validate() error {
	problems := d.Problems()
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w:\n  %s", ErrInvalid, strings.Join(problems, "\n  "))
}

// StepCount returns the number of steps across all phases.
func (d Document) StepCount() int {
	n := 0
	for _, p := range d.Phases {
		n += len(p.Steps)
	}
	return n
}

// Commands returns the shell commands of the ExecuteBash steps in phase.
func (d Document) Commands(phase string) []string {
	var out []string
	for _, p := range d.Phases {
		if p.Name != phase {
			continue
		}
		for _, s := range p.Steps {
			if s.Action != "ExecuteBash" {
				continue
			}
			var in struct {
				Commands []string `yaml:"commands"`
			}
			if err := s.Inputs.Decode(&in); err == nil {
				out = append(out, in.Commands...)
			}
		}
	}
	return out
}
