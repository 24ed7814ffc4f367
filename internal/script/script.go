/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package script

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"dirpx.dev/gridx/apis"
)

var (
	// ErrUnknownOp is returned for a step whose op is not recognized.
	ErrUnknownOp = errors.New("gridx(script): unknown op")
	// ErrUnknownModel is returned for a mapping whose model family is not recognized.
	ErrUnknownModel = errors.New("gridx(script): unknown model family")
	// ErrInvalidStep is returned for a step missing a required argument.
	ErrInvalidStep = errors.New("gridx(script): invalid step")
)

// Script is a YAML description of mappings, initial contents and a sequence of
// storage mutations.
//
//	mappings:
//	  - model: string
//	    view: TextCell
//	  - model: string
//	    kind: header
//	    view: TitleHeader
//	sections:
//	  - header: Inbox
//	    items: [a, b, 3]
//	steps:
//	  - op: move
//	    from: [0, 0]
//	    to: [0, 2]
//	  - op: batch
//	    steps:
//	      - {op: remove, item: b}
//	      - {op: insert, item: b, at: [0, 0]}
type Script struct {
	Mappings []Mapping `yaml:"mappings"`
	Sections []Section `yaml:"sections"`
	Steps    []Step    `yaml:"steps"`
}

// Mapping registers the script view named View for a model family.
type Mapping struct {
	// Model is one of string, number, array or dictionary.
	Model string `yaml:"model"`
	// Kind is empty for item views.
	Kind string `yaml:"kind,omitempty"`
	// View is used as the reuse identifier.
	View string `yaml:"view"`
	// Layout marks the view as layout-based.
	Layout string `yaml:"layout,omitempty"`
}

// Section is the initial content of one section.
type Section struct {
	Header any   `yaml:"header,omitempty"`
	Footer any   `yaml:"footer,omitempty"`
	Items  []any `yaml:"items"`
}

// Step is one storage operation.
type Step struct {
	Op       string `yaml:"op"`
	Item     any    `yaml:"item,omitempty"`
	Items    []any  `yaml:"items,omitempty"`
	With     any    `yaml:"with,omitempty"`
	Section  int    `yaml:"section,omitempty"`
	Sections []int  `yaml:"sections,omitempty"`
	At       *Pos   `yaml:"at,omitempty"`
	From     *Pos   `yaml:"from,omitempty"`
	To       *Pos   `yaml:"to,omitempty"`
	Kind     string `yaml:"kind,omitempty"`
	Model    any    `yaml:"model,omitempty"`
	Steps    []Step `yaml:"steps,omitempty"`
}

// Pos is a position written either as [section, item] or as a bare section index.
type Pos struct {
	apis.Position
}

// UnmarshalYAML accepts a two-element sequence or a scalar section index.
func (p *Pos) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s int
		if err := node.Decode(&s); err != nil {
			return err
		}
		p.Position = apis.At(s, 0)
		return nil

	case yaml.SequenceNode:
		var pair []int
		if err := node.Decode(&pair); err != nil {
			return err
		}
		if len(pair) != 2 {
			return fmt.Errorf("line %d: position needs [section, item], got %d values", node.Line, len(pair))
		}
		p.Position = apis.At(pair[0], pair[1])
		return nil

	default:
		return fmt.Errorf("line %d: expected position, got %v", node.Line, node.Kind)
	}
}

// MarshalYAML writes the position as a flow sequence [section, item].
func (p Pos) MarshalYAML() (any, error) {
	return &yaml.Node{
		Kind:  yaml.SequenceNode,
		Style: yaml.FlowStyle,
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(p.Section)},
			{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(p.Item)},
		},
	}, nil
}

// LoadFile loads and parses a script file.
func LoadFile(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses YAML data into a Script.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse script YAML: %w", err)
	}
	return &s, nil
}
