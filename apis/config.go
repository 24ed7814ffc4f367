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

package apis

// Config carries the knobs shared by storage, registry and resolver.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// MaxUnwrap limits how many pointer indirections are stripped from a
	// model type before lookup.
	MaxUnwrap int `mapstructure:"max_unwrap" yaml:"max_unwrap"`

	// StrictRegistration makes a second registration for the same
	// (model, kind) pair with a different view fail instead of replacing.
	StrictRegistration bool `mapstructure:"strict_registration" yaml:"strict_registration"`

	// CoalesceMoves turns a removal followed by an insertion of an equal item
	// within one transaction into a move.
	CoalesceMoves bool `mapstructure:"coalesce_moves" yaml:"coalesce_moves"`

	// DeliverEmptyUpdates delivers updates that carry no change.
	DeliverEmptyUpdates bool `mapstructure:"deliver_empty_updates" yaml:"deliver_empty_updates"`

	// SuggestionDistance is the maximum edit distance between a failed model
	// type name and a registered one for the latter to be suggested.
	SuggestionDistance int `mapstructure:"suggestion_distance" yaml:"suggestion_distance"`
}
