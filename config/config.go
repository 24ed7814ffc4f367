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

package config

import (
	"dirpx.dev/gridx/apis"
)

const (
	// DefaultMaxUnwrap represents the default for MaxUnwrap.
	// A value of 8 should be sufficient for all practical purposes.
	DefaultMaxUnwrap = 8
	// DefaultStrictRegistration represents the default for StrictRegistration.
	// Duplicate registrations silently replace the earlier mapping.
	DefaultStrictRegistration = false
	// DefaultCoalesceMoves represents the default for CoalesceMoves.
	DefaultCoalesceMoves = true
	// DefaultDeliverEmptyUpdates represents the default for DeliverEmptyUpdates.
	DefaultDeliverEmptyUpdates = false
	// DefaultSuggestionDistance represents the default for SuggestionDistance.
	DefaultSuggestionDistance = 3
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return Sanitize(cfg)
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		MaxUnwrap:           DefaultMaxUnwrap,
		StrictRegistration:  DefaultStrictRegistration,
		CoalesceMoves:       DefaultCoalesceMoves,
		DeliverEmptyUpdates: DefaultDeliverEmptyUpdates,
		SuggestionDistance:  DefaultSuggestionDistance,
	}
}

// Sanitize replaces out-of-range numeric knobs with their defaults.
func Sanitize(cfg apis.Config) apis.Config {
	if cfg.MaxUnwrap <= 0 {
		cfg.MaxUnwrap = DefaultMaxUnwrap
	}
	if cfg.SuggestionDistance < 0 {
		cfg.SuggestionDistance = DefaultSuggestionDistance
	}
	return cfg
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithMaxUnwrap sets the MaxUnwrap option.
// A non-positive value resets to the default.
func WithMaxUnwrap(max int) Option {
	return func(c *apis.Config) {
		if max <= 0 {
			c.MaxUnwrap = DefaultMaxUnwrap
			return
		}
		c.MaxUnwrap = max
	}
}

// WithStrictRegistration sets the StrictRegistration option.
func WithStrictRegistration(strict bool) Option {
	return func(c *apis.Config) {
		c.StrictRegistration = strict
	}
}

// WithCoalesceMoves sets the CoalesceMoves option.
func WithCoalesceMoves(coalesce bool) Option {
	return func(c *apis.Config) {
		c.CoalesceMoves = coalesce
	}
}

// WithDeliverEmptyUpdates sets the DeliverEmptyUpdates option.
func WithDeliverEmptyUpdates(deliver bool) Option {
	return func(c *apis.Config) {
		c.DeliverEmptyUpdates = deliver
	}
}

// WithSuggestionDistance sets the SuggestionDistance option.
// Zero disables suggestions; a negative value resets to the default.
func WithSuggestionDistance(d int) Option {
	return func(c *apis.Config) {
		if d < 0 {
			c.SuggestionDistance = DefaultSuggestionDistance
			return
		}
		c.SuggestionDistance = d
	}
}
