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

package diagnostic_test

import (
	"bytes"
	"testing"

	"github.com/bdlm/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/gridx/apis"
	"dirpx.dev/gridx/diagnostic"
)

type described struct{}

func (described) ModelDescription() string { return "described model" }

func TestDiagnosticString(t *testing.T) {
	d := diagnostic.Diagnostic{
		Severity:    diagnostic.SeverityError,
		Code:        diagnostic.CodeNoMapping,
		Message:     "no view registered",
		Position:    diagnostic.At(apis.At(1, 2)),
		Kind:        apis.KindHeader,
		Model:       "main.Post",
		Suggestions: []string{"main.Posts"},
	}

	assert.Equal(t,
		"[1,2] kind=header main.Post: [no_mapping] no view registered (did you mean main.Posts?)",
		d.String())

	bare := diagnostic.Diagnostic{Message: "plain"}
	assert.Equal(t, "plain", bare.String())
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "info", diagnostic.SeverityInfo.String())
	assert.Equal(t, "warning", diagnostic.SeverityWarning.String())
	assert.Equal(t, "error", diagnostic.SeverityError.String())
	assert.Equal(t, "unknown", diagnostic.Severity(42).String())
}

func TestCollector(t *testing.T) {
	var c diagnostic.Collector
	c.Report(diagnostic.Diagnostic{Severity: diagnostic.SeverityWarning, Code: diagnostic.CodeItemNotFound})
	c.Report(diagnostic.Diagnostic{Severity: diagnostic.SeverityError, Code: diagnostic.CodeNoMapping, Message: "boom"})
	c.Report(diagnostic.Diagnostic{Severity: diagnostic.SeverityInfo, Code: diagnostic.CodeMappingReplaced})

	assert.Equal(t, []string{
		diagnostic.CodeItemNotFound,
		diagnostic.CodeNoMapping,
		diagnostic.CodeMappingReplaced,
	}, c.Codes())
	assert.Len(t, c.Warnings, 1)
	assert.Len(t, c.Errors, 1)
	assert.Len(t, c.Infos, 1)
	assert.Equal(t, 3, c.Len())
	require.EqualError(t, c.Error(), "[no_mapping] boom")

	c.Reset()
	assert.Zero(t, c.Len())
	assert.Empty(t, c.All)
	assert.NoError(t, c.Error())
}

func TestMulti_SkipsNil(t *testing.T) {
	var a, b diagnostic.Collector
	s := diagnostic.Multi(&a, nil, &b)
	s.Report(diagnostic.Diagnostic{Code: "x"})

	assert.Equal(t, []string{"x"}, a.Codes())
	assert.Equal(t, []string{"x"}, b.Codes())
}

func TestOrDiscard(t *testing.T) {
	assert.NotNil(t, diagnostic.OrDiscard(nil))
	var c diagnostic.Collector
	assert.Same(t, &c, diagnostic.OrDiscard(&c))
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "described model", diagnostic.Describe(described{}))
	assert.Equal(t, "int", diagnostic.Describe(42))
	assert.Equal(t, "<nil>", diagnostic.Describe(nil))
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New()
	logger.Out = &buf
	logger.SetLevel(log.DebugLevel)

	s := diagnostic.NewLogSink(logger)
	s.Report(diagnostic.Diagnostic{
		Severity: diagnostic.SeverityWarning,
		Code:     diagnostic.CodeItemNotFound,
		Message:  "item not in storage",
		Position: diagnostic.At(apis.At(0, 3)),
	})

	out := buf.String()
	assert.Contains(t, out, "item not in storage")
	assert.Contains(t, out, diagnostic.CodeItemNotFound)
}
