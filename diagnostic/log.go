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

package diagnostic

import (
	"github.com/bdlm/log"
	"github.com/google/uuid"
)

// LogSink writes diagnostics as structured log entries.
type LogSink struct {
	logger *log.Logger
}

// Ensure LogSink implements Sink.
var _ Sink = (*LogSink)(nil)

// NewLogSink returns a Sink writing to logger. Errors are logged at error
// level, warnings at warn level and infos at debug level.
func NewLogSink(logger *log.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Report logs d.
func (s *LogSink) Report(d Diagnostic) {
	fields := log.Fields{"code": d.Code}
	if d.Transaction != uuid.Nil {
		fields["tx"] = d.Transaction.String()
	}
	if d.Position != nil {
		fields["position"] = d.Position.String()
	}
	if d.Kind != "" {
		fields["kind"] = d.Kind
	}
	if d.Model != "" {
		fields["model"] = d.Model
	}
	if len(d.Suggestions) > 0 {
		fields["suggestions"] = d.Suggestions
	}

	entry := s.logger.WithFields(fields)
	switch d.Severity {
	case SeverityError:
		entry.Error(d.Message)
	case SeverityWarning:
		entry.Warn(d.Message)
	default:
		entry.Debug(d.Message)
	}
}
