/*
Copyright 2025 The helpdesk-responder-sim Authors.

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

package responder

import "fmt"

// MalformedInputError reports a response file that violates the record
// separation rule: records may be separated by at most one blank line.
// The parse that discovers it is aborted, the partially built result is
// still returned to the caller.
type MalformedInputError struct {
	// Line is the 1-based number of the blank line that broke the rule
	Line int
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("two or more consecutive blank lines were encountered (line %d)", e.Line)
}
