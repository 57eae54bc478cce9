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

package responderapi

import (
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Validator checks respond request bodies against the API schema before they
// enter the processing flow.
type Validator struct {
	schema *jsonschema.Schema
}

func CreateValidator() (*Validator, error) {
	sch, err := jsonschema.CompileString("schema.json", schema)
	if err != nil {
		return nil, err
	}
	return &Validator{schema: sch}, nil
}

// ValidateRequest validates the raw body of a respond request.
func (v *Validator) ValidateRequest(body []byte) error {
	var value interface{}
	if err := json.Unmarshal(body, &value); err != nil {
		return err
	}

	return v.schema.Validate(value)
}

const schema = `{
  "type": "object",
  "properties": {
    "message": {
      "type": "string",
      "description": "Free user input to extract the word set from"
    },
    "words": {
      "type": "array",
      "items": {
        "type": "string"
      },
      "minItems": 1,
      "description": "An explicit input word set"
    }
  },
  "anyOf": [
    {
      "required": [
        "message"
      ]
    },
    {
      "required": [
        "words"
      ]
    }
  ],
  "additionalProperties": false
}`
