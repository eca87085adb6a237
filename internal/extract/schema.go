package extract

import (
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// The response must be an object with string values for the text fields;
// patient_id may arrive as a number or a string. Keys are not required
// here: absent fields are filled with defaults by the assembler, while
// unknown keys are tolerated and ignored.
const responseSchema = `{
  "type": "object",
  "properties": {
    "patient_id":       {"type": ["string", "number"]},
    "patient_name":     {"type": "string"},
    "patient_dose":     {"type": "string"},
    "notes_for_doctor": {"type": "string"}
  }
}`

var compiledSchema = jsonschema.MustCompileString("response.json", responseSchema)

func validateShape(v any) error {
	return compiledSchema.Validate(v)
}

// shapeErrorSummary flattens a validation error into one operator-readable line.
func shapeErrorSummary(err error) string {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err.Error()
	}
	leaf := ve
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	loc := strings.TrimPrefix(leaf.InstanceLocation, "/")
	if loc == "" {
		return leaf.Message
	}
	return loc + ": " + leaf.Message
}
