package usecase

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const promptInstructions = `You are an expert insurance claims analyst.
Given the raw text extracted from photo-inspection reports, return a valid JSON object
whose keys exactly match this list of template variables:
%s

For any missing value, return an empty string. Ensure the JSON is valid and properly formatted.
Only return the JSON object, no additional text or explanation.`

// BuildPrompt is a pure function of the placeholder set and the extracted
// report text. The report text is embedded verbatim; nothing is escaped.
func BuildPrompt(placeholders []string, reportText string) string {
	names, _ := json.Marshal(placeholders)
	return fmt.Sprintf(promptInstructions, names) + "\n\nREPORT TEXT:\n" + reportText
}

// parseFieldContext parses the model's raw answer as a JSON object. Anything
// that is not an object, including a bare null, is rejected. The parsed
// mapping is handed to the renderer verbatim.
func parseFieldContext(raw string) (map[string]any, error) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, errors.New("completion is json null, expected an object")
	}
	return fields, nil
}
