package classify

// BuildClassificationSchema returns a JSON-Schema as a generic map. It is
// sent to the model as an output constraint and used locally to validate
// the response before it is trusted.
func BuildClassificationSchema(categories []string) map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"category": map[string]any{
				"type": "string",
				"enum": categories,
			},
			"confidence": map[string]any{
				"type":    "number",
				"minimum": 0.0,
				"maximum": 1.0,
			},
		},
		"required": []string{"category"},
	}
}
