package detection

// findingsSchema is the JSON Schema the raw oracle payload must satisfy
// before any finding is decoded. Field-level content rules (word counts,
// no-op corrections, type-specific checks) are enforced later by the
// validation package; this only guards against malformed payloads.
const findingsSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["error_type", "original_text", "suggested_correction", "confidence", "reasoning"],
		"properties": {
			"error_type": {"type": "string"},
			"original_text": {"type": "string"},
			"suggested_correction": {"type": "string"},
			"confidence": {"type": "string"},
			"reasoning": {"type": "string"}
		}
	}
}`
