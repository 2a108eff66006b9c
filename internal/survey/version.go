package survey

// Version constants for the definition schema and engine.
const (
	// SchemaVersion is the questionnaire definition schema version.
	SchemaVersion = "1"

	// EngineVersion is the quill engine version.
	EngineVersion = "0.1.0"
)
