package config

const (
	// MaxWorkspaceNameLength is the maximum length for workspace names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (names should be short and descriptive).
	MaxWorkspaceNameLength = 255

	// MaxDocumentTitleLength is the maximum length for document titles.
	// Same bound as workspace names for consistency.
	MaxDocumentTitleLength = 255

	// MaxTableColumnNameLength is the maximum length for inline-table
	// column names.
	MaxTableColumnNameLength = 100

	// MaxBlocksPerDocument caps the block list accepted from the editing
	// surface. Documents beyond this are pathological and rejected at the
	// content endpoint before parsing.
	MaxBlocksPerDocument = 10000

	// SavedStatusRevertMillis is how long the save indicator shows "saved"
	// before reverting to "idle".
	SavedStatusRevertMillis = 2000
)
