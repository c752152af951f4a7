package pack

import "github.com/meigma/pack/internal/packtype"

// Re-export progress types from internal/packtype.
type (
	// ProgressEvent represents a progress update during packing or extraction.
	ProgressEvent = packtype.ProgressEvent

	// ProgressStage identifies the current phase of an operation.
	ProgressStage = packtype.ProgressStage

	// ProgressFunc receives progress updates during operations.
	// Implementations must be safe for concurrent calls.
	ProgressFunc = packtype.ProgressFunc
)

// Re-export progress stage constants.
const (
	// StageEnumerating indicates the operation is walking the directory tree.
	StageEnumerating = packtype.StageEnumerating

	// StageCompressing indicates blobs are being compressed and appended.
	StageCompressing = packtype.StageCompressing

	// StageExtracting indicates entries are being written to disk.
	StageExtracting = packtype.StageExtracting
)
