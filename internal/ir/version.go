package ir

// Version constants for snapshots and the verdict log.
const (
	// SnapshotVersion is the golden snapshot schema version.
	SnapshotVersion = "1"

	// ToolVersion is the querycmp version.
	ToolVersion = "0.1.0"
)
