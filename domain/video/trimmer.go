package video

import "context"

// Trimmer defines the interface for executing a trim plan
// This is a port that can be implemented by different infrastructure adapters
type Trimmer interface {
	// Execute runs the plan and leaves the result at plan.OutputPath
	Execute(ctx context.Context, plan TrimPlan) error
}

// DurationProber extracts metadata, most importantly duration, from a media file
type DurationProber interface {
	Probe(ctx context.Context, path string) (*MediaInfo, error)
}

// FileValidator checks that a path is an acceptable input file
type FileValidator interface {
	Validate(path string) error
}

// FileChecker defines the interface for inspecting files on disk
type FileChecker interface {
	// Exists returns true if the file exists
	Exists(path string) bool
	// Size returns the size of the file in bytes
	Size(path string) (int64, error)
}

// ConfirmFunc decides whether an existing output file may be overwritten
type ConfirmFunc func(path string) (bool, error)
