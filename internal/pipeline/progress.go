// Package pipeline coordinates the asynchronous terrain generation
// stages: task dependency ordering, start/finished events and progress
// reporting for long running work.
package pipeline

import "fmt"

// Stage identifies one long running pipeline stage.
type Stage uint8

// Pipeline stages.
const (
	StageIgnored Stage = iota
	StageLoadHeightmap
	StageLoadTextureControl
	StageLoadTintMap
	StageGenerateClipmap
	StageGenerateNormals
	StageGenerateErrorMaps
	StageMergeSeams
	StageGenerateTiles
	StageGenerateMeshes
	StageLoadMaterialSet
)

// counted reports whether the stage carries a (completed, total) pair
// instead of a plain done flag.
func (s Stage) counted() bool {
	switch s {
	case StageGenerateErrorMaps, StageMergeSeams, StageGenerateMeshes, StageLoadMaterialSet:
		return true
	}
	return false
}

// Progress is a progress report for one pipeline stage.
//
// IMPORTANT: the identity of a Progress value is its Stage alone, the
// payload (done flag or counters) is deliberately excluded. A stream of
// reports for the same stage deduplicates to "still the same kind of
// work" while each report carries fresh counters for display. Consumers
// that need payload comparison must compare fields explicitly.
type Progress struct {
	Stage Stage
	// Done marks boolean stages finished.
	Done bool
	// Completed and Total are used by counted stages.
	Completed int
	Total     int
}

// Finished builds a report for a boolean stage.
func Finished(stage Stage, done bool) Progress {
	return Progress{Stage: stage, Done: done}
}

// Counted builds a report for a counted stage.
func Counted(stage Stage, completed, total int) Progress {
	return Progress{Stage: stage, Completed: completed, Total: total}
}

// IsFinished reports stage completion: the done flag for boolean stages,
// completed == total for counted ones.
func (p Progress) IsFinished() bool {
	if p.Stage == StageIgnored {
		return true
	}
	if p.Stage.counted() {
		return p.Completed == p.Total
	}
	return p.Done
}

// Fraction returns completion in [0..1]. Counted stages divide
// completed by total; a zero total yields NaN, which callers avoid by
// never tracking empty counted stages.
func (p Progress) Fraction() float32 {
	if p.Stage == StageIgnored {
		return 1.0
	}
	if p.Stage.counted() {
		return float32(p.Completed) / float32(p.Total)
	}
	if p.Done {
		return 1.0
	}
	return 0.0
}

// Message returns the in-progress status line for display.
func (p Progress) Message() string {
	switch p.Stage {
	case StageLoadHeightmap:
		return "loading heightmap..."
	case StageLoadTextureControl:
		return "loading texture control map..."
	case StageLoadTintMap:
		return "loading tint map..."
	case StageGenerateClipmap:
		return "generating clipmap..."
	case StageGenerateNormals:
		return "generating normals..."
	case StageGenerateErrorMaps:
		return formatPercent("generating error maps", p.Fraction())
	case StageMergeSeams:
		return formatPercent("merging tile seams", p.Fraction())
	case StageGenerateTiles:
		return "generating tiles..."
	case StageGenerateMeshes:
		return formatPercent("generating tile meshes", p.Fraction())
	case StageLoadMaterialSet:
		return fmt.Sprintf("loading materials...%d/%d", p.Completed, p.Total)
	}
	return ""
}

// FinishedMessage returns the completion status line for display.
func (p Progress) FinishedMessage() string {
	switch p.Stage {
	case StageLoadHeightmap:
		return "heightmap loaded."
	case StageLoadTextureControl:
		return "texture control map loaded."
	case StageLoadTintMap:
		return "tint map loaded."
	case StageGenerateClipmap:
		return "clipmap generated."
	case StageGenerateNormals:
		return "heightmap normals generated."
	case StageGenerateErrorMaps:
		return "error maps generated."
	case StageMergeSeams:
		return "tile seams merged."
	case StageGenerateTiles:
		return "mesh tile info generated."
	case StageGenerateMeshes:
		return "terrain mesh generation finished."
	case StageLoadMaterialSet:
		return "materials loaded."
	}
	return ""
}

func formatPercent(msg string, fraction float32) string {
	return fmt.Sprintf("%s...%d%%", msg, int(fraction*100.0))
}
