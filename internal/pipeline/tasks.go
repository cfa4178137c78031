package pipeline

import (
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/terrascape/internal/logger"
)

// Task is one schedulable pipeline operation. Emitting a Task from the
// manager is the signal to start it.
type Task uint8

// Pipeline tasks.
const (
	TaskLoadHeightmap Task = iota
	TaskLoadTextureControl
	TaskLoadTintMap
	TaskGenerateClipmap
	TaskGenerateNormals
	TaskGenerateTiles
	TaskGenerateErrorMaps
	TaskGenerateMeshes
	TaskMergeSeams
	TaskLoadMaterialSet
	TaskWaitForTerrainLoaded
)

// FinishedEvent marks completion of a pipeline task.
type FinishedEvent uint8

// Completion events.
const (
	HeightmapLoaded FinishedEvent = iota
	TextureControlLoaded
	TintMapLoaded
	ClipmapGenerated
	NormalsGenerated
	TilesGenerated
	ErrorMapsGenerated
	MeshesGenerated
	SeamsMerged
	MaterialSetLoaded
	TerrainLoaded
)

// preconditions lists the events that must have fired before the task
// may start.
func (t Task) preconditions() []FinishedEvent {
	switch t {
	case TaskGenerateClipmap:
		return []FinishedEvent{HeightmapLoaded, TextureControlLoaded, TintMapLoaded}
	case TaskGenerateNormals:
		return []FinishedEvent{HeightmapLoaded}
	case TaskGenerateTiles:
		return []FinishedEvent{HeightmapLoaded}
	case TaskGenerateErrorMaps:
		return []FinishedEvent{TilesGenerated}
	case TaskGenerateMeshes:
		return []FinishedEvent{ErrorMapsGenerated}
	case TaskMergeSeams:
		return []FinishedEvent{MeshesGenerated}
	case TaskWaitForTerrainLoaded:
		return []FinishedEvent{
			ClipmapGenerated, NormalsGenerated, SeamsMerged, MaterialSetLoaded,
		}
	}
	return nil
}

// finishedEvent returns the event the task fires on completion.
func (t Task) finishedEvent() FinishedEvent {
	switch t {
	case TaskLoadHeightmap:
		return HeightmapLoaded
	case TaskLoadTextureControl:
		return TextureControlLoaded
	case TaskLoadTintMap:
		return TintMapLoaded
	case TaskGenerateClipmap:
		return ClipmapGenerated
	case TaskGenerateNormals:
		return NormalsGenerated
	case TaskGenerateTiles:
		return TilesGenerated
	case TaskGenerateErrorMaps:
		return ErrorMapsGenerated
	case TaskGenerateMeshes:
		return MeshesGenerated
	case TaskMergeSeams:
		return SeamsMerged
	case TaskLoadMaterialSet:
		return MaterialSetLoaded
	}
	return TerrainLoaded
}

// subsequentTasks lists tasks that must rerun whenever this task runs,
// because their inputs are invalidated by it.
func (t Task) subsequentTasks() []Task {
	switch t {
	case TaskLoadHeightmap:
		return []Task{TaskGenerateNormals, TaskGenerateTiles, TaskGenerateClipmap}
	case TaskLoadTextureControl:
		return []Task{TaskGenerateClipmap}
	case TaskLoadTintMap:
		return []Task{TaskGenerateClipmap}
	case TaskGenerateTiles:
		return []Task{TaskGenerateErrorMaps}
	case TaskGenerateErrorMaps:
		return []Task{TaskGenerateMeshes}
	case TaskGenerateMeshes:
		return []Task{TaskMergeSeams}
	}
	return nil
}

// Manager tracks dependencies between pipeline tasks. Submitted tasks
// wait in a pending set until all their precondition events fired, then
// get released through StartableTasks. Duplicate submissions collapse:
// the pending set is keyed by task.
type Manager struct {
	changed bool
	ready   map[FinishedEvent]struct{}
	pending map[Task]struct{}
}

// NewManager returns an empty task manager.
func NewManager() *Manager {
	return &Manager{
		ready:   make(map[FinishedEvent]struct{}),
		pending: make(map[Task]struct{}),
	}
}

// Submit queues a task and, transitively, every task it invalidates.
// Their previous completion events are withdrawn so dependents wait for
// the new run.
func (m *Manager) Submit(task Task) {
	delete(m.ready, task.finishedEvent())
	for _, subsequent := range task.subsequentTasks() {
		m.Submit(subsequent)
	}
	m.pending[task] = struct{}{}
	m.changed = true
}

// Finished records a completion event.
func (m *Manager) Finished(event FinishedEvent) {
	logger.Debug("pipeline task finished", zap.Uint8("event", uint8(event)))
	if _, ok := m.ready[event]; !ok {
		m.ready[event] = struct{}{}
		m.changed = true
	}
}

// StartableTasks removes and returns all pending tasks whose
// preconditions are met, in deterministic task order. It returns nil
// when nothing new can start.
func (m *Manager) StartableTasks() []Task {
	if !m.changed || len(m.pending) == 0 {
		return nil
	}
	m.changed = false

	var startable []Task
	for pending := range m.pending {
		if m.preconditionsMet(pending) {
			startable = append(startable, pending)
		}
	}
	for _, task := range startable {
		delete(m.pending, task)
	}

	slices.Sort(startable)
	return startable
}

func (m *Manager) preconditionsMet(task Task) bool {
	for _, c := range task.preconditions() {
		if _, ok := m.ready[c]; !ok {
			return false
		}
	}
	return true
}
