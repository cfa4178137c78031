package pipeline

// MultiTask aggregates progress of a set of tracked stages into one
// fraction and status line.
type MultiTask struct {
	lastMsg  string
	progress float32
	// keyed by stage: updates for the same stage replace each other no
	// matter how their counters differ
	tasks map[Stage]Progress
}

// Update folds a new report into the aggregate. Reports for stages that
// are not tracked are ignored.
func (m *MultiTask) Update(update Progress) {
	if _, tracked := m.tasks[update.Stage]; !tracked {
		return
	}
	m.tasks[update.Stage] = update

	if update.IsFinished() {
		m.lastMsg = update.FinishedMessage()
	} else {
		m.lastMsg = update.Message()
	}
	m.refresh()
}

func (m *MultiTask) refresh() {
	var sum float32
	for _, t := range m.tasks {
		sum += t.Fraction()
	}
	m.progress = sum / float32(len(m.tasks))
}

// Fraction returns the mean completion of all tracked stages.
func (m *MultiTask) Fraction() float32 {
	return m.progress
}

// IsFinished reports whether every tracked stage completed.
func (m *MultiTask) IsFinished() bool {
	for _, t := range m.tasks {
		if !t.IsFinished() {
			return false
		}
	}
	return true
}

// LastMessage returns the most recent status line.
func (m *MultiTask) LastMessage() string {
	return m.lastMsg
}

// Tracking drives progress feedback for at most one compound operation
// at a time.
type Tracking struct {
	task *MultiTask
}

// Task returns the currently tracked operation, or nil.
func (t *Tracking) Task() *MultiTask {
	return t.task
}

// Start begins tracking a compound operation made of the given stages.
func (t *Tracking) Start(name string, stages []Progress) {
	task := &MultiTask{
		lastMsg: name,
		tasks:   make(map[Stage]Progress, len(stages)),
	}
	for _, s := range stages {
		task.tasks[s.Stage] = s
	}
	task.refresh()
	t.task = task
}

// Update folds a progress report into the current operation. Tracking
// stops automatically once all stages report finished.
func (t *Tracking) Update(update Progress) {
	if t.task == nil {
		return
	}
	t.task.Update(update)
	if t.task.IsFinished() {
		t.task = nil
	}
}

// Cancel drops the current operation.
func (t *Tracking) Cancel() {
	t.task = nil
}
