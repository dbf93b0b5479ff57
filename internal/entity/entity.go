// Package entity defines the persistent domain model: production orders,
// machine operations, timed work tasks, work centers and operators.
package entity

// ProcessType classifies what kind of work a task records.
type ProcessType string

const (
	ProcessPreparation    ProcessType = "PREPARATION"
	ProcessQualityControl ProcessType = "QUALITY_CONTROL"
	ProcessProcessing     ProcessType = "PROCESSING"
)

// Valid reports whether t is one of the known process types.
func (t ProcessType) Valid() bool {
	switch t {
	case ProcessPreparation, ProcessQualityControl, ProcessProcessing:
		return true
	}
	return false
}

// MachineType classifies a work center.
type MachineType string

const (
	MachineCNC          MachineType = "CNC"
	MachineConventional MachineType = "CONVENTIONAL"
)

// Valid reports whether t is one of the known machine types.
func (t MachineType) Valid() bool {
	return t == MachineCNC || t == MachineConventional
}

// NotesMaxLen bounds the free-text notes on a task.
const NotesMaxLen = 2000
