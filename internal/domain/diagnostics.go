// internal/domain/diagnostics.go
package domain

// StageDiagnostics reports what one engine stage saw: how much input it
// consumed, what it dropped, and which expected columns were absent.
type StageDiagnostics struct {
	Stage          string   `json:"stage"`
	RowsProcessed  int      `json:"rows_processed"`
	RowsDropped    int      `json:"rows_dropped"`
	MissingColumns []string `json:"missing_columns,omitempty"`
	Notes          []string `json:"notes,omitempty"`
}

func (d *StageDiagnostics) AddNote(note string) {
	d.Notes = append(d.Notes, note)
}

func (d *StageDiagnostics) Degraded() bool {
	return len(d.MissingColumns) > 0
}

// RunDiagnostics collects per-stage diagnostics across one engine run.
type RunDiagnostics struct {
	Stages []StageDiagnostics `json:"stages,omitempty"`
}

func (r *RunDiagnostics) Add(d StageDiagnostics) {
	r.Stages = append(r.Stages, d)
}

// Stage returns the diagnostics recorded under a name, nil when absent.
func (r *RunDiagnostics) Stage(name string) *StageDiagnostics {
	for i := range r.Stages {
		if r.Stages[i].Stage == name {
			return &r.Stages[i]
		}
	}
	return nil
}

// Degraded reports whether any stage ran with missing columns.
func (r *RunDiagnostics) Degraded() bool {
	for i := range r.Stages {
		if r.Stages[i].Degraded() {
			return true
		}
	}
	return false
}
