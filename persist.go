package jobpipe

import (
	"encoding/json"
	"os"
)

// Snapshots copies every status ordered by task id
func (r *Registry) Snapshots() []Snapshot {
	statuses := r.GetAll()
	snapshots := make([]Snapshot, 0, len(statuses))
	for _, status := range statuses {
		snapshots = append(snapshots, status.Snapshot())
	}
	return snapshots
}

// Persist writes the status report now. It does nothing without a persist path.
func (r *Registry) Persist() error {
	if r.opts.PersistPath == "" {
		return nil
	}
	r.persistMu.Lock()
	defer r.persistMu.Unlock()
	marshal, err := json.MarshalIndent(r.Snapshots(), "", "  ")
	if err != nil {
		return WithStackTrace(err)
	}
	if err := os.WriteFile(r.opts.PersistPath, marshal, 0644); err != nil {
		return WithStackTrace(err)
	}
	return nil
}

func (r *Registry) persistAndLog() {
	if err := r.Persist(); err != nil {
		r.logger.Error("persist status report error", "path", r.opts.PersistPath, "error", err)
	}
}

// LoadReport reads a status report written by a Registry
func LoadReport(path string) ([]Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, WithStackTrace(err)
	}
	var snapshots []Snapshot
	if err := json.Unmarshal(data, &snapshots); err != nil {
		return nil, WithStackTrace(err)
	}
	return snapshots, nil
}
