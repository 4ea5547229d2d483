package pipeline

// RunStats tracks aggregate counters across a batch run.
type RunStats struct {
	Total     int
	Succeeded int
	Failed    int
}

// AllSucceeded reports whether every request in the batch produced its
// opacity file. This drives the process exit code.
func (s *RunStats) AllSucceeded() bool {
	return s.Total > 0 && s.Succeeded == s.Total
}
