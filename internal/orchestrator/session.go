package orchestrator

// Session holds the latest result of each job kind. Completing one kind
// clears the other.
type Session struct {
	Text     *JobResult
	Document *JobResult
}

func (s *Session) setText(job *JobResult) {
	s.Text = job
	s.Document = nil
}

func (s *Session) setDocument(job *JobResult) {
	s.Document = job
	s.Text = nil
}
