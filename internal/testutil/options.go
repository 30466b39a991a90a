package testutil

// candidateData holds all data for a candidate row to be inserted.
type candidateData struct {
	trigger string
	id      string
	name    string
	detail  string
}

// defaultCandidate returns a candidateData with sensible defaults.
func defaultCandidate(trigger rune, id string) candidateData {
	return candidateData{
		trigger: string(trigger),
		id:      id,
		name:    id, // Default name is the ID
	}
}

// CandidateOption configures a candidate during builder setup.
type CandidateOption func(*candidateData)

// Name sets the candidate's display name.
func Name(name string) CandidateOption {
	return func(c *candidateData) { c.name = name }
}

// Detail sets the candidate's secondary text.
func Detail(detail string) CandidateOption {
	return func(c *candidateData) { c.detail = detail }
}
