package models

// OutcomeStatus classifies what an executed effect did.
type OutcomeStatus string

const (
	OutcomeApplied OutcomeStatus = "applied"
	OutcomeSkipped OutcomeStatus = "skipped"
	OutcomeWarned  OutcomeStatus = "warned"
	OutcomePlanned OutcomeStatus = "planned"
)

// Outcome records one effect's result.
type Outcome struct {
	Kind   string
	Target string
	Status OutcomeStatus
	Detail string
}

// OutcomeCounts tallies outcomes by status.
type OutcomeCounts struct {
	Applied int
	Skipped int
	Warned  int
	Planned int
}

// CountOutcomes tallies outcomes by status.
func CountOutcomes(outcomes []Outcome) OutcomeCounts {
	var c OutcomeCounts
	for _, o := range outcomes {
		switch o.Status {
		case OutcomeApplied:
			c.Applied++
		case OutcomeSkipped:
			c.Skipped++
		case OutcomeWarned:
			c.Warned++
		case OutcomePlanned:
			c.Planned++
		}
	}
	return c
}
