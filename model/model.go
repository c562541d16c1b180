package model

// Summary holds the results of an operation for display.
type Summary struct {
	// Path is the test file the operation worked on.
	Path string
	// Activated is the group moved out of the disabled region.
	Activated string
	// Disabled lists the groups left in the disabled region.
	Disabled []string
	Modified []string
	Failed   []string
	// Output is printed to stdout verbatim, before Messages.
	Output string
	// Messages are diagnostic lines meant for stdout, in order.
	Messages []string
}

// Add appends a stdout line to the summary.
func (s *Summary) Add(line string) {
	s.Messages = append(s.Messages, line)
}
