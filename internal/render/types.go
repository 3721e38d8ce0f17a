package render

const (
	// Display values
	UnknownValue = "<unknown>"
	Blank        = ""
)
