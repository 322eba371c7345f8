package mode

// Mode controls how query tokens combine.
type Mode string

// Match mode constants.
const (
	// All requires every token to match (AND).
	All Mode = "all"
	// Any requires at least one token to match (OR).
	Any Mode = "any"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == All || m == Any
}

// OrDefault returns All for an empty mode.
func (m Mode) OrDefault() Mode {
	if m == "" {
		return All
	}
	return m
}
