package cmd

// CommandArgs contains parsed command arguments
type CommandArgs struct {
	// Positional arguments (command-specific)
	Args []string

	// Parsed flags
	Flags map[string]any

	// Raw unparsed arguments (for custom parsing)
	Raw []string
}

// CommandFlagSet defines the expected flags for a command
type CommandFlagSet struct {
	Flags map[string]*CommandFlag
}

// CommandFlag represents a single command-line flag
type CommandFlag struct {
	Name        string `json:"name"`              // e.g., "offset"
	Short       string `json:"short"`             // Single-char shorthand (e.g., "o")
	Type        string `json:"type"`              // "string", "bool", "int"
	Default     any    `json:"default,omitempty"` // Default value
	Required    bool   `json:"required"`          // Must be provided
	Description string `json:"description"`       // Help text
}

func (a *CommandArgs) String(name string) string {
	v, _ := a.Flags[name].(string)
	return v
}

func (a *CommandArgs) Int(name string) int64 {
	switch v := a.Flags[name].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	default:
		return 0
	}
}

func (a *CommandArgs) Bool(name string) bool {
	v, _ := a.Flags[name].(bool)
	return v
}

// Has reports whether the flag was given or has a default.
func (a *CommandArgs) Has(name string) bool {
	_, ok := a.Flags[name]
	return ok
}
