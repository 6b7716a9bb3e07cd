package cmd

import (
	"fmt"
	"strconv"
	"strings"
)

// Parser parses user-defined arguments into flags
type Parser struct {
	flagSet *CommandFlagSet
}

func NewParser(flagSet *CommandFlagSet) *Parser {
	if flagSet == nil {
		flagSet = &CommandFlagSet{Flags: make(map[string]*CommandFlag)}
	}
	return &Parser{
		flagSet: flagSet,
	}
}

func (cp *Parser) Parse(raw []string) (*CommandArgs, error) {
	args := &CommandArgs{
		Flags: make(map[string]any),
		Raw:   raw,
	}

	for flagName, flag := range cp.flagSet.Flags {
		if flag.Default != nil {
			args.Flags[flagName] = flag.Default
		}
	}

	longToName := make(map[string]string)
	shortToName := make(map[string]string)
	for flagName, flag := range cp.flagSet.Flags {
		longToName[flag.Name] = flagName
		if flag.Short != "" {
			shortToName[flag.Short] = flagName
		}
	}

	for i := 0; i < len(raw); i++ {
		arg := raw[i]

		if arg == "--" {
			args.Args = append(args.Args, raw[i+1:]...)
			break
		}

		if strings.HasPrefix(arg, "--") {
			key, value, hasValue := parseLongFlag(arg)
			flagName, exists := longToName[key]
			if !exists {
				return nil, fmt.Errorf("unknown flag: --%s", key)
			}

			flag := cp.flagSet.Flags[flagName]
			switch {
			case flag.Type == "bool":
				args.Flags[flagName] = true
			case hasValue:
				if err := args.set(flag, flagName, value); err != nil {
					return nil, err
				}
			case i+1 < len(raw) && !isFlag(raw[i+1]):
				if err := args.set(flag, flagName, raw[i+1]); err != nil {
					return nil, err
				}
				i++
			default:
				return nil, fmt.Errorf("flag --%s requires a value", key)
			}
			continue
		}

		if isFlag(arg) {
			shortFlags := arg[1:]

			for j, shortChar := range shortFlags {
				shortStr := string(shortChar)
				flagName, exists := shortToName[shortStr]
				if !exists {
					return nil, fmt.Errorf("unknown flag: -%s", shortStr)
				}

				flag := cp.flagSet.Flags[flagName]

				if flag.Type == "bool" {
					args.Flags[flagName] = true
					continue
				}

				value := shortFlags[j+1:]
				if value == "" {
					if i+1 >= len(raw) || isFlag(raw[i+1]) {
						return nil, fmt.Errorf("flag -%s requires a value", shortStr)
					}
					value = raw[i+1]
					i++
				}
				if err := args.set(flag, flagName, value); err != nil {
					return nil, err
				}
				break
			}
			continue
		}

		args.Args = append(args.Args, arg)
	}

	for flagName, flag := range cp.flagSet.Flags {
		if flag.Required {
			if _, ok := args.Flags[flagName]; !ok {
				if flag.Short != "" {
					return nil, fmt.Errorf("required flag: -%s / --%s", flag.Short, flag.Name)
				} else {
					return nil, fmt.Errorf("required flag: --%s", flag.Name)
				}
			}
		}
	}

	return args, nil
}

func parseLongFlag(arg string) (key, value string, hasValue bool) {
	arg = strings.TrimPrefix(arg, "--")
	if idx := strings.Index(arg, "="); idx >= 0 {
		return arg[:idx], arg[idx+1:], true
	}
	return arg, "", false
}

// isFlag treats "-" and negative numbers as values.
func isFlag(arg string) bool {
	if len(arg) < 2 || arg[0] != '-' {
		return false
	}
	return arg[1] < '0' || arg[1] > '9'
}

func (a *CommandArgs) set(flag *CommandFlag, name, value string) error {
	v, err := coerce(value, flag.Type)
	if err != nil {
		return fmt.Errorf("invalid value '%s' for flag --%s: %w", value, flag.Name, err)
	}
	a.Flags[name] = v
	return nil
}

func coerce(value string, typeStr string) (any, error) {
	switch typeStr {
	case "int":
		return strconv.ParseInt(value, 10, 64)
	case "bool":
		return strconv.ParseBool(value)
	default:
		return value, nil
	}
}
