package builtin

import "github.com/mwantia/sizefs/cmd"

// All returns a fresh instance of every builtin command.
func All() []cmd.Command {
	return []cmd.Command{
		&LsCommand{},
		&StatCommand{},
		&CatCommand{},
		&SizeCommand{},
	}
}
