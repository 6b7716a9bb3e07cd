package builtin

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mwantia/sizefs/cmd"
	"github.com/mwantia/sizefs/size"
)

// SizeCommand parses size tokens without touching the filesystem.
type SizeCommand struct{}

func (s *SizeCommand) Name() string {
	return "size"
}

func (s *SizeCommand) Description() string {
	return "Parse size tokens and print their length in bytes"
}

func (s *SizeCommand) Usage() string {
	return "size [--units jedec|default] <token>..."
}

func (s *SizeCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	if len(args.Args) == 0 {
		return 2, fmt.Errorf("size: missing size token")
	}

	var units *size.Units
	switch strings.ToLower(args.String("units")) {
	case "jedec", "":
		units = size.JEDECUnits
	case "default", "si":
		units = size.DefaultUnits
	default:
		return 2, fmt.Errorf("size: unknown unit table '%s'", args.String("units"))
	}

	code := 0
	for _, token := range args.Args {
		spec, err := units.Parse(token)
		if err != nil {
			fmt.Fprintf(writer, "%s\terror: %v\n", token, err)
			code = 1
			continue
		}
		fmt.Fprintf(writer, "%s\t%d\t%s\n", token, spec.Length(), spec)
	}

	return code, nil
}

func (s *SizeCommand) GetFlags() *cmd.CommandFlagSet {
	return &cmd.CommandFlagSet{
		Flags: map[string]*cmd.CommandFlag{
			"units": {Name: "units", Short: "u", Type: "string", Default: "jedec", Description: "Unit table: jedec (KB=1024) or default (KB=1000)"},
		},
	}
}
