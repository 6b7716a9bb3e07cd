package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/mwantia/sizefs/cmd"
)

type StatCommand struct{}

func (s *StatCommand) Name() string {
	return "stat"
}

func (s *StatCommand) Description() string {
	return "Show information about a virtual file or directory"
}

func (s *StatCommand) Usage() string {
	return "stat [--json] <path>..."
}

func (s *StatCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	if len(args.Args) == 0 {
		return 2, fmt.Errorf("stat: missing path")
	}

	for _, path := range args.Args {
		info, err := api.Stat(ctx, path)
		if err != nil {
			return 1, err
		}

		if args.Bool("json") {
			if err := json.NewEncoder(writer).Encode(info); err != nil {
				return 1, err
			}
			continue
		}

		fmt.Fprintf(writer, "  Path: %s\n", info.Path())
		fmt.Fprintf(writer, "  Size: %d\n", info.Length())
		fmt.Fprintf(writer, "  Mode: %s\n", info.FileMode())
		if !info.IsDir() {
			fmt.Fprintf(writer, "  Type: %s\n", info.ContentType())
		}

		attrs := info.Attributes()
		keys := make([]string, 0, len(attrs))
		for key := range attrs {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Fprintf(writer, "  %s: %s\n", key, attrs[key])
		}
	}

	return 0, nil
}

func (s *StatCommand) GetFlags() *cmd.CommandFlagSet {
	return &cmd.CommandFlagSet{
		Flags: map[string]*cmd.CommandFlag{
			"json": {Name: "json", Type: "bool", Description: "Print information as JSON"},
		},
	}
}
