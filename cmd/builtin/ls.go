package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/mwantia/sizefs/cmd"
)

type LsCommand struct{}

func (ls *LsCommand) Name() string {
	return "ls"
}

func (ls *LsCommand) Description() string {
	return "List the entries of a virtual directory"
}

func (ls *LsCommand) Usage() string {
	return "ls [-l] [--json] [path]"
}

func (ls *LsCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	path := "/"
	if len(args.Args) > 0 {
		path = args.Args[0]
	}

	entries, err := api.ReadDirectory(ctx, path)
	if err != nil {
		return 1, err
	}

	if args.Bool("json") {
		if err := json.NewEncoder(writer).Encode(entries); err != nil {
			return 1, err
		}
		return 0, nil
	}

	if !args.Bool("long") {
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() {
				name += "/"
			}
			fmt.Fprintln(writer, name)
		}
		return 0, nil
	}

	tw := tabwriter.NewWriter(writer, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, entry := range entries {
		fmt.Fprintf(tw, "%s\t%d\t%s\t %s\n", entry.FileMode(), entry.Length(), entry.Pattern(), entry.Name())
	}
	if err := tw.Flush(); err != nil {
		return 1, err
	}

	return 0, nil
}

func (ls *LsCommand) GetFlags() *cmd.CommandFlagSet {
	return &cmd.CommandFlagSet{
		Flags: map[string]*cmd.CommandFlag{
			"long": {Name: "long", Short: "l", Type: "bool", Description: "Show mode, size and pattern"},
			"json": {Name: "json", Type: "bool", Description: "Print entries as JSON"},
		},
	}
}
