package builtin

import (
	"context"
	"fmt"
	"io"

	"github.com/mwantia/sizefs/cmd"
)

type CatCommand struct{}

func (c *CatCommand) Name() string {
	return "cat"
}

func (c *CatCommand) Description() string {
	return "Write the content of a virtual file"
}

func (c *CatCommand) Usage() string {
	return "cat [-o offset] [-n length] <path>"
}

// Execute streams the file through its handle, so even very large files are
// never held in memory.
func (c *CatCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	if len(args.Args) != 1 {
		return 2, fmt.Errorf("cat: expected exactly one path")
	}

	offset := args.Int("offset")
	if offset < 0 {
		return 2, fmt.Errorf("cat: offset cannot be negative")
	}

	stream, err := api.Open(ctx, args.Args[0])
	if err != nil {
		return 1, err
	}
	defer stream.Close()

	if _, err := stream.Seek(offset, io.SeekStart); err != nil {
		return 1, err
	}

	if args.Has("length") {
		length := args.Int("length")
		if length < 0 {
			return 2, fmt.Errorf("cat: length cannot be negative")
		}
		if _, err := io.Copy(writer, io.LimitReader(stream, length)); err != nil {
			return 1, err
		}
		return 0, nil
	}

	if _, err := stream.WriteTo(writer); err != nil {
		return 1, err
	}

	return 0, nil
}

func (c *CatCommand) GetFlags() *cmd.CommandFlagSet {
	return &cmd.CommandFlagSet{
		Flags: map[string]*cmd.CommandFlag{
			"offset": {Name: "offset", Short: "o", Type: "int", Default: int64(0), Description: "Start reading at this offset"},
			"length": {Name: "length", Short: "n", Type: "int", Description: "Read at most this many bytes"},
		},
	}
}
