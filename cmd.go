package sizefs

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/mwantia/sizefs/cmd"
	"github.com/mwantia/sizefs/cmd/builtin"
	"github.com/mwantia/sizefs/data"
)

var _ cmd.API = (*fileSystemImpl)(nil)

func (fs *fileSystemImpl) initBuiltinCommands() error {
	for _, c := range builtin.All() {
		if err := fs.RegisterCommand(c); err != nil {
			return fmt.Errorf("failed to register builtin command '%s': %w", c.Name(), err)
		}
	}
	return nil
}

// RegisterCommand registers a custom command.
func (fs *fileSystemImpl) RegisterCommand(c cmd.Command) error {
	if c == nil {
		return fmt.Errorf("command cannot be nil")
	}

	name := c.Name()
	if name == "" {
		return fmt.Errorf("command name cannot be empty")
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, exists := fs.cmds[name]; exists {
		return fmt.Errorf("failed to register command '%s': %w", name, data.ErrCommandExists)
	}

	fs.cmds[name] = c
	return nil
}

// UnregisterCommand removes a registered command.
func (fs *fileSystemImpl) UnregisterCommand(name string) (bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, exists := fs.cmds[name]; !exists {
		return false, nil
	}

	delete(fs.cmds, name)
	return true, nil
}

// Commands returns all registered commands ordered by name.
func (fs *fileSystemImpl) Commands() []cmd.Command {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	commands := make([]cmd.Command, 0, len(fs.cmds))
	for _, c := range fs.cmds {
		commands = append(commands, c)
	}

	sort.Slice(commands, func(i, j int) bool {
		return commands[i].Name() < commands[j].Name()
	})
	return commands
}

// Execute parses and runs a command.
func (fs *fileSystemImpl) Execute(ctx context.Context, writer io.Writer, args ...string) (int, error) {
	if len(args) == 0 {
		return 1, fmt.Errorf("no command specified")
	}
	if writer == nil {
		writer = io.Discard
	}

	fs.mu.RLock()
	c, exists := fs.cmds[args[0]]
	fs.mu.RUnlock()

	if !exists {
		return 127, fmt.Errorf("failed to execute '%s': %w", args[0], data.ErrUnknownCommand)
	}

	parsed, err := cmd.NewParser(c.GetFlags()).Parse(args[1:])
	if err != nil {
		return 2, fmt.Errorf("parse error: %w", err)
	}

	fs.log.Debug("Executing '%s' with %d arguments", args[0], len(args)-1)
	return c.Execute(ctx, fs, parsed, writer)
}
