package main

import (
	"fmt"
	"io"
	"slices"
	"strings"
)

// Command is one devtool subcommand
type Command interface {
	Name() string
	Description() string
	Run(args []string) error
}

// Help groups, printed in this order
const (
	groupDatabase = "Database"
	groupContent  = "Rules and assets"
	groupServer   = "Running server"
)

var groupOrder = []string{groupDatabase, groupContent, groupServer}

type entry struct {
	group string
	cmd   Command
}

// Registry maps subcommand names to commands
type Registry struct {
	commands map[string]entry
}

func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]entry)}
}

func (r *Registry) Register(group string, cmd Command) {
	r.commands[cmd.Name()] = entry{group: group, cmd: cmd}
}

func (r *Registry) Get(name string) (Command, bool) {
	e, ok := r.commands[name]
	return e.cmd, ok
}

// List returns the commands of group sorted by name, or all of them when group is empty
func (r *Registry) List(group string) []Command {
	var cmds []Command
	for _, e := range r.commands {
		if group == "" || e.group == group {
			cmds = append(cmds, e.cmd)
		}
	}
	slices.SortFunc(cmds, func(a, b Command) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return cmds
}

// PrintHelp writes usage grouped by purpose, followed by the environment the commands read
func (r *Registry) PrintHelp(w io.Writer) {
	fmt.Fprintln(w, "Usage: devtool <command> [args...]")

	width := 0
	for name := range r.commands {
		width = max(width, len(name))
	}

	for _, group := range groupOrder {
		cmds := r.List(group)
		if len(cmds) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s:\n", group)
		for _, cmd := range cmds {
			fmt.Fprintf(w, "  %-*s  %s\n", width, cmd.Name(), cmd.Description())
		}
	}

	fmt.Fprintln(w, "\nEnvironment:")
	fmt.Fprintln(w, "  DB_URL or DB_HOST/DB_PORT/DB_USER/DB_PASSWORD/DB_NAME   database commands")
	fmt.Fprintln(w, "  API_URL, API_KEY                                        running server commands")
}
