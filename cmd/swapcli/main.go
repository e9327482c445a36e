package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/iov-one/swap"
)

// commands is a register of all available commands. The name is matched
// with the first argument given.
//
// A command function is given stdin, stdout and the command line arguments
// without the program name and the command name. It parses the arguments
// itself. Diagnostic messages are logged to os.Stderr.
//
// A swap is run as a sequence of commands sharing one configuration file:
//
//   $ swapcli init
//   $ swapcli setup
//   $ swapcli init-escrow
//   $ swapcli exchange
//   $ swapcli show
//
var commands = map[string]func(input io.Reader, output io.Writer, args []string) error{
	"exchange":    cmdExchange,
	"init":        cmdInit,
	"init-escrow": cmdInitEscrow,
	"setup":       cmdSetup,
	"show":        cmdShow,
	"verify":      cmdVerify,
	"version":     cmdVersion,
}

func main() {
	if len(os.Args) == 1 {
		fmt.Fprintf(os.Stderr, "%s runs a two party token swap through the escrow program.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s <command> [<flags>]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		fmt.Fprintf(os.Stderr, "Run '%s <command> -help' to learn more about each command.\n", os.Args[0])
		os.Exit(2)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		os.Exit(2)
	}

	if err := run(os.Stdin, os.Stdout, os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func availableCmds() []string {
	available := make([]string, 0, len(commands))
	for name := range commands {
		available = append(available, name)
	}
	sort.Strings(available)
	return available
}

func cmdVersion(in io.Reader, out io.Writer, args []string) error {
	fmt.Fprintln(out, swap.Version())
	return nil
}
