package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Users(ctx context.Context, page int) error
	Details(ctx context.Context, n int) error
	Status(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the sessionguard CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF, when ctx is done, or when the user types
// "exit" or "quit".
//
// Commands
//
//	help            show available commands
//	register        create an account
//	login           authenticate
//	logout          drop the stored credential
//	users [page]    list users (protected)
//	details <n>     expand or collapse row n of the last list
//	status          show connectivity and session state
//	exit | quit     leave the program
//
// Errors returned by command handlers are ignored here; handlers report
// them to the user themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("sg %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: users [page], details <n>, status, logout, exit")
			} else {
				printlnFn("Available commands: register, login, users [page], status, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "users", "u":
			page := 1
			if len(args) > 0 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					printlnFn("Usage: users [page]")
					continue
				}
				page = n
			}
			_ = a.Users(ctx, page)

		case "details", "d":
			if len(args) == 0 {
				printlnFn("Usage: details <n>")
				continue
			}
			n, err := strconv.Atoi(args[0])
			if err != nil {
				printlnFn("Usage: details <n>")
				continue
			}
			_ = a.Details(ctx, n)

		case "status":
			_ = a.Status(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
