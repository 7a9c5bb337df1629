package cli

import (
	"bufio"
	"context"
	"strings"
)

// commander is the command surface the REPL dispatches to. App implements it;
// tests provide a stub.
type commander interface {
	isReady() bool
	Login(ctx context.Context) error
	More(ctx context.Context) error
	List(ctx context.Context) error
	Like(ctx context.Context, photoID string, liked bool) error
	Profile(ctx context.Context) error
	Status(ctx context.Context) error
	Retry(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL reads commands from reader until end of input, exit or quit.
//
//	Signed out:
//	  - help           show available commands
//	  - login          authorize this client
//	  - retry          leave the failed state
//	  - status         show the session state
//	  - exit | quit    leave the program
//
//	Signed in:
//	  - help           show available commands
//	  - more | m       load the next page of the feed
//	  - list | l       list loaded photos
//	  - like <id>      like a photo
//	  - unlike <id>    remove a like
//	  - profile        show the signed-in user
//	  - status         show the session state
//	  - logout         sign out and forget the token
//	  - exit | quit    leave the program
//
// Errors returned by handlers are ignored here; handlers print their own.
func runREPL(ctx context.Context, a commander, statusFn func() string, reader *bufio.Reader, println func(...any)) {
	for {
		println("if> " + statusFn() + " > ")
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isReady() {
				println("Available commands: (m)ore, (l)ist, like <id>, unlike <id>, profile, status, logout, exit")
			} else {
				println("Available commands: login, retry, status, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "m", "more":
			_ = a.More(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "like", "unlike":
			if len(args) != 1 {
				println("Usage:", cmd, "<photo id>")
				continue
			}
			_ = a.Like(ctx, args[0], cmd == "like")

		case "profile":
			_ = a.Profile(ctx)

		case "status":
			_ = a.Status(ctx)

		case "retry":
			_ = a.Retry(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			println("Bye!")
			return

		default:
			println("Unknown command:", cmd)
		}
	}
}
