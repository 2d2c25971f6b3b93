package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/themikhailova/niti/api"
	"github.com/themikhailova/niti/domain"
	"github.com/themikhailova/niti/util"
)

// Gateway is the slice of the api client the CLI needs. Kept as an
// interface so command handlers are testable without a server.
type Gateway interface {
	Me(ctx context.Context) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*domain.User, error)
	Logout(ctx context.Context) error
	Feed(ctx context.Context, mode domain.FeedMode, page int) (*api.FeedResponse, error)
	CreatePost(ctx context.Context, content string) (*domain.Post, error)
	Search(ctx context.Context, query string, page int) (*api.SearchResponse, error)
	Profile(ctx context.Context, username string, page int) (*api.ProfileResponse, error)
}

// Handler processes CLI commands
type Handler struct {
	stdin    io.Reader
	stdout   io.Writer
	gateway  Gateway
	output   *Output
	jsonMode bool
	conf     *util.AppConfig
}

// NewHandler creates a new CLI handler
func NewHandler(stdin io.Reader, stdout io.Writer, gateway Gateway, conf *util.AppConfig) *Handler {
	return &Handler{
		stdin:   stdin,
		stdout:  stdout,
		gateway: gateway,
		conf:    conf,
	}
}

// Execute parses and executes a CLI command
func (h *Handler) Execute(args []string) error {
	args, h.jsonMode = parseGlobalFlags(args)
	h.output = NewOutput(h.stdout, h.jsonMode)

	if len(args) == 0 {
		return h.showHelp()
	}

	cmd := strings.ToLower(args[0])
	cmdArgs := args[1:]

	switch cmd {
	case "post":
		return h.handlePost(cmdArgs)
	case "feed":
		return h.handleFeed(cmdArgs)
	case "search":
		return h.handleSearch(cmdArgs)
	case "profile":
		return h.handleProfile(cmdArgs)
	case "whoami":
		return h.handleWhoami(cmdArgs)
	case "login":
		return h.handleLogin(cmdArgs)
	case "logout":
		return h.handleLogout(cmdArgs)
	case "--help", "-h", "help":
		return h.showHelp()
	default:
		err := fmt.Errorf("unknown command: %s", cmd)
		h.output.Error(err)
		return err
	}
}

// parseGlobalFlags extracts global flags like --json from args
func parseGlobalFlags(args []string) ([]string, bool) {
	jsonMode := false
	var filtered []string

	for _, arg := range args {
		switch arg {
		case "--json", "-j":
			jsonMode = true
		default:
			filtered = append(filtered, arg)
		}
	}

	return filtered, jsonMode
}

// showHelp displays help information
func (h *Handler) showHelp() error {
	if h.output.IsJSON() {
		help := HelpResponse{
			Version: util.GetVersion(),
			Commands: []HelpCommand{
				{
					Name:        "post",
					Description: "Publish a new post",
					Usage:       "post <message> or post -",
					Flags:       []string{"-: read message from stdin"},
				},
				{
					Name:        "feed",
					Description: "Show the personalized feed",
					Usage:       "feed [-n <count>] [-m <mode>]",
					Flags: []string{
						"-n <count>: limit number of posts (default 20)",
						"-m <mode>: balanced, interests, content or serendipity",
					},
				},
				{
					Name:        "search",
					Description: "Find users by name",
					Usage:       "search [query]",
				},
				{
					Name:        "profile",
					Description: "Show a user's profile and recent posts",
					Usage:       "profile <username>",
				},
				{
					Name:        "whoami",
					Description: "Show the signed-in user",
					Usage:       "whoami",
				},
				{
					Name:        "login",
					Description: "Sign in (password read from stdin)",
					Usage:       "login <username>",
				},
				{
					Name:        "logout",
					Description: "End the session",
					Usage:       "logout",
				},
				{
					Name:        "help",
					Description: "Show this help message",
					Usage:       "help",
				},
			},
			GlobalFlags: []string{
				"--json, -j: output in JSON format",
			},
		}
		h.output.JSON(help)
	} else {
		h.output.Println(util.Name + " CLI - terminal client for the " + util.Name + " social service")
		h.output.Println("")
		h.output.Println("Usage: " + util.Name + " <command> [options]")
		h.output.Println("")
		h.output.Println("Commands:")
		h.output.Println("  post <message>     Publish a new post")
		h.output.Println("  post -             Read message from stdin")
		h.output.Println("  feed               Show the personalized feed")
		h.output.Println("  feed -n <N>        Limit to N posts")
		h.output.Println("  feed -m <mode>     balanced, interests, content or serendipity")
		h.output.Println("  search [query]     Find users (empty query lists popular users)")
		h.output.Println("  profile <user>     Show a user's profile and recent posts")
		h.output.Println("  whoami             Show the signed-in user")
		h.output.Println("  login <username>   Sign in, password read from stdin")
		h.output.Println("  logout             End the session")
		h.output.Println("  help               Show this help message")
		h.output.Println("")
		h.output.Println("Global flags:")
		h.output.Println("  --json, -j         Output in JSON format")
		h.output.Println("")
		h.output.Println("Examples:")
		h.output.Println("  " + util.Name + " post \"Hello world\"")
		h.output.Println("  " + util.Name + " feed -n 5 -m interests -j")
		h.output.Println("  echo \"Hello\" | " + util.Name + " post -")
	}
	return nil
}
