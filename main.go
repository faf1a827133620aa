// ABOUTME: Entry point for the leadcoach MCP server and CLI
// ABOUTME: Loads config, builds the engine and routes to MCP, TUI or CLI commands
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/harperreed/leadcoach/cli"
	"github.com/harperreed/leadcoach/config"
	"github.com/harperreed/leadcoach/db"
	"github.com/harperreed/leadcoach/engine"
	"github.com/harperreed/leadcoach/logging"
)

const version = "0.1.0"

func main() {
	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	dbPath := flag.String("db-path", "", "Database path (default: ~/.local/share/leadcoach/leads.db)")
	configPath := flag.String("config", "", "Config file (default: ~/.config/leadcoach/config.yaml)")
	initOnly := flag.Bool("init", false, "Initialize database and exit")

	// Parse global flags but don't fail on unknown (for subcommands)
	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("leadcoach version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 && !*initOnly {
		printUsage()
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	eng, err := cli.BuildEngine(cfg)
	if err != nil {
		logger.Fatal("failed to build engine", zap.Error(err))
	}

	database, err := db.OpenDatabase(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to open database", zap.String("path", cfg.DBPath), zap.Error(err))
	}
	defer database.Close()
	logger.Debug("database opened", zap.String("path", cfg.DBPath))

	if *initOnly {
		fmt.Printf("Database initialized: %s\n", cfg.DBPath)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, database, eng, logger, args); err != nil {
		logger.Error("command failed", zap.String("command", args[0]), zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, database *sql.DB, eng *engine.Engine, logger *zap.Logger, args []string) error {
	command := args[0]
	commandArgs := args[1:]

	sub := func(name string) (string, []string, error) {
		if len(commandArgs) == 0 {
			return "", nil, fmt.Errorf("%s requires a subcommand (see leadcoach --help)", name)
		}
		return commandArgs[0], commandArgs[1:], nil
	}

	switch command {
	case "mcp":
		return cli.MCPCommand(ctx, database, eng, logger, version)

	case "tui":
		return cli.TUICommand(database, eng)

	case "lead":
		subcommand, rest, err := sub("lead")
		if err != nil {
			return err
		}
		switch subcommand {
		case "add":
			return cli.AddLeadCommand(database, eng, rest)
		case "list":
			return cli.ListLeadsCommand(database, rest)
		case "show":
			return cli.ShowLeadCommand(database, eng, rest)
		case "status":
			return cli.UpdateStatusCommand(database, rest)
		case "log":
			return cli.LogInteractionCommand(database, rest)
		case "score":
			return cli.ScoreLeadCommand(database, eng, rest)
		case "delete":
			return cli.DeleteLeadCommand(database, rest)
		}
		return fmt.Errorf("unknown lead command: %s", subcommand)

	case "suggest":
		return cli.SuggestCommand(ctx, database, eng, commandArgs)

	case "guide":
		return cli.GuideCommand(database, eng, commandArgs)

	case "quote":
		subcommand, rest, err := sub("quote")
		if err != nil {
			return err
		}
		switch subcommand {
		case "generate":
			return cli.QuoteGenerateCommand(database, eng, rest)
		case "edit":
			return cli.QuoteEditCommand(database, eng, rest)
		case "list":
			return cli.QuoteListCommand(database, rest)
		case "status":
			return cli.QuoteStatusCommand(database, eng, rest)
		}
		return fmt.Errorf("unknown quote command: %s", subcommand)

	case "viz":
		subcommand, rest, err := sub("viz")
		if err != nil {
			return err
		}
		switch subcommand {
		case "dashboard":
			return cli.VizDashboardCommand(ctx, database, eng, rest)
		case "pipeline":
			return cli.VizGraphPipelineCommand(ctx, database, rest)
		case "lead":
			return cli.VizGraphLeadCommand(ctx, database, rest)
		}
		return fmt.Errorf("unknown viz command: %s", subcommand)

	case "help":
		printUsage()
		return nil
	}

	return fmt.Errorf("unknown command: %s", command)
}

func printUsage() {
	fmt.Printf(`leadcoach v%s - lead engagement coach for small agencies

USAGE:
  leadcoach [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --db-path <path>       Database path (default: ~/.local/share/leadcoach/leads.db)
  --config <path>        Config file (default: ~/.config/leadcoach/config.yaml)
  --init                 Initialize database and exit

COMMANDS:
  mcp                    Start MCP server for Claude Desktop
  tui                    Interactive pipeline browser
  lead                   Lead management commands
  suggest                Next-best actions
  guide                  Closer guidance for a lead
  quote                  Quote commands
  viz                    Dashboard and graphs

LEAD COMMANDS:
  leadcoach lead add          Capture a new lead
    --name <name>               Lead name (required)
    --email, --phone, --company, --title
    --source <channel>          referral, linkedin, website, whatsapp, ...
    --budget <amount>           Estimated budget
    --needs <list>              Comma-separated needs (social media, website, seo)
    --psych <type>              analytical, emotional, assertive or indecisive
    --objections <list>         Comma-separated open objections

  leadcoach lead list         List leads
    --query <text>              Search by name, company or email
    --status <status>           Filter by status
    --limit <n>                 Max results (default: 50)

  leadcoach lead show <id>    Show a lead with history and next actions
  leadcoach lead status [flags] <id> <status>
    --meeting <time>            Meeting time when scheduling
    --link <url>                Video call link
  leadcoach lead log [flags] <id>
    --channel <channel>         whatsapp, email, call or meeting (default: whatsapp)
    --direction <dir>           inbound or outbound (default: outbound)
    --notes <text>              What was said
    --at <time>                 When it happened (default: now)
  leadcoach lead score <id>   Recompute the lead score
  leadcoach lead delete <id>  Delete a lead and its history

  IDs may be shortened to the 8-character prefix shown by 'lead list'.

COACHING:
  leadcoach suggest <id>      Next-best actions for one lead
  leadcoach suggest --all     Next-best actions across the open pipeline
  leadcoach guide <id>        Talking points, objections and close line

QUOTE COMMANDS:
  leadcoach quote generate <lead>           Price a quote with alternatives
  leadcoach quote edit <quote> <request>    e.g. "add seo", "give me a discount"
  leadcoach quote list <lead>               List a lead's quotes
  leadcoach quote status <quote> <status>   sent, viewed, accepted or rejected

VIZ COMMANDS:
  leadcoach viz dashboard               Pipeline dashboard
  leadcoach viz pipeline [--output f]   Pipeline state graph (DOT)
  leadcoach viz lead <id> [--output f]  Lead graph with quotes and channels (DOT)

EXAMPLES:
  leadcoach lead add --name "Ana Torres" --source referral --budget 15000 --needs "social media"
  leadcoach suggest --all
  leadcoach quote generate 1a2b3c4d
  leadcoach quote edit Q-01J... "add seo too"

`, version)
}
