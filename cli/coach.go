// ABOUTME: Coaching CLI commands
// ABOUTME: Prints next-best actions for one lead or the whole pipeline, and closer guidance
package cli

import (
	"context"
	"database/sql"
	"flag"
	"fmt"

	"github.com/harperreed/leadcoach/db"
	"github.com/harperreed/leadcoach/engine"
	"github.com/harperreed/leadcoach/models"
)

func printSuggestions(suggestions []models.Suggestion) {
	printf("\n%s\n", paint(headingStyle, "NEXT ACTIONS"))
	if len(suggestions) == 0 {
		printf("  %s\n", paint(dimStyle, "nothing to do right now"))
		return
	}
	for _, s := range suggestions {
		label := fmt.Sprintf("[%s]", s.Priority)
		if style, ok := priorityStyles[s.Priority]; ok {
			label = paint(style, label)
		}
		printf("  %s %s", label, s.Title)
		if s.DueLabel != "" {
			printf(" (%s)", s.DueLabel)
		}
		printf("\n      %s\n", s.Description)
		if s.Message != "" {
			printf("      > %s\n", s.Message)
		}
	}
}

// SuggestCommand prints suggestions for one lead, or with --all for every open lead.
func SuggestCommand(ctx context.Context, database *sql.DB, eng *engine.Engine, args []string) error {
	fs := flag.NewFlagSet("suggest", flag.ExitOnError)
	all := fs.Bool("all", false, "Cover every open lead")
	limit := fs.Int("limit", 100, "Maximum leads with --all")
	workers := fs.Int("workers", engine.DefaultBatchLimit, "Concurrent evaluations with --all")
	_ = fs.Parse(args)

	if !*all {
		lead, err := resolveLead(database, fs.Arg(0))
		if err != nil {
			return err
		}
		printf("%s (%s, score %d)\n", paint(headingStyle, lead.Name), lead.Status, lead.LeadScore)
		printSuggestions(eng.Suggest(lead))
		return nil
	}

	leads, err := db.FindOpenLeads(database, *limit)
	if err != nil {
		return fmt.Errorf("failed to find open leads: %w", err)
	}
	open := make([]*models.Lead, len(leads))
	for i := range leads {
		open[i] = &leads[i]
	}

	results, err := eng.SuggestBatch(ctx, open, *workers)
	if err != nil {
		return err
	}
	shown := 0
	for i, lead := range open {
		if len(results[i]) == 0 {
			continue
		}
		if shown > 0 {
			printf("\n")
		}
		printf("%s (%s, score %d)\n", paint(headingStyle, lead.Name), lead.Status, lead.LeadScore)
		printSuggestions(results[i])
		shown++
	}
	if shown == 0 {
		printf("No open leads need attention\n")
	}
	return nil
}

// GuideCommand prints closer guidance and the auto-close verdict for a lead.
func GuideCommand(database *sql.DB, eng *engine.Engine, args []string) error {
	fs := flag.NewFlagSet("guide", flag.ExitOnError)
	_ = fs.Parse(args)

	lead, err := resolveLead(database, fs.Arg(0))
	if err != nil {
		return err
	}
	g := eng.Guidance(lead)
	verdict := eng.CanAIClose(lead)

	printf("%s - %s\n", paint(headingStyle, lead.Name), g.Phase)

	printf("\nDO\n")
	for _, a := range g.SuggestedActions {
		printf("  • %s\n", a)
	}
	printf("\nSAY\n")
	for _, p := range g.TalkingPoints {
		printf("  • %s\n", p)
	}
	if len(g.ObjectionHandlers) > 0 {
		printf("\nOBJECTIONS\n")
		for _, o := range g.ObjectionHandlers {
			printf("  • %s\n    %s\n", o.Objection, o.Response)
		}
	}
	printf("\nCLOSE\n  %s\n", g.CloseAttempt)

	mark := "✗"
	if verdict.Eligible {
		mark = paint(okStyle, "✓")
	}
	printf("\nAuto-close: %s %s\n", mark, verdict.Reason)
	return nil
}
