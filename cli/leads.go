// ABOUTME: Lead CLI commands
// ABOUTME: Human-friendly commands for capturing leads, moving them through the pipeline and logging touches
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/harperreed/leadcoach/db"
	"github.com/harperreed/leadcoach/engine"
	"github.com/harperreed/leadcoach/models"
)

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// AddLeadCommand captures a new lead and scores it immediately.
func AddLeadCommand(database *sql.DB, eng *engine.Engine, args []string) error {
	fs := flag.NewFlagSet("lead add", flag.ExitOnError)
	name := fs.String("name", "", "Lead name (required)")
	email := fs.String("email", "", "Email address")
	phone := fs.String("phone", "", "Phone or WhatsApp number")
	company := fs.String("company", "", "Company name")
	title := fs.String("title", "", "Job title")
	source := fs.String("source", "", "Acquisition channel (referral, linkedin, website, ...)")
	budget := fs.String("budget", "", "Estimated budget")
	needs := fs.String("needs", "", "Comma-separated needs (social media, website, seo, ...)")
	psych := fs.String("psych", "", "Dominant psych type (analytical, emotional, assertive, indecisive)")
	objections := fs.String("objections", "", "Comma-separated open objections")
	notes := fs.String("notes", "", "Notes about the lead")
	_ = fs.Parse(args)

	if *name == "" {
		return fmt.Errorf("--name is required")
	}

	lead := &models.Lead{
		Name:          *name,
		Email:         *email,
		Phone:         *phone,
		Company:       *company,
		JobTitle:      *title,
		Source:        strings.ToLower(*source),
		DetectedNeeds: splitList(*needs),
		Notes:         *notes,
	}
	if *budget != "" {
		v, err := decimal.NewFromString(*budget)
		if err != nil {
			return fmt.Errorf("invalid --budget: %w", err)
		}
		lead.PotentialValue = &v
	}
	if *psych != "" || *objections != "" {
		p := strings.ToLower(*psych)
		if p != "" && !models.ValidPsychType(p) {
			return fmt.Errorf("invalid --psych: %s", *psych)
		}
		lead.PsychProfile = &models.PsychProfile{DominantType: models.PsychType(p), Objections: splitList(*objections)}
	}
	lead.LeadScore = eng.Score(lead)

	if err := db.CreateLead(database, lead); err != nil {
		return fmt.Errorf("failed to create lead: %w", err)
	}

	printf("%s Lead created: %s (ID: %s)\n", paint(okStyle, "✓"), lead.Name, lead.ID)
	printf("  Score: %d\n", lead.LeadScore)
	if len(lead.DetectedNeeds) > 0 {
		printf("  Needs: %s\n", strings.Join(lead.DetectedNeeds, ", "))
	}
	return nil
}

// ListLeadsCommand lists leads, optionally filtered by status or search text.
func ListLeadsCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("lead list", flag.ExitOnError)
	query := fs.String("query", "", "Search by name, company or email")
	status := fs.String("status", "", "Filter by status")
	limit := fs.Int("limit", 50, "Maximum results")
	_ = fs.Parse(args)

	if *status != "" && !models.ValidStatus(*status) {
		return fmt.Errorf("invalid --status: %s", *status)
	}

	leads, err := db.FindLeads(database, models.Status(*status), *query, *limit)
	if err != nil {
		return fmt.Errorf("failed to find leads: %w", err)
	}
	if len(leads) == 0 {
		printf("No leads found\n")
		return nil
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tCOMPANY\tSTATUS\tSCORE\tBUDGET\tID")
	_, _ = fmt.Fprintln(w, "----\t-------\t------\t-----\t------\t--")
	for _, lead := range leads {
		budget := "-"
		if v, ok := lead.Budget(); ok {
			budget = v.StringFixed(0)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			lead.Name, orDash(lead.Company), lead.Status, lead.LeadScore, budget, shortID(lead.ID))
	}
	_ = w.Flush()

	printf("\nTotal: %d lead(s)\n", len(leads))
	return nil
}

// ShowLeadCommand prints a lead with its history and the engine's next actions.
func ShowLeadCommand(database *sql.DB, eng *engine.Engine, args []string) error {
	fs := flag.NewFlagSet("lead show", flag.ExitOnError)
	_ = fs.Parse(args)

	lead, err := resolveLead(database, fs.Arg(0))
	if err != nil {
		return err
	}

	printf("%s\n", paint(headingStyle, lead.Name))
	printf("  ID:       %s\n", lead.ID)
	printf("  Company:  %s\n", orDash(lead.Company))
	printf("  Email:    %s\n", orDash(lead.Email))
	printf("  Phone:    %s\n", orDash(lead.Phone))
	printf("  Source:   %s\n", orDash(lead.Source))
	printf("  Status:   %s\n", lead.Status)
	printf("  Score:    %d\n", lead.LeadScore)
	if v, ok := lead.Budget(); ok {
		printf("  Budget:   %s %s\n", eng.Catalog().Currency, v.StringFixed(0))
	}
	if len(lead.DetectedNeeds) > 0 {
		printf("  Needs:    %s\n", strings.Join(lead.DetectedNeeds, ", "))
	}
	if lead.PsychProfile != nil {
		printf("  Psych:    %s\n", lead.PsychType())
	}
	if lead.NextMeeting != nil {
		printf("  Meeting:  %s %s\n", lead.NextMeeting.ScheduledAt.Local().Format("2006-01-02 15:04"), lead.NextMeeting.Link)
	}

	if len(lead.Interactions) > 0 {
		printf("\n%s\n", paint(headingStyle, "HISTORY"))
		for _, in := range lead.Interactions {
			printf("  %s  %-8s %-8s %s\n", in.Timestamp.Local().Format("2006-01-02 15:04"), in.Direction, in.Channel, in.Notes)
		}
	}

	printSuggestions(eng.Suggest(lead))
	return nil
}

// UpdateStatusCommand moves a lead to a new pipeline status.
func UpdateStatusCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("lead status", flag.ExitOnError)
	meeting := fs.String("meeting", "", "Meeting time (RFC3339 or 2006-01-02 15:04)")
	link := fs.String("link", "", "Video call link for the meeting")
	_ = fs.Parse(args)

	if fs.NArg() < 2 {
		return fmt.Errorf("usage: lead status [flags] <id> <status>")
	}
	status := fs.Arg(1)
	if !models.ValidStatus(status) {
		return fmt.Errorf("invalid status: %s", status)
	}

	lead, err := resolveLead(database, fs.Arg(0))
	if err != nil {
		return err
	}
	lead.Status = models.Status(status)

	if *meeting != "" {
		at, err := parseTime(*meeting)
		if err != nil {
			return fmt.Errorf("invalid --meeting: %w", err)
		}
		lead.NextMeeting = &models.Meeting{ScheduledAt: at, Link: *link}
	} else if *link != "" && lead.NextMeeting != nil {
		lead.NextMeeting.Link = *link
	}

	if err := db.UpdateLead(database, lead); err != nil {
		return fmt.Errorf("failed to update lead: %w", err)
	}

	printf("%s %s is now %s\n", paint(okStyle, "✓"), lead.Name, lead.Status)
	return nil
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02 15:04", s, time.Local)
}

// LogInteractionCommand records a touch with a lead.
func LogInteractionCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("lead log", flag.ExitOnError)
	channel := fs.String("channel", models.ChannelWhatsApp, "whatsapp, email, call or meeting")
	direction := fs.String("direction", models.DirectionOutbound, "inbound or outbound")
	notes := fs.String("notes", "", "What was said")
	at := fs.String("at", "", "When it happened (default: now)")
	_ = fs.Parse(args)

	lead, err := resolveLead(database, fs.Arg(0))
	if err != nil {
		return err
	}

	switch *channel {
	case models.ChannelWhatsApp, models.ChannelEmail, models.ChannelCall, models.ChannelMeeting:
	default:
		return fmt.Errorf("invalid --channel: %s", *channel)
	}

	in := &models.Interaction{LeadID: lead.ID, Channel: *channel, Direction: *direction, Notes: *notes}
	if *at != "" {
		if in.Timestamp, err = parseTime(*at); err != nil {
			return fmt.Errorf("invalid --at: %w", err)
		}
	}
	if err := db.LogInteraction(database, in); err != nil {
		return fmt.Errorf("failed to log interaction: %w", err)
	}

	printf("%s Logged %s %s with %s\n", paint(okStyle, "✓"), in.Direction, in.Channel, lead.Name)
	return nil
}

// ScoreLeadCommand recomputes and stores a lead's score.
func ScoreLeadCommand(database *sql.DB, eng *engine.Engine, args []string) error {
	fs := flag.NewFlagSet("lead score", flag.ExitOnError)
	_ = fs.Parse(args)

	lead, err := resolveLead(database, fs.Arg(0))
	if err != nil {
		return err
	}
	score := eng.Score(lead)
	if err := db.UpdateLeadScore(database, lead.ID, score); err != nil {
		return fmt.Errorf("failed to save score: %w", err)
	}

	printf("%s %s: %d → %d\n", paint(okStyle, "✓"), lead.Name, lead.LeadScore, score)
	return nil
}

// DeleteLeadCommand removes a lead and everything attached to it.
func DeleteLeadCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("lead delete", flag.ExitOnError)
	_ = fs.Parse(args)

	lead, err := resolveLead(database, fs.Arg(0))
	if err != nil {
		return err
	}
	if err := db.DeleteLead(database, lead.ID); err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}

	printf("%s Lead deleted: %s\n", paint(okStyle, "✓"), lead.Name)
	return nil
}
