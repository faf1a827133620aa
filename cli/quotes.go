// ABOUTME: Quote CLI commands
// ABOUTME: Generates, edits, lists and advances quotes for a lead
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/harperreed/leadcoach/db"
	"github.com/harperreed/leadcoach/engine"
	"github.com/harperreed/leadcoach/models"
)

func printQuote(q *models.Quote) {
	printf("%s  %s  (%s, %s)\n", paint(headingStyle, q.Number), q.Kind, q.Status, shortID(q.ID))
	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, it := range q.Items {
		_, _ = fmt.Fprintf(w, "  %s\t%d x\t%s\t\n", it.Name, it.Quantity, it.UnitPrice.StringFixed(2))
	}
	_, _ = fmt.Fprintf(w, "  Subtotal\t\t%s\t\n", q.Subtotal.StringFixed(2))
	if !q.Discount.IsZero() {
		_, _ = fmt.Fprintf(w, "  Discount\t\t-%s\t\n", q.Discount.StringFixed(2))
	}
	_, _ = fmt.Fprintf(w, "  Total %s\t\t%s\t\n", q.Currency, q.Total.StringFixed(2))
	_ = w.Flush()
	printf("  Valid until %s\n", q.ValidUntil.Local().Format("2006-01-02"))
	for _, n := range q.Notes {
		printf("  • %s\n", n)
	}
}

// QuoteGenerateCommand prices a quote and its alternatives for a lead and stores them.
func QuoteGenerateCommand(database *sql.DB, eng *engine.Engine, args []string) error {
	fs := flag.NewFlagSet("quote generate", flag.ExitOnError)
	_ = fs.Parse(args)

	lead, err := resolveLead(database, fs.Arg(0))
	if err != nil {
		return err
	}

	res := eng.GenerateQuote(lead)
	all := append([]*models.Quote{res.Quote}, res.Alternatives...)
	for _, q := range all {
		if err := db.SaveQuote(database, q); err != nil {
			return fmt.Errorf("failed to save quote: %w", err)
		}
	}

	printQuote(res.Quote)
	printf("\n%s\n", res.Rationale)
	for _, alt := range res.Alternatives {
		printf("\n")
		printQuote(alt)
	}
	return nil
}

// QuoteEditCommand applies a plain-language change to a draft quote.
func QuoteEditCommand(database *sql.DB, eng *engine.Engine, args []string) error {
	fs := flag.NewFlagSet("quote edit", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() < 2 {
		return fmt.Errorf("usage: quote edit <quote> <request>")
	}
	q, err := resolveQuote(database, fs.Arg(0))
	if err != nil {
		return err
	}
	if q.Status != models.QuoteStatusDraft {
		return fmt.Errorf("only draft quotes can be edited (status: %s)", q.Status)
	}

	edited := eng.EditQuote(q, strings.Join(fs.Args()[1:], " "))
	if err := db.UpdateQuote(database, edited); err != nil {
		return fmt.Errorf("failed to update quote: %w", err)
	}
	if len(edited.Notes) == len(q.Notes) {
		printf("No changes recognised\n")
	}
	printQuote(edited)
	return nil
}

// QuoteListCommand lists a lead's quotes.
func QuoteListCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("quote list", flag.ExitOnError)
	_ = fs.Parse(args)

	lead, err := resolveLead(database, fs.Arg(0))
	if err != nil {
		return err
	}
	quotes, err := db.FindQuotesByLead(database, lead.ID)
	if err != nil {
		return fmt.Errorf("failed to list quotes: %w", err)
	}
	if len(quotes) == 0 {
		printf("No quotes for %s\n", lead.Name)
		return nil
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NUMBER\tKIND\tSTATUS\tTOTAL\tVALID UNTIL")
	_, _ = fmt.Fprintln(w, "------\t----\t------\t-----\t-----------")
	for _, q := range quotes {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s %s\t%s\n",
			q.Number, q.Kind, q.Status, q.Currency, q.Total.StringFixed(2), q.ValidUntil.Local().Format("2006-01-02"))
	}
	_ = w.Flush()
	return nil
}

// QuoteStatusCommand advances a quote and moves its lead along with it.
func QuoteStatusCommand(database *sql.DB, eng *engine.Engine, args []string) error {
	fs := flag.NewFlagSet("quote status", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() < 2 {
		return fmt.Errorf("usage: quote status <quote> <sent|viewed|accepted|rejected>")
	}
	q, err := resolveQuote(database, fs.Arg(0))
	if err != nil {
		return err
	}
	next, err := eng.AdvanceQuote(q, fs.Arg(1))
	if err != nil {
		return err
	}
	leadStatus, err := db.UpdateQuoteStatus(database, next)
	if err != nil {
		return err
	}
	printf("%s %s is now %s\n", paint(okStyle, "✓"), next.Number, next.Status)
	if leadStatus != "" {
		printf("  Lead moved to %s\n", leadStatus)
	}
	return nil
}
