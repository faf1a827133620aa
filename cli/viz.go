// ABOUTME: Visualization CLI commands
// ABOUTME: Handles the terminal dashboard and GraphViz pipeline and lead graphs
package cli

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/harperreed/leadcoach/engine"
	"github.com/harperreed/leadcoach/viz"
)

func writeGraph(output, dot string) error {
	if output != "" {
		return os.WriteFile(output, []byte(dot), 0644)
	}
	printf("%s\n", dot)
	return nil
}

// VizGraphPipelineCommand renders the pipeline as a state graph with lead counts.
func VizGraphPipelineCommand(ctx context.Context, db *sql.DB, args []string) error {
	fs := flag.NewFlagSet("viz pipeline", flag.ExitOnError)
	output := fs.String("output", "", "Output file (default: stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	dot, err := viz.NewGraphGenerator(db).GeneratePipelineGraph(ctx)
	if err != nil {
		return err
	}
	return writeGraph(*output, dot)
}

// VizGraphLeadCommand renders one lead with its quotes and contact channels.
func VizGraphLeadCommand(ctx context.Context, db *sql.DB, args []string) error {
	fs := flag.NewFlagSet("viz lead", flag.ExitOnError)
	output := fs.String("output", "", "Output file (default: stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	lead, err := resolveLead(db, fs.Arg(0))
	if err != nil {
		return err
	}
	dot, err := viz.NewGraphGenerator(db).GenerateLeadGraph(ctx, lead.ID)
	if err != nil {
		return err
	}
	return writeGraph(*output, dot)
}

func VizDashboardCommand(ctx context.Context, database *sql.DB, eng *engine.Engine, args []string) error {
	stats, err := viz.GenerateDashboardStats(ctx, database, eng)
	if err != nil {
		return fmt.Errorf("failed to generate dashboard stats: %w", err)
	}

	printf("%s", viz.RenderDashboard(stats))
	return nil
}
