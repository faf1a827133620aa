// ABOUTME: GraphViz graphs of the lead pipeline and of a single lead's quotes
// ABOUTME: Renders DOT source with go-graphviz for agents and the TUI
package viz

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/google/uuid"
	"github.com/harperreed/leadcoach/db"
	"github.com/harperreed/leadcoach/models"
)

type GraphGenerator struct {
	db *sql.DB
}

func NewGraphGenerator(database *sql.DB) *GraphGenerator {
	return &GraphGenerator{db: database}
}

// flow lists the pipeline transitions drawn between status nodes.
var flow = []struct {
	from, to models.Status
	label    string
	detour   bool
}{
	{models.StatusNew, models.StatusContacted, "first touch", false},
	{models.StatusContacted, models.StatusScheduled, "booked", false},
	{models.StatusScheduled, models.StatusShow, "attended", false},
	{models.StatusScheduled, models.StatusNoShow, "missed", true},
	{models.StatusNoShow, models.StatusScheduled, "rebooked", true},
	{models.StatusShow, models.StatusProposalSent, "quote sent", false},
	{models.StatusProposalSent, models.StatusNegotiation, "objections", false},
	{models.StatusProposalSent, models.StatusWon, "accepted", false},
	{models.StatusNegotiation, models.StatusWon, "closed", false},
	{models.StatusNegotiation, models.StatusLost, "lost", true},
}

var statusColors = map[models.Status]string{
	models.StatusNew:          "lightblue",
	models.StatusContacted:    "lightcyan",
	models.StatusScheduled:    "lightyellow",
	models.StatusShow:         "khaki",
	models.StatusNoShow:       "mistyrose",
	models.StatusProposalSent: "orange",
	models.StatusNegotiation:  "gold",
	models.StatusWon:          "lightgreen",
	models.StatusLost:         "lightgray",
}

// GeneratePipelineGraph draws every status with its current lead count.
func (g *GraphGenerator) GeneratePipelineGraph(ctx context.Context) (string, error) {
	counts, err := db.CountLeadsByStatus(g.db)
	if err != nil {
		return "", fmt.Errorf("failed to count leads: %w", err)
	}
	return PipelineGraph(ctx, counts)
}

// PipelineGraph renders the pipeline for the given per-status counts.
func PipelineGraph(ctx context.Context, counts map[models.Status]int) (string, error) {
	return render(ctx, func(graph *cgraph.Graph) error {
		graph.SetLabel("Lead Pipeline")
		graph.SetRankDir(cgraph.LRRank)

		nodes := make(map[models.Status]*cgraph.Node)
		for _, st := range models.AllStatuses {
			node, err := graph.CreateNodeByName(string(st))
			if err != nil {
				return fmt.Errorf("failed to create status node: %w", err)
			}
			node.SetLabel(fmt.Sprintf("%s\n%d leads", st, counts[st]))
			node.SetShape("box")
			node.SetStyle("filled")
			node.SetFillColor(statusColors[st])
			nodes[st] = node
		}

		for _, f := range flow {
			edge, err := graph.CreateEdgeByName(f.label, nodes[f.from], nodes[f.to])
			if err != nil {
				return fmt.Errorf("failed to create edge: %w", err)
			}
			edge.SetLabel(f.label)
			if f.detour {
				edge.SetStyle("dashed")
			}
		}
		return nil
	})
}

// GenerateLeadGraph draws a lead with its quotes and interaction channels.
func (g *GraphGenerator) GenerateLeadGraph(ctx context.Context, leadID uuid.UUID) (string, error) {
	lead, err := db.GetLead(g.db, leadID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch lead: %w", err)
	}
	if lead == nil {
		return "", fmt.Errorf("lead not found")
	}
	quotes, err := db.FindQuotesByLead(g.db, leadID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch quotes: %w", err)
	}
	return LeadGraph(ctx, lead, quotes)
}

// LeadGraph renders one lead, its quotes and a node per interaction channel.
func LeadGraph(ctx context.Context, lead *models.Lead, quotes []models.Quote) (string, error) {
	return render(ctx, func(graph *cgraph.Graph) error {
		graph.SetLabel(lead.Name)

		leadNode, err := graph.CreateNodeByName("lead")
		if err != nil {
			return fmt.Errorf("failed to create lead node: %w", err)
		}
		leadNode.SetLabel(fmt.Sprintf("%s\n(%s, score %d)", lead.Name, lead.Status, lead.LeadScore))
		leadNode.SetShape("ellipse")
		leadNode.SetStyle("filled")
		leadNode.SetFillColor(statusColors[lead.Status])

		for _, q := range quotes {
			node, err := graph.CreateNodeByName(q.Number)
			if err != nil {
				return fmt.Errorf("failed to create quote node: %w", err)
			}
			node.SetLabel(fmt.Sprintf("%s\n%s %s\n(%s)", q.Kind, q.Currency, q.Total.StringFixed(0), q.Status))
			node.SetShape("diamond")
			node.SetStyle("filled")
			node.SetFillColor("lightyellow")

			edge, err := graph.CreateEdgeByName("quote_"+q.Number, leadNode, node)
			if err != nil {
				return fmt.Errorf("failed to create edge: %w", err)
			}
			edge.SetLabel("quote")
		}

		channels := make(map[string]int)
		var order []string
		for _, in := range lead.Interactions {
			if channels[in.Channel] == 0 {
				order = append(order, in.Channel)
			}
			channels[in.Channel]++
		}
		for _, ch := range order {
			node, err := graph.CreateNodeByName("channel_" + ch)
			if err != nil {
				return fmt.Errorf("failed to create channel node: %w", err)
			}
			node.SetLabel(fmt.Sprintf("%s\n%d touches", ch, channels[ch]))
			node.SetShape("note")

			edge, err := graph.CreateEdgeByName("via_"+ch, node, leadNode)
			if err != nil {
				return fmt.Errorf("failed to create edge: %w", err)
			}
			edge.SetStyle("dashed")
		}
		return nil
	})
}

func render(ctx context.Context, build func(*cgraph.Graph) error) (string, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create graphviz: %w", err)
	}
	defer gv.Close()

	graph, err := gv.Graph()
	if err != nil {
		return "", fmt.Errorf("failed to create graph: %w", err)
	}
	defer graph.Close()

	if err := build(graph); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}
	return buf.String(), nil
}
