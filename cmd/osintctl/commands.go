package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/osintdash/graphkit/pkg/api"
	"github.com/osintdash/graphkit/pkg/graph"
)

func transformsCmd() *cobra.Command {
	var entityType string

	cmd := &cobra.Command{
		Use:     "transforms",
		Aliases: []string{"tf"},
		Short:   "List available transforms",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/transforms"
			if entityType != "" {
				path += "?type=" + entityType
			}

			var transforms []*api.TransformResponse
			if err := newClient(serverURL).get(path, &transforms); err != nil {
				return err
			}

			for _, tr := range transforms {
				fmt.Printf("%s %s  %s\n", tr.Icon, info.Sprint(tr.ID), tr.Name)
				subtle.Printf("   %s · %s\n", tr.Description, strings.Join(tr.Types, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&entityType, "type", "t", "", "only transforms supporting this entity type")
	return cmd
}

func nodesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nodes",
		Short: "List and create nodes",
		RunE: func(cmd *cobra.Command, args []string) error {
			var nodes []*api.NodeResponse
			if err := newClient(serverURL).get("/nodes", &nodes); err != nil {
				return err
			}
			for _, node := range nodes {
				line := fmt.Sprintf("%s  %-14s %s", subtle.Sprint(node.ID[:8]), node.Type, node.Label)
				if node.Risk != "" {
					line += "  " + riskColor(node.Risk).Sprintf("[%s]", node.Risk)
				}
				fmt.Println(line)
			}
			return nil
		},
	}

	cmd.AddCommand(nodesAddCmd())
	return cmd
}

func nodesAddCmd() *cobra.Command {
	var entityType string

	cmd := &cobra.Command{
		Use:   "add <value>",
		Short: "Add a node to the graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var node api.NodeResponse
			req := api.NodeRequest{Type: entityType, Value: args[0]}
			if err := newClient(serverURL).post("/nodes", req, &node); err != nil {
				return err
			}
			good.Printf("added %s (%s)\n", node.Label, node.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&entityType, "type", "t", "domain", "entity type of the new node")
	return cmd
}

func expandCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expand <node-id> <transform-id>",
		Short: "Run a transform against a node",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result api.ExpandResponse
			req := api.ExpandRequest{NodeID: args[0], TransformID: args[1]}
			if err := newClient(serverURL).post("/expand", req, &result); err != nil {
				return err
			}

			good.Printf("produced %d nodes\n", len(result.Nodes))
			for _, node := range result.Nodes {
				line := fmt.Sprintf("  %-14s %s", node.Type, node.Label)
				if node.Risk != "" {
					line += "  " + riskColor(node.Risk).Sprintf("[%s]", node.Risk)
				}
				fmt.Println(line)
			}
			return nil
		},
	}
	return cmd
}

func exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the graph as a JSON document",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := newClient(serverURL).getRaw("/graph/export")
			if err != nil {
				return err
			}

			if output == "" {
				_, err = os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			good.Printf("wrote %s (%d bytes)\n", output, len(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the graph with a previously exported document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			var stats api.StatsResponse
			if err := newClient(serverURL).postRaw("/graph/import", data, &stats); err != nil {
				return err
			}
			good.Printf("imported %d nodes and %d edges\n", stats.Nodes, stats.Edges)
			return nil
		},
	}
	return cmd
}

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show graph statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			var stats api.StatsResponse
			if err := newClient(serverURL).get("/graph/stats", &stats); err != nil {
				return err
			}

			fmt.Printf("Nodes:        %d\n", stats.Nodes)
			fmt.Printf("Edges:        %d\n", stats.Edges)
			fmt.Printf("Cache hits:   %d\n", stats.CacheHits)
			fmt.Printf("Cache misses: %d\n", stats.CacheMisses)

			if len(stats.NodesByType) > 0 {
				fmt.Println("By type:")
				for _, entityType := range graph.AllEntityTypes {
					if count := stats.NodesByType[string(entityType)]; count > 0 {
						fmt.Printf("  %-16s %d\n", entityType, count)
					}
				}
			}
			return nil
		},
	}
	return cmd
}

func riskColor(level string) *color.Color {
	switch level {
	case "critical", "high":
		return bad
	case "medium":
		return warn
	default:
		return subtle
	}
}
