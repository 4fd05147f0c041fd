package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/phanxgames/geonet"
	"github.com/phanxgames/geonet/internal/snapshot"
)

var (
	heading = color.New(color.FgHiGreen, color.Bold)
	subtle  = color.New(color.FgHiBlack)
	warn    = color.New(color.FgYellow)
	good    = color.New(color.FgGreen)
)

var (
	inspectExport string
	inspectLimit  int
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <snapshot>",
	Short: "Summarize a snapshot without opening a window",
	Long: `inspect loads a snapshot, resolves its edges the same way the map does
and prints the node table with the radius and color each node would get.

With --export the snapshot is also written to another file; the target
format follows the extension (.json, .yaml, .db).`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectExport, "export", "o", "", "Write the snapshot to this file")
	inspectCmd.Flags().IntVarP(&inspectLimit, "limit", "n", 20, "Maximum number of nodes to list (0 for all)")
	rootCmd.AddCommand(inspectCmd)
}

// colorName names the fill ColorFor picks, for the table.
func colorName(n geonet.Node) string {
	switch geonet.ColorFor(n) {
	case geonet.EmbarkDisembarkColor:
		return "embark+disembark"
	case geonet.EmbarkationColor:
		return "embarkation"
	case geonet.DisembarkationColor:
		return "disembarkation"
	case geonet.PostDisembarkationColor:
		return "post-disembarkation"
	case geonet.OriginColor:
		return "origin"
	}
	return "default"
}

func runInspect(cmd *cobra.Command, args []string) error {
	snap, err := snapshot.Load(args[0])
	if err != nil {
		return err
	}

	idx := geonet.NewGeometryIndex(snap.Nodes, snap.Edges)
	scale := geonet.ComputeRadiusScale(snap.Nodes, cfg.Render.MinRadius, cfg.Render.MaxRadius)

	heading.Printf("%s\n\n", args[0])
	fmt.Printf("  nodes        %d (%d distinct ids)\n", len(snap.Nodes), idx.NumNodes())
	fmt.Printf("  edges        %d displayable, %d origin-class\n", len(idx.Displayable()), len(idx.OriginClass()))

	unresolved := 0
	for _, e := range snap.Edges {
		_, okS := idx.Position(e.Source)
		_, okT := idx.Position(e.Target)
		if !okS || !okT {
			unresolved++
		}
	}
	if unresolved > 0 {
		warn.Printf("  unresolved   %d edges reference missing or unplaced nodes\n", unresolved)
	} else {
		good.Println("  unresolved   0")
	}
	lo, hi := scale.Domain()
	fmt.Printf("  size domain  [%g, %g]", lo, hi)
	if scale.Degenerate() {
		subtle.Print(" (degenerate)")
	}
	fmt.Print("\n\n")

	nodes := make([]geonet.Node, len(snap.Nodes))
	copy(nodes, snap.Nodes)
	sort.SliceStable(nodes, func(i, j int) bool {
		return scale.Radius(nodes[i].Size) > scale.Radius(nodes[j].Size)
	})
	if inspectLimit > 0 && len(nodes) > inspectLimit {
		nodes = nodes[:inspectLimit]
	}

	rows := make([][]string, 0, len(nodes))
	for _, n := range nodes {
		pos := "-"
		if ll, ok := n.Position(); ok {
			pos = fmt.Sprintf("%.3f, %.3f", ll.Lat, ll.Lng)
		}
		cluster := ""
		if n.Weights.Origin > 0 {
			cluster = "yes"
		}
		rows = append(rows, []string{
			n.ID,
			n.Name,
			pos,
			fmt.Sprintf("%.1f", scale.Radius(n.Size)),
			colorName(n),
			cluster,
			fmt.Sprintf("%d", len(idx.OriginEdgesOfSource(n.ID))),
		})
	}
	printTable([]string{"ID", "NAME", "POSITION", "RADIUS", "COLOR", "CLUSTERED", "ORIGIN EDGES"}, rows)

	if inspectExport != "" {
		if err := snapshot.Save(inspectExport, snap); err != nil {
			return fmt.Errorf("exporting snapshot: %w", err)
		}
		good.Printf("\n  exported to %s\n", inspectExport)
	}
	return nil
}

// printTable prints an aligned table with a subtle header.
func printTable(headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	headerLine := "  "
	sepLine := "  "
	for i, h := range headers {
		headerLine += fmt.Sprintf("%-*s  ", widths[i], h)
		sepLine += strings.Repeat("─", widths[i]) + "  "
	}
	subtle.Println(headerLine)
	subtle.Println(sepLine)

	for _, row := range rows {
		line := "  "
		for i, cell := range row {
			if i < len(widths) {
				line += fmt.Sprintf("%-*s  ", widths[i], cell)
			}
		}
		fmt.Println(line)
	}
}
