package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/df07/go-tile-raytracer/pkg/renderer"
	"github.com/df07/go-tile-raytracer/pkg/scene"
)

var orderDescriptions = map[renderer.RenderOrder]string{
	renderer.OrderTopToBottom: "Row by row from the top-left tile",
	renderer.OrderFromMiddle:  "Tiles nearest the image centre first",
	renderer.OrderToMiddle:    "Tiles farthest from the image centre first",
	renderer.OrderNormal:      "Generation order, left to right and top to bottom",
	renderer.OrderRandom:      "Shuffled with --seed",
}

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List the tile orders",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printOrders(cmd.OutOrStdout())
	},
}

var scenesCmd = &cobra.Command{
	Use:   "scenes",
	Short: "List built-in scenes and mesh files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		return printScenes(cmd.OutOrStdout(), dir)
	},
}

func init() {
	scenesCmd.Flags().String("dir", "models", "Directory scanned for STL and PLY files")
	rootCmd.AddCommand(ordersCmd, scenesCmd)
}

func printOrders(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, order := range renderer.RenderOrders() {
		fmt.Fprintf(tw, "%s\t%s\n", order, orderDescriptions[order])
	}
	return tw.Flush()
}

func printScenes(w io.Writer, dir string) error {
	meshes, err := scene.ListMeshFiles(dir)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, info := range append(scene.Presets(), meshes...) {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", info.ID, info.Type, info.Description)
	}
	return tw.Flush()
}
