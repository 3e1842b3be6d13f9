package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cabobadilla/AIMusicAgent/internal/catalog"
)

func newMoodsCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "moods",
		Short: "List the supported moods",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := g.output(cmd)
			if g.JSON {
				return out.EmitJSON(map[string]any{"moods": catalog.Moods()})
			}
			for _, m := range catalog.Moods() {
				out.Print(m)
			}
			return nil
		},
	}
}

func newGenresCommand(g *globalOptions) *cobra.Command {
	var age int
	var all bool
	cmd := &cobra.Command{
		Use:   "genres",
		Short: "Show the recommended genres for an age group",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := g.output(cmd)
			if age <= 0 {
				return UsageError{Msg: fmt.Sprintf("age must be a positive integer, got %d", age)}
			}

			brackets := []catalog.Bracket{catalog.AgeBracket(age)}
			if all {
				brackets = catalog.Brackets()
			}
			if g.JSON {
				groups := make([]map[string]any, 0, len(brackets))
				for _, b := range brackets {
					groups = append(groups, map[string]any{
						"bracket":  b,
						"genres":   catalog.GenresFor(b),
						"defaults": catalog.DefaultGenres(b),
					})
				}
				return out.EmitJSON(map[string]any{"groups": groups})
			}
			for _, b := range brackets {
				out.Print(out.Bold(string(b)) + "  " + strings.Join(catalog.GenresFor(b), ", "))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&age, "age", "a", 25, "Listener age")
	cmd.Flags().BoolVar(&all, "all", false, "Show every age group")
	return cmd
}
