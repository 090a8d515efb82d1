// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/refcard-panel/internal/panel"
	"github.com/pdiddy/refcard-panel/pkg/types"
)

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List configured games and their endpoints",
	Long: `Games lists every configured game with the endpoint its panel posts to
and the element IDs a page for that game is expected to provide.`,
	RunE: runGames,
}

func init() {
	gamesCmd.Flags().Bool("yaml", false, "output as YAML")

	rootCmd.AddCommand(gamesCmd)
}

// gameListing is one game in the games output.
type gameListing struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description,omitempty"`
	Endpoint    string           `yaml:"endpoint"`
	Elements    panel.ElementIDs `yaml:"elements"`
}

func gameListings(c types.Config) ([]gameListing, error) {
	out := make([]gameListing, 0, len(c.Games))
	for _, g := range c.Games {
		url, err := c.Endpoint(g.Name).URL(c.Server)
		if err != nil {
			return nil, err
		}
		out = append(out, gameListing{
			Name:        g.Name,
			Description: g.Description,
			Endpoint:    url,
			Elements:    panel.IDsFor(g.Name),
		})
	}
	return out, nil
}

func runGames(cmd *cobra.Command, args []string) error {
	listings, err := gameListings(cfg)
	if err != nil {
		return err
	}

	if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(listings)
	}

	for _, l := range listings {
		fmt.Printf("%-8s %s\n", l.Name, l.Endpoint)
		if l.Description != "" {
			fmt.Printf("         %s\n", l.Description)
		}
	}
	return nil
}
