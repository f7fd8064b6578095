package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

type collectibleJSON struct {
	Address     string `json:"address"`
	TokenID     string `json:"tokenId"`
	Title       string `json:"title"`
	ImageURL    string `json:"imageUrl"`
	OpenSeaLink string `json:"openseaLink"`
	PriceString string `json:"priceString"`
}

func newCollectiblesCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "collectibles <owner>",
		Short: "List the NFTs held by an owner address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := a.collectibles.GetCollectibles(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if asJSON {
				items := make([]collectibleJSON, 0, len(set.Items))
				for _, c := range set.Items {
					items = append(items, collectibleJSON(*c))
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(items)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TITLE\tPRICE\tLINK")
			for _, c := range set.Items {
				fmt.Fprintf(w, "%s\t%s\t%s\n", c.Title, c.PriceString, c.OpenSeaLink)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d collectibles, %d favorites\n", len(set.Items), len(set.Favorites))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
