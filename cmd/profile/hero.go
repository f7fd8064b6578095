package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"metagame.wtf/player_profile/internal/domain/model"
)

func newHeroCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "hero <username|0xaddress>",
		Short: "Show the profile hero view of a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hero, err := a.heroes.GetHero(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printHero(cmd.OutOrStdout(), hero)
			return nil
		},
	}
}

func printHero(w io.Writer, h *model.Hero) {
	fmt.Fprintf(w, "%s", h.Name)
	if h.Emoji != "" {
		fmt.Fprintf(w, " %s", h.Emoji)
	}
	if h.Pronouns != "" {
		fmt.Fprintf(w, " (%s)", h.Pronouns)
	}
	fmt.Fprintln(w)

	if h.Address != "" {
		fmt.Fprintf(w, "address:      %s\n", h.Address)
	}
	if h.Bio != "" {
		fmt.Fprintf(w, "bio:          %s\n", strings.ReplaceAll(h.Bio, "\n", "\n              "))
	}
	fmt.Fprintf(w, "availability: %s\n", h.Availability)
	fmt.Fprintf(w, "time zone:    %s\n", timeZoneLabel(h.TimeZone))
	fmt.Fprintf(w, "color:        %s\n", colorLabel(h.ColorDisposition))
	if h.ExplorerType != nil {
		fmt.Fprintf(w, "player type:  %s\n", h.ExplorerType.Title)
	}
}

func timeZoneLabel(tz model.TimeZoneDisplay) string {
	if !tz.Specified {
		return "Unspecified"
	}
	return fmt.Sprintf("%s %s", tz.Abbreviation, tz.ShortLabel)
}

func colorLabel(cd model.ColorDisposition) string {
	if !cd.Specified {
		return "Unspecified"
	}
	return fmt.Sprintf("%s %s", strings.Join(cd.Aspects, "/"), cd.RadarURL)
}
