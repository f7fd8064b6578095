package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"metagame.wtf/player_profile/internal/animate"
	"metagame.wtf/player_profile/internal/domain/model"
)

// watchedField はヒーロー欄の1項目と、その変化を伝えるSubject/Faderです
type watchedField struct {
	name    string
	extract func(*model.Hero) string
	subject *animate.Subject[string]
	fader   *animate.Fader
	unbind  func()
}

var heroFields = []struct {
	name    string
	extract func(*model.Hero) string
}{
	{"name", func(h *model.Hero) string { return h.Name }},
	{"bio", func(h *model.Hero) string { return h.Bio }},
	{"availability", func(h *model.Hero) string { return h.Availability }},
	{"time zone", func(h *model.Hero) string { return timeZoneLabel(h.TimeZone) }},
	{"color", func(h *model.Hero) string { return colorLabel(h.ColorDisposition) }},
}

func newWatchCmd(a *app) *cobra.Command {
	var (
		interval time.Duration
		fade     time.Duration
		count    int
	)

	cmd := &cobra.Command{
		Use:   "watch <username|0xaddress>",
		Short: "Poll a player and print hero changes with fade transitions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval <= 0 {
				return fmt.Errorf("interval must be positive: %s", interval)
			}
			fields := newWatchedFields(cmd.OutOrStdout(), fade)
			defer func() {
				for _, f := range fields {
					f.unbind()
					f.fader.Stop()
				}
			}()
			return a.watch(cmd.Context(), args[0], interval, count, fields)
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 30*time.Second, "polling interval")
	cmd.Flags().DurationVar(&fade, "fade", animate.DefaultTransition, "fade transition length")
	cmd.Flags().IntVar(&count, "count", 0, "stop after this many polls (0 = until interrupted)")
	return cmd
}

func newWatchedFields(out io.Writer, fade time.Duration) []*watchedField {
	fields := make([]*watchedField, 0, len(heroFields))
	for _, hf := range heroFields {
		f := &watchedField{
			name:    hf.name,
			extract: hf.extract,
			subject: animate.NewSubject(""),
		}
		f.fader = animate.NewFader(
			animate.WithDuration(fade),
			animate.OnPhase(func(p animate.Phase) {
				fmt.Fprintf(out, "[%s] %s\n", f.name, p)
			}),
		)
		f.unbind = animate.Bind(f.subject, f.fader, func(v string) {
			fmt.Fprintf(out, "%s: %s\n", f.name, v)
		})
		fields = append(fields, f)
	}
	return fields
}

// watch は interval ごとにヒーロー欄を取得し、変化した項目だけを反映します
// 取得に失敗した回はログに残して次の周期を待ちます
func (a *app) watch(ctx context.Context, key string, interval time.Duration, count int, fields []*watchedField) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for polls := 0; count <= 0 || polls < count; polls++ {
		if polls > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}

		hero, err := a.heroes.GetHero(ctx, key)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			a.logger.Warn("failed to fetch hero", zap.String("key", key), zap.Error(err))
			continue
		}
		for _, f := range fields {
			f.subject.Set(f.extract(hero))
		}
	}
	return nil
}
