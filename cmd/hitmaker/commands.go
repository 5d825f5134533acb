package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/talgya/hitmaker/internal/api"
	"github.com/talgya/hitmaker/internal/config"
	"github.com/talgya/hitmaker/internal/engine"
	"github.com/talgya/hitmaker/internal/llm"
	"github.com/talgya/hitmaker/internal/world"
)

func newCmd(rt *config.Runtime) *cobra.Command {
	var name, genre string

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create an artist and a fresh world",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, db, err := openSession(cmd.Context(), rt, false)
			if err != nil {
				return err
			}
			defer db.Close()

			sv, err := sess.NewGame(cmd.Context(), world.Artist{Name: name, Genre: world.Genre(genre)})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) signed on %s with $%s.\n",
				sv.Artist.Name, sv.Artist.Handle, sv.State.Date, humanize.Comma(sv.State.Money))
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "artist name")
	cmd.Flags().StringVarP(&genre, "genre", "g", string(world.GenrePop), "artist genre")
	cmd.MarkFlagRequired("name")
	return cmd
}

func advanceCmd(rt *config.Runtime) *cobra.Command {
	var weeks int

	cmd := &cobra.Command{
		Use:   "advance",
		Short: "Simulate one or more weeks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, db, err := openSession(cmd.Context(), rt, true)
			if err != nil {
				return err
			}
			defer db.Close()

			out := cmd.OutOrStdout()
			for i := 0; i < weeks; i++ {
				res, err := sess.Advance(cmd.Context())
				if err != nil {
					return fmt.Errorf("week %d: %w", i+1, err)
				}
				fmt.Fprintln(out, summaryLine(res.Summary))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&weeks, "weeks", "n", 1, "number of weeks to simulate")
	return cmd
}

func chartsCmd(rt *config.Runtime) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "charts [key]",
		Short: "Print a chart (default HOT_100)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, db, err := openSession(cmd.Context(), rt, true)
			if err != nil {
				return err
			}
			defer db.Close()

			key := world.ChartHot100
			if len(args) == 1 {
				key = world.ChartKey(strings.ToUpper(args[0]))
			}
			sv, err := sess.Snapshot()
			if err != nil {
				return err
			}
			entries, ok := sv.State.ActiveCharts[key]
			if !ok {
				return fmt.Errorf("unknown chart %q", key)
			}
			fmt.Fprintln(cmd.OutOrStdout(), titleStyle.Render(fmt.Sprintf("%s  %s", key, sv.State.Date)))
			fmt.Fprintln(cmd.OutOrStdout(), renderChart(entries, limit))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "rows to show")
	return cmd
}

func statusCmd(rt *config.Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the artist's current numbers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, db, err := openSession(cmd.Context(), rt, true)
			if err != nil {
				return err
			}
			defer db.Close()

			sv, err := sess.Snapshot()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderStatus(sv))
			return nil
		},
	}
}

func serveCmd(rt *config.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP/WebSocket API, optionally advancing weeks on a timer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sess, db, err := openSession(ctx, rt, false)
			if err != nil {
				return err
			}
			defer db.Close()

			srv := api.NewServer(sess, rt.CORSOrigins)
			srv.Port = rt.Port
			srv.AdminKey = rt.AdminKey
			srv.LLM = llm.NewClient(rt.AnthropicKey)
			srv.DB = db

			if rt.TickSeconds > 0 {
				eng := engine.NewEngine(sess, time.Duration(rt.TickSeconds)*time.Second)
				srv.Eng = eng
				go eng.Run(ctx)
			}
			return srv.Run(ctx)
		},
	}
	cmd.Flags().IntVarP(&rt.Port, "port", "p", rt.Port, "HTTP server port")
	cmd.Flags().IntVar(&rt.TickSeconds, "tick", rt.TickSeconds, "seconds per simulated week (0 = manual advance only)")
	return cmd
}

func summaryLine(s engine.Summary) string {
	rank := "-"
	if s.BestRank > 0 {
		rank = fmt.Sprintf("#%d", s.BestRank)
	}
	return fmt.Sprintf("%-22s streams %12s  sales %9s  income $%10s  hype %4.0f  best %4s  money $%s",
		s.Date, humanize.Comma(s.Streams), humanize.Comma(s.Sales), humanize.Comma(s.Income),
		s.Hype, rank, humanize.Comma(s.Money))
}
