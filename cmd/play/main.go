// Command play runs a game of Connect Four in the terminal.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/iamasit07/connect4-engine/internal/domain"
	"github.com/iamasit07/connect4-engine/internal/service/bot"
	"github.com/iamasit07/connect4-engine/internal/service/game"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	depth := flag.Int("depth", bot.DefaultDepth, "engine search depth in plies")
	enginePlayer := flag.Int("engine", int(domain.Player2), "which player the engine plays (1 or 2)")
	twoPlayer := flag.Bool("two-player", false, "two humans share the board; type 'hint' for an engine move")
	verbose := flag.Bool("v", false, "log engine searches")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	mode := game.ModeVsEngine
	if *twoPlayer {
		mode = game.ModeTwoPlayer
	}
	svc := game.NewService(bot.NewPlayer(nil, 0), game.Options{
		Mode:         mode,
		EnginePlayer: domain.PlayerID(*enginePlayer),
		Depth:        *depth,
	})

	if err := run(context.Background(), svc, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, svc *game.Service, in io.Reader, out io.Writer) error {
	session, err := svc.NewGame(ctx, game.Options{})
	if err != nil {
		return err
	}
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprintln(out, session.Game.Board.String())

		outcome := session.CheckOutcome()
		if outcome.IsFinished() {
			if outcome.Status == domain.StatusWon {
				fmt.Fprintf(out, "%s wins!\n", symbol(outcome.Winner))
			} else {
				fmt.Fprintln(out, "Draw.")
			}
			fmt.Fprint(out, "Play again? [y/N] ")
			if !scanner.Scan() || !strings.HasPrefix(strings.ToLower(strings.TrimSpace(scanner.Text())), "y") {
				return nil
			}
			if _, err := svc.Restart(ctx, session.ID); err != nil {
				return err
			}
			continue
		}

		fmt.Fprintf(out, "%s to move, column (0-%d), 'hint' or 'quit': ", symbol(session.Snapshot().Turn), domain.Columns-1)
		if !scanner.Scan() {
			return scanner.Err()
		}
		input := strings.ToLower(strings.TrimSpace(scanner.Text()))

		switch input {
		case "quit", "q":
			return nil
		case "hint":
			if session.Options.Mode != game.ModeTwoPlayer {
				fmt.Fprintln(out, "Hints are only available in two-player mode.")
				continue
			}
			move, err := session.PlayEngine(ctx)
			if err != nil {
				fmt.Fprintln(out, "error:", err)
				continue
			}
			fmt.Fprintf(out, "Engine plays column %d for %s\n", move.Column, symbol(move.Player))
			continue
		}

		column, err := strconv.Atoi(input)
		if err != nil {
			fmt.Fprintln(out, "Please enter a column number.")
			continue
		}
		moves, err := session.PlayTurn(ctx, column)
		if err != nil && len(moves) == 0 {
			fmt.Fprintln(out, "error:", err)
			continue
		}
		for _, m := range moves[1:] {
			fmt.Fprintf(out, "Engine plays column %d\n", m.Column)
		}
		if err != nil {
			return err
		}
	}
}

func symbol(p domain.PlayerID) string {
	switch p {
	case domain.Player1:
		return "X"
	case domain.Player2:
		return "O"
	}
	return "."
}
