package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/benbjohnson/clock"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/weegigs/wee-store-go/journal"
	"github.com/weegigs/wee-store-go/samples/counter"
	"github.com/weegigs/wee-store-go/support"
)

const usage = `commands:
  +              increment
  -              decrement
  amount <text>  set the amount text
  add            add the amount
  async          add the amount after one second
  quit           exit`

func render(out io.Writer) counter.Renderer {
	return func(frame counter.Frame) {
		fmt.Fprintf(out, "[ - ]  %d  [ + ]    amount: %q\n", frame.Count, frame.AmountText)
	}
}

// session runs commands read from in against view until in is exhausted or
// quit is entered.
func session(ctx context.Context, view *counter.View, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		command, argument, _ := strings.Cut(line, " ")

		switch command {
		case "":
		case "+":
			view.Increment(ctx)
		case "-":
			view.Decrement(ctx)
		case "amount":
			view.SetAmountText(argument)
		case "add":
			view.AddAmount(ctx)
		case "async":
			view.AddAsync(ctx)
		case "quit", "exit":
			return nil
		default:
			fmt.Fprintln(out, usage)
		}
	}

	return pkgerrors.Wrap(scanner.Err(), "read command")
}

func run() error {
	cfg, err := support.LoadConfig()
	if err != nil {
		return pkgerrors.Wrap(err, "failed to load configuration")
	}

	logger := support.NewLogger(cfg)
	clk := clock.New()
	store := counter.NewStore(journal.NewMemoryJournal(), logger, clk)
	scheduler := counter.NewScheduler(clk, logger)

	fmt.Println(usage)
	view := counter.NewView(store, scheduler, render(os.Stdout))
	defer view.Close()

	if err := session(context.Background(), view, os.Stdin, os.Stdout); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*counter.AsyncDelay)
	defer cancel()

	return scheduler.Wait(ctx)
}

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("counter repl failed")
	}
}
