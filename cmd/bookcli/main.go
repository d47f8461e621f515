// bookcli replays a line-oriented event script through a BookCore and
// prints top-of-book transitions as they happen.
//
// Script lines:
//
//	NEW id user SIDE price qty
//	MARKET id user SIDE qty
//	CANCEL id
//	MODIFY id price qty
//
// SIDE is BID or ASK.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kestrel-markets/lobengine/internal/book"
	"github.com/kestrel-markets/lobengine/pkg/config"
	"github.com/kestrel-markets/lobengine/pkg/logging"
	"github.com/kestrel-markets/lobengine/pkg/ratelimit"
)

var (
	scriptPath   = flag.String("script", "", "path to an event script (defaults to stdin)")
	configPath   = flag.String("config", "", "path to a YAML config file")
	printDefault = flag.Bool("print-config", false, "print the default configuration and exit")
)

func main() {
	flag.Parse()

	if *printDefault {
		out, err := config.DumpDefault()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Print(out)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	logging.Setup(logging.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty, Output: os.Stderr})

	bc := newBookFromConfig(cfg)
	limiter := ratelimit.New(cfg.RateLimit.EventsPerSecond, cfg.RateLimit.Burst)

	in := os.Stdin
	if *scriptPath != "" {
		f, err := os.Open(*scriptPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *scriptPath).Msg("bookcli: cannot open script")
		}
		defer f.Close()
		in = f
	}

	run(bc, limiter, in)
}

func newBookFromConfig(cfg config.Config) *book.BookCore {
	minTick, maxTick := book.Tick(cfg.Book.MinTick), book.Tick(cfg.Book.MaxTick)
	if cfg.Book.Ladder == config.LadderSparse {
		return book.NewBookCore(book.NewSparseLevels(book.Bid), book.NewSparseLevels(book.Ask))
	}
	return book.NewBookCore(book.NewContiguousLevels(book.Bid, minTick, maxTick), book.NewContiguousLevels(book.Ask, minTick, maxTick))
}

func run(bc *book.BookCore, limiter *ratelimit.Limiter, in *os.File) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	scanner := bufio.NewScanner(in)
	ts := book.Timestamp(0)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if err := limiter.Wait(context.Background()); err != nil {
			log.Error().Err(err).Msg("bookcli: rate limiter wait failed")
			continue
		}

		ts++
		fields := strings.Fields(line)
		prevBid, prevAsk := bc.Bids().Best(), bc.Asks().Best()

		if err := apply(bc, fields, ts); err != nil {
			red.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}

		if bid, ask := bc.Bids().Best(), bc.Asks().Best(); bid != prevBid || ask != prevAsk {
			bold.Printf("top-of-book: ")
			green.Printf("bid=%s ", tickStr(bid, book.MinTick))
			red.Printf("ask=%s\n", tickStr(ask, book.MaxTick))
		}
	}
}

func tickStr(px, empty book.Tick) string {
	if px == empty {
		return "--"
	}
	return strconv.FormatInt(int64(px), 10)
}

func apply(bc *book.BookCore, fields []string, ts book.Timestamp) error {
	if len(fields) == 0 {
		return fmt.Errorf("empty line")
	}

	switch fields[0] {
	case "NEW":
		if len(fields) != 6 {
			return fmt.Errorf("NEW id user SIDE price qty")
		}
		id, user, side, err := parseIdentity(fields[1], fields[2], fields[3])
		if err != nil {
			return err
		}
		price, err := strconv.ParseInt(fields[4], 10, 64)
		if err != nil {
			return err
		}
		qty, err := strconv.ParseInt(fields[5], 10, 64)
		if err != nil {
			return err
		}
		bc.SubmitLimit(book.NewOrder{TS: ts, ID: id, User: user, Side: side, Price: book.Tick(price), Qty: book.Quantity(qty)})
	case "MARKET":
		if len(fields) != 5 {
			return fmt.Errorf("MARKET id user SIDE qty")
		}
		id, user, side, err := parseIdentity(fields[1], fields[2], fields[3])
		if err != nil {
			return err
		}
		qty, err := strconv.ParseInt(fields[4], 10, 64)
		if err != nil {
			return err
		}
		bc.SubmitMarket(book.NewOrder{TS: ts, ID: id, User: user, Side: side, Qty: book.Quantity(qty)})
	case "CANCEL":
		if len(fields) != 2 {
			return fmt.Errorf("CANCEL id")
		}
		id, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return err
		}
		bc.Cancel(book.OrderId(id))
	case "MODIFY":
		if len(fields) != 4 {
			return fmt.Errorf("MODIFY id price qty")
		}
		id, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return err
		}
		price, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return err
		}
		qty, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			return err
		}
		bc.Modify(book.ModifyOrder{ID: book.OrderId(id), NewPrice: book.Tick(price), NewQty: book.Quantity(qty), TS: ts})
	default:
		return fmt.Errorf("unknown command %q", fields[0])
	}
	return nil
}

func parseIdentity(idField, userField, sideField string) (book.OrderId, book.UserId, book.Side, error) {
	id, err := strconv.ParseUint(idField, 10, 64)
	if err != nil {
		return 0, 0, 0, err
	}
	user, err := strconv.ParseUint(userField, 10, 64)
	if err != nil {
		return 0, 0, 0, err
	}
	side, err := parseSide(sideField)
	if err != nil {
		return 0, 0, 0, err
	}
	return book.OrderId(id), book.UserId(user), side, nil
}

func parseSide(s string) (book.Side, error) {
	switch strings.ToUpper(s) {
	case "BID", "BUY":
		return book.Bid, nil
	case "ASK", "SELL":
		return book.Ask, nil
	default:
		return 0, fmt.Errorf("unknown side %q", s)
	}
}
