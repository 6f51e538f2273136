// Command marketctl drives the marketplace API from a terminal: submit an
// offer, accept it and see the sale through to a completed transaction.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"usedgoods-market/internal/client"
	"usedgoods-market/internal/config"
	"usedgoods-market/internal/domain"
	"usedgoods-market/internal/finalize"
	"usedgoods-market/internal/logger"
	"usedgoods-market/internal/security"
)

const usage = `usage: marketctl [flags] <command> [args]

commands:
  offer <listing_id> <amount>   submit an offer as the token's user
  accept <offer_id>             accept an offer and complete the resulting transaction
  reject <offer_id>             reject an offer
  finalize <offer_id>           complete the transaction created for an accepted offer
  token <user_id> <email>       mint an access token with the configured secret
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("marketctl", flag.ContinueOnError)
	configPath := fs.String("config", "config/config.dev.yaml", "Path to configuration file")
	baseURL := fs.String("url", "http://localhost:8080", "API base URL")
	token := fs.String("token", os.Getenv("MARKET_TOKEN"), "Bearer token (defaults to $MARKET_TOKEN)")
	fs.Usage = func() { fmt.Fprint(fs.Output(), usage); fs.PrintDefaults() }
	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return errors.New("missing command")
	}

	cmd, rest := rest[0], rest[1:]
	if cmd == "token" {
		return mintToken(*configPath, rest, out)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)

	c := client.New(*baseURL, *token)
	coord := finalize.NewCoordinator(c, c, cfg.Finalize.Attempts, cfg.FinalizeInterval())

	switch cmd {
	case "offer":
		if len(rest) != 2 {
			return errors.New("offer needs <listing_id> <amount>")
		}
		listingID, err := parseID(rest[0])
		if err != nil {
			return err
		}
		amount, err := domain.ParseAmount(rest[1])
		if err != nil {
			return err
		}
		offerID, err := c.SubmitOffer(ctx, listingID, amount)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "offer %d submitted\n", offerID)
		return nil

	case "accept":
		offerID, err := oneID(rest)
		if err != nil {
			return err
		}
		return acceptAndFinalize(ctx, c, coord, offerID, out)

	case "reject":
		offerID, err := oneID(rest)
		if err != nil {
			return err
		}
		if _, err := c.SetOfferStatus(ctx, offerID, domain.OfferStatusRejected); err != nil {
			return err
		}
		fmt.Fprintf(out, "offer %d rejected\n", offerID)
		return nil

	case "finalize":
		offerID, err := oneID(rest)
		if err != nil {
			return err
		}
		tx, err := coord.Finalize(ctx, 0, offerID)
		if err != nil {
			return err
		}
		printTransaction(out, tx)
		return nil
	}

	fs.Usage()
	return fmt.Errorf("unknown command %q", cmd)
}

// acceptAndFinalize completes the new transaction directly when the server
// reports its id, and falls back to polling by offer otherwise.
func acceptAndFinalize(ctx context.Context, c *client.Client, coord *finalize.Coordinator, offerID int32, out io.Writer) error {
	res, err := c.SetOfferStatus(ctx, offerID, domain.OfferStatusAccepted)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s\n", res.Message)
	if len(res.RejectedOfferIDs) > 0 {
		fmt.Fprintf(out, "rejected competing offers: %v\n", res.RejectedOfferIDs)
	}

	var tx *domain.Transaction
	if res.TransactionID != nil {
		tx, err = coord.FinalizeKnown(ctx, 0, *res.TransactionID)
	} else {
		tx, err = coord.Finalize(ctx, 0, offerID)
	}
	if err != nil {
		return err
	}
	printTransaction(out, tx)
	return nil
}

func mintToken(configPath string, args []string, out io.Writer) error {
	if len(args) != 2 {
		return errors.New("token needs <user_id> <email>")
	}
	userID, err := parseID(args[0])
	if err != nil {
		return err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	tok, err := security.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenTTL()).GenerateAccessToken(userID, args[1])
	if err != nil {
		return err
	}
	fmt.Fprintln(out, tok)
	return nil
}

func printTransaction(out io.Writer, tx *domain.Transaction) {
	fmt.Fprintf(out, "transaction %d %s: %s\n", tx.ID, tx.Status, domain.FormatAmount(tx.Amount))
}

func oneID(args []string) (int32, error) {
	if len(args) != 1 {
		return 0, errors.New("expected exactly one id")
	}
	return parseID(args[0])
}

func parseID(s string) (int32, error) {
	id, err := strconv.ParseInt(s, 10, 32)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return int32(id), nil
}
