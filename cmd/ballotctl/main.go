// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/ballot"
	"github.com/danielhkuo/ballotbox/client"
	"github.com/danielhkuo/ballotbox/keys"
)

const usage = `usage: ballotctl <command> [flags]

commands:
  keygen    generate the authority key pair
  vote      seal and submit a ballot
  register  register an identity at the login portal
  tally     print the running tally`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "keygen":
		err = keygen(args)
	case "vote":
		err = vote(ctx, args)
	case "register":
		err = register(ctx, args)
	case "tally":
		err = printTally(ctx, args)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		slog.Error("ballotctl failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func keygen(args []string) error {
	fs := flag.NewFlagSet("keygen", flag.ContinueOnError)
	name := fs.String("name", "Election Authority", "Key owner name")
	email := fs.String("email", "", "Key owner email")
	out := fs.String("out", ".", "Output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := keys.GenerateAuthority(*name, *email)
	if err != nil {
		return err
	}
	pubPath, privPath, err := a.WriteFiles(*out)
	if err != nil {
		return err
	}

	slog.Info("Key pair written", "public", pubPath, "private", privPath)
	return nil
}

func vote(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("vote", flag.ContinueOnError)
	server := fs.String("server", "http://localhost:7879", "Voting server URL")
	party := fs.String("party", "None", "Party name")
	candidate := fs.String("candidate", "None", "Candidate name")
	nonce := fs.Uint64("nonce", 0, "Ballot nonce (random when 0)")
	timeout := fs.Duration("timeout", 30*time.Second, "Request timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	n := *nonce
	if n == 0 {
		var err error
		if n, err = auth.GenerateNonce(); err != nil {
			return err
		}
	}

	c := client.New(*server)
	pub, err := c.PublicKey(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch public key: %w", err)
	}

	sealed, err := client.Seal(pub, ballot.Ballot{Nonce: n, Party: *party, Candidate: *candidate})
	if err != nil {
		return err
	}
	if err := c.Vote(ctx, sealed); err != nil {
		return err
	}

	slog.Info("Ballot submitted", "nonce", n)
	return nil
}

func register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	portal := fs.String("portal", "http://localhost:7878", "Login portal URL")
	identity := fs.String("identity", "", "Voter identity (eID)")
	keyFile := fs.String("key", "", "Voter public key file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *identity == "" || *keyFile == "" {
		return errors.New("-identity and -key are required")
	}

	pub, err := keys.NewFileSource(*keyFile).PublicKey()
	if err != nil {
		return err
	}

	id, existing, err := client.New(*portal).Register(ctx, *identity, pub)
	if err != nil {
		return err
	}

	slog.Info("Voter registered", "voter_id", id, "existing", existing)
	return nil
}

func printTally(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tally", flag.ContinueOnError)
	server := fs.String("server", "http://localhost:7879", "Voting server URL")
	if err := fs.Parse(args); err != nil {
		return err
	}

	t, err := client.New(*server).Tally(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(t)
}
