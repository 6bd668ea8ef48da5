package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lalith-99/skillswap/internal/auth"
	"github.com/lalith-99/skillswap/internal/browse"
	"github.com/lalith-99/skillswap/internal/config"
	"github.com/lalith-99/skillswap/internal/observ"
)

type browseFlags struct {
	api     string
	tag     string
	showOwn bool
	user    string
	token   string
	timeout time.Duration
	asJSON  bool
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return newRootCmd(cfg).ExecuteContext(ctx)
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	var f browseFlags
	root := &cobra.Command{
		Use:   "browse",
		Short: "List other people's skill listings",
		Long: `Fetches listings from the listings API and prints them.
Your own listings are hidden unless --show-own is set; who "you" are comes
from --user or from an identity token (--token, checked with JWT_SECRET).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBrowse(cmd.Context(), cfg, f)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	flags := root.Flags()
	flags.StringVar(&f.api, "api", cfg.ListingsAPIURL, "listings API base URL")
	flags.StringVarP(&f.tag, "tag", "t", "", "only listings with this exact tag")
	flags.BoolVar(&f.showOwn, "show-own", false, "include your own listings")
	flags.StringVarP(&f.user, "user", "u", "", "your user id")
	flags.StringVar(&f.token, "token", "", "identity token to read your user id from")
	flags.DurationVar(&f.timeout, "timeout", browse.DefaultTimeout, "request timeout")
	flags.BoolVar(&f.asJSON, "json", false, "print the raw result as JSON")

	root.AddCommand(newTokenCmd(cfg))
	return root
}

func newTokenCmd(cfg *config.Config) *cobra.Command {
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Issue an identity token for a user id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := auth.GenerateToken(args[0], cfg.JWTSecret, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}

func runBrowse(ctx context.Context, cfg *config.Config, f browseFlags) error {
	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	userID := f.user
	if f.token != "" {
		claims, err := auth.ParseToken(f.token, cfg.JWTSecret)
		if err != nil {
			return fmt.Errorf("read identity token: %w", err)
		}
		userID = claims.UserID
	}

	b := browse.New(browse.NewClient(f.api, f.timeout), browse.Static(userID), logger)
	logger.Debug("loading listings",
		zap.String("api", f.api),
		zap.String("tag", f.tag),
		zap.Bool("show_own", f.showOwn),
	)

	if !f.asJSON {
		if err := browse.Render(os.Stderr, browse.Loading()); err != nil {
			return err
		}
	}
	res, ok := b.Load(ctx, browse.Options{Tag: f.tag, ShowOwn: f.showOwn})
	if !ok {
		return ctx.Err()
	}

	if f.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	return browse.Render(os.Stdout, res)
}
