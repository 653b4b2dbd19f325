// Command portfolio_cli prints a one-shot portfolio dashboard to the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"portfolio_dashboard/internal/app/account"
	"portfolio_dashboard/internal/app/portfolio"
	"portfolio_dashboard/internal/app/resolver"
	"portfolio_dashboard/internal/app/view"
	"portfolio_dashboard/internal/domain/entity"
	"portfolio_dashboard/internal/infrastructure/configloader"
	"portfolio_dashboard/internal/infrastructure/datasource"
	"portfolio_dashboard/internal/infrastructure/termview"
	"portfolio_dashboard/internal/infrastructure/walletloader"
	"portfolio_dashboard/internal/pkg/logger"
	"portfolio_dashboard/internal/pkg/solanaaddr"
)

type options struct {
	configPath  string
	address     string
	walletsFile string
	detail      bool
	style       string
	width       int
	rawMarkdown bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "path to config.yml (defaults to $CONFIG_PATH or config/config.yml)")
	flag.StringVar(&opts.address, "address", "", "wallet address to show")
	flag.StringVar(&opts.walletsFile, "wallets", "", "file with one wallet address per line; shows each of them")
	flag.BoolVar(&opts.detail, "detail", false, "show the account page (balance, token accounts, transactions)")
	flag.StringVar(&opts.style, "style", termview.StyleAuto, "glamour style: auto, dark, light or notty")
	flag.IntVar(&opts.width, "width", 100, "word wrap width, 0 disables wrapping")
	flag.BoolVar(&opts.rawMarkdown, "markdown", false, "print markdown without terminal styling")
	flag.Parse()

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.Warnf("Failed to load .env file: %v", err)
	}
	if opts.configPath == "" {
		opts.configPath = configloader.GetEnv("CONFIG_PATH", "config/config.yml")
	}

	logger.ConfigureLogrus("warn")
	cfg, err := configloader.Load(opts.configPath)
	if err != nil {
		return err
	}

	// The terminal is for the dashboard; keep logs to warnings on stderr.
	zapLogger, err := zap.NewDevelopment(zap.IncreaseLevel(zap.WarnLevel))
	if err != nil {
		return fmt.Errorf("failed to initialize zap logger: %w", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	source, err := datasource.FromConfig(cfg, zapLogger, nil)
	if err != nil {
		return err
	}
	validator := solanaaddr.NewValidator()

	var addresses []entity.Address
	if opts.walletsFile != "" {
		addresses, err = walletloader.NewWalletFileLoader(opts.walletsFile, validator, zapLogger).GetWallets()
		if err != nil {
			return err
		}
	} else {
		res := resolver.New(validator, zapLogger, nil, time.Minute)
		addr, found, err := res.ResolveString(opts.address)
		if err != nil {
			return err
		}
		if found {
			addresses = append(addresses, addr)
		}
	}

	fetchTimeout := time.Duration(cfg.Portfolio.FetchTimeoutMillis) * time.Millisecond
	pages := make([]string, 0, len(addresses)+1)
	if len(addresses) == 0 {
		md, err := renderOne(context.Background(), cfg, source, zapLogger, "", opts.detail, fetchTimeout)
		if err != nil {
			return err
		}
		pages = append(pages, md)
	}
	for _, addr := range addresses {
		md, err := renderOne(context.Background(), cfg, source, zapLogger, addr, opts.detail, fetchTimeout)
		if err != nil {
			return err
		}
		pages = append(pages, md)
	}

	md := strings.Join(pages, "\n---\n\n")
	if opts.rawMarkdown {
		fmt.Print(md)
		return nil
	}
	out, err := termview.Render(md, opts.style, opts.width)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

// renderOne produces the markdown for a single address. An empty address
// renders the disconnected dashboard.
func renderOne(
	ctx context.Context,
	cfg *configloader.Config,
	source datasource.Source,
	zapLogger *zap.Logger,
	addr entity.Address,
	detail bool,
	fetchTimeout time.Duration,
) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout+time.Second)
	defer cancel()

	if detail {
		if addr == "" {
			return "# " + view.AccountErrorText + "\n", nil
		}
		d := account.NewService(source, zapLogger, cfg.Solana.SignatureLimit).Load(ctx, addr)
		return termview.AccountMarkdown(view.BuildAccount(d, cfg.Solana.Cluster)), nil
	}

	agg := portfolio.NewAggregator(source, zapLogger, nil, portfolio.WithFetchTimeout(fetchTimeout))
	defer agg.Close()
	if addr != "" {
		agg.Connect(addr.Account())
	}
	state, err := agg.Wait(ctx)
	if err != nil {
		return "", fmt.Errorf("waiting for portfolio of %s: %w", addr, err)
	}
	return termview.DashboardMarkdown(view.Build(state, cfg.Solana.Cluster)), nil
}
