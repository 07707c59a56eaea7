package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"storefront/pkg/domain/model"
	"storefront/pkg/domain/service"
	"storefront/pkg/infrastructure/config"
	"storefront/pkg/infrastructure/eventlog"
	"storefront/pkg/infrastructure/mysql"
	"storefront/pkg/infrastructure/report"
	"storefront/pkg/transport"
)

func main() {
	app := &cli.App{
		Name:  "storefront",
		Usage: "StrideZero storefront API and tools",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env-file", Usage: "dotenv file to load before reading the environment"},
		},
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			catalogCommand(),
			quoteCommand(),
			loginCommand(),
			registerCommand(),
			logoutCommand(),
			whoamiCommand(),
			reportCommand(),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.WithError(err).Fatal("storefront failed")
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	var files []string
	if f := c.String("env-file"); f != "" {
		files = append(files, f)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return nil, err
	}
	setupLogging(cfg)
	return cfg, nil
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API and the order delivery worker",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "listen address (overrides STOREFRONT_HTTP_ADDR)"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if addr := c.String("addr"); addr != "" {
				cfg.HTTPAddr = addr
			}

			sf, err := buildStorefront(c.Context, cfg)
			if err != nil {
				return err
			}
			defer sf.Close()

			router := transport.Router(sf.services, transport.Options{
				DefaultCountry: cfg.Country(),
				CORSOrigins:    cfg.CORSOrigins,
				AssistantRate:  rate.Limit(cfg.AssistantRate),
				AssistantBurst: cfg.AssistantBurst,
			})
			srv := &http.Server{
				Addr:              cfg.HTTPAddr,
				Handler:           router,
				ReadHeaderTimeout: 5 * time.Second,
				IdleTimeout:       120 * time.Second,
			}

			g, ctx := errgroup.WithContext(c.Context)
			g.Go(func() error {
				log.WithFields(log.Fields{"url": cfg.HTTPAddr, "policy": cfg.ConfirmationPolicy}).Info("Starting server")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					return errors.Wrap(err, "listen")
				}
				return nil
			})
			g.Go(func() error {
				// The worker drains what was accepted before shutdown.
				return sf.queue.Run(context.WithoutCancel(ctx))
			})
			g.Go(func() error {
				<-ctx.Done()
				log.Info("Shutting down...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
				defer cancel()
				err := srv.Shutdown(shutdownCtx)
				sf.queue.Close()
				return err
			})
			return g.Wait()
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply the order_submissions schema to MySQL",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "down", Usage: "roll back the latest migration"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			db, err := openDatabase(c.Context, cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if c.Bool("down") {
				if err := mysql.Rollback(db); err != nil {
					return err
				}
				log.Info("rolled back latest migration")
				return nil
			}
			if err := mysql.Migrate(db); err != nil {
				return err
			}
			log.Info("migrations applied")
			return nil
		},
	}
}

func catalogCommand() *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "list products matching a filter",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "category"},
			&cli.StringFlag{Name: "color"},
			&cli.Float64Flag{Name: "min-price"},
			&cli.Float64Flag{Name: "max-price"},
			&cli.BoolFlag{Name: "sale"},
			&cli.StringFlag{Name: "sort", Value: string(model.SortFeatured), Usage: "featured, price-asc or price-desc"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			catalog, err := loadCatalog(cfg)
			if err != nil {
				return err
			}

			var criteria model.FilterCriteria
			if c.Bool("sale") {
				criteria = criteria.WithSaleOnly()
			} else if cat := c.String("category"); cat != "" {
				criteria = criteria.WithCategory(cat)
			}
			criteria.Color = c.String("color")
			if c.IsSet("min-price") {
				criteria.MinPriceCents = dollarsToCents(c.Float64("min-price"))
			}
			if c.IsSet("max-price") {
				criteria = criteria.WithMaxPrice(dollarsToCents(c.Float64("max-price")))
			}
			sortKey, err := model.ParseSortKey(c.String("sort"))
			if err != nil {
				return err
			}

			catalogs := service.NewCatalogService(catalog, service.NewPricingResolver(nil), time.Now)
			products, err := catalogs.Browse(criteria, sortKey)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tSALE")
			for _, p := range products {
				sale := ""
				if p.OnSale() {
					sale = "was " + model.FormatCents(p.OriginalPriceCents)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Category, model.FormatCents(p.PriceCents), sale)
			}
			return tw.Flush()
		},
	}
}

func quoteCommand() *cli.Command {
	return &cli.Command{
		Name:      "quote",
		Usage:     "price a subtotal for a country",
		ArgsUsage: "<subtotal>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "country", Aliases: []string{"c"}, Value: string(model.US)},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("quote needs exactly one subtotal argument", 2)
			}
			var subtotal float64
			if _, err := fmt.Sscan(c.Args().First(), &subtotal); err != nil || subtotal < 0 {
				return cli.Exit("subtotal must be a non-negative amount", 2)
			}

			totals := service.NewPricingResolver(nil).Resolve(dollarsToCents(subtotal), model.ParseCountry(c.String("country")))
			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "Country\t%s\n", totals.Country)
			fmt.Fprintf(tw, "Subtotal\t%s\n", model.FormatCents(totals.SubtotalCents))
			fmt.Fprintf(tw, "Shipping\t%s\n", model.FormatCents(totals.ShippingCents))
			fmt.Fprintf(tw, "Tax (%s)\t%s\n", totals.TaxRate.String(), model.FormatCents(totals.TaxCents))
			fmt.Fprintf(tw, "Total\t%s\n", model.FormatCents(totals.TotalCents))
			return tw.Flush()
		},
	}
}

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "sign in and store the session locally",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true},
		},
		Action: func(c *cli.Context) error {
			identity, err := cliIdentity(c)
			if err != nil {
				return err
			}
			user, err := identity.Login(c.String("email"), c.String("password"))
			if err != nil {
				return err
			}
			return printJSON(user)
		},
	}
}

func registerCommand() *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "create an account and store the session locally",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Required: true},
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true},
		},
		Action: func(c *cli.Context) error {
			identity, err := cliIdentity(c)
			if err != nil {
				return err
			}
			user, err := identity.Register(c.String("name"), c.String("email"), c.String("password"))
			if err != nil {
				return err
			}
			return printJSON(user)
		},
	}
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "clear the stored session",
		Action: func(c *cli.Context) error {
			identity, err := cliIdentity(c)
			if err != nil {
				return err
			}
			return identity.Logout()
		},
	}
}

func whoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "show the signed-in user",
		Action: func(c *cli.Context) error {
			identity, err := cliIdentity(c)
			if err != nil {
				return err
			}
			user, err := identity.CurrentUser()
			if err != nil {
				return err
			}
			if user == nil {
				fmt.Println("not signed in")
				return nil
			}
			return printJSON(user)
		},
	}
}

func reportCommand() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "generate the demo sales report",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "pdf", Usage: "write a PDF to this path instead of printing JSON"},
			&cli.Int64Flag{Name: "seed", Usage: "random seed (default: current time)"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			catalog, err := loadCatalog(cfg)
			if err != nil {
				return err
			}

			seed := time.Now().UnixNano()
			if c.IsSet("seed") {
				seed = c.Int64("seed")
			}
			sales := service.NewReportGenerator(catalog, rand.New(rand.NewSource(seed)), time.Now).Generate()

			path := c.String("pdf")
			if path == "" {
				return printJSON(sales)
			}
			pdf, err := report.RenderPDF(sales)
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, pdf, 0o644); err != nil {
				return errors.Wrap(err, "write report")
			}
			log.WithField("path", path).Info("sales report written")
			return nil
		},
	}
}

func cliIdentity(c *cli.Context) (service.IdentityService, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	return newIdentity(cfg, eventlog.NewLogDispatcher(log.StandardLogger())), nil
}

func dollarsToCents(amount float64) int64 {
	return model.CentsFromFloat(amount)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
