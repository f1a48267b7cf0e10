// The jobmail command checks a mailbox for messages from the
// organizations in a job application list and sorts them into
// application-lifecycle categories.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/matta/jobmail/internal/check"
	"github.com/matta/jobmail/internal/config"
	"github.com/matta/jobmail/internal/gmail"
	"github.com/matta/jobmail/internal/gmailhttp"
	"github.com/matta/jobmail/internal/homedir"
	"github.com/matta/jobmail/internal/imapmail"
	"github.com/matta/jobmail/internal/logger"
	"github.com/matta/jobmail/internal/orgs"
	"github.com/matta/jobmail/internal/report"
	"github.com/matta/jobmail/internal/review"
	"github.com/matta/jobmail/internal/tracehttp"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
)

var (
	flagTrace    = flag.Bool("T", false, "request debug tracing")
	flagConfig   = flag.String("config", "", "configuration `file` (default "+homedir.ConfigFile()+" when present)")
	flagOrgs     = flag.String("orgs", "", "organizations `file` (.xlsx, .csv or SQLite)")
	flagColumn   = flag.String("column", "", "column holding organization names")
	flagDays     = flag.Int("days", 0, "search the last `n` days")
	flagMax      = flag.Int("max", 0, "categorize at most `n` messages per organization")
	flagProvider = flag.String("provider", "", "mail provider: gmail or imap")
	flagReview   = flag.Bool("review", false, "review and correct categories after the report")
	flagTUI      = flag.Bool("tui", false, "review with terminal forms instead of line prompts")
)

func loadConfig() (*config.Config, error) {
	path := *flagConfig
	if path == "" {
		if _, err := os.Stat(homedir.ConfigFile()); err == nil {
			path = homedir.ConfigFile()
		}
	}
	cfg := config.Load()
	if path != "" {
		var err error
		if cfg, err = config.LoadFromFile(path); err != nil {
			return nil, err
		}
	}

	// Flags given on the command line beat the file and environment.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "orgs":
			cfg.Organizations.Path = *flagOrgs
		case "column":
			cfg.Organizations.Column = *flagColumn
		case "days":
			cfg.Search.WindowDays = *flagDays
		case "max":
			cfg.Search.MaxMessages = *flagMax
		case "provider":
			cfg.Provider = *flagProvider
		}
	})
	if *flagTrace {
		cfg.Logging.Level = "debug"
	}
	return cfg, cfg.Validate()
}

// openProvider authenticates with the configured mail provider.  The
// returned function releases it.
func openProvider(ctx context.Context, cfg *config.Config, in *bufio.Reader, log *zap.SugaredLogger) (check.MailProvider, func(), error) {
	switch cfg.Provider {
	case config.ProviderIMAP:
		m, err := imapmail.Dial(ctx, cfg.IMAP, log)
		if err != nil {
			return nil, nil, errors.Wrap(err, "unable to connect to IMAP")
		}
		return m, func() { m.Close() }, nil
	default:
		client, err := gmailhttp.New(ctx, cfg.Gmail, in, os.Stdout, log)
		if err != nil {
			return nil, nil, errors.Wrap(err, "unable to initialize GMail HTTP client")
		}
		s, err := gmail.New(ctx, log, option.WithHTTPClient(client))
		if err != nil {
			return nil, nil, errors.Wrap(err, "unable to initialize GMail")
		}
		return s, func() {}, nil
	}
}

type providerOpener func(ctx context.Context, cfg *config.Config, in *bufio.Reader, log *zap.SugaredLogger) (check.MailProvider, func(), error)

// prepare loads the organizations and only then calls open, so a bad
// or empty list stops the run before any mail is touched.
func prepare(ctx context.Context, cfg *config.Config, in *bufio.Reader, out io.Writer, log *zap.SugaredLogger, open providerOpener) ([]string, check.MailProvider, func(), error) {
	names, err := orgs.Load(ctx, cfg.Organizations)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "unable to load organizations")
	}
	if len(names) == 0 {
		return nil, nil, nil, errors.Errorf("no organizations found in %s; please update the file", cfg.Organizations.Path)
	}
	fmt.Fprintf(out, "Loaded %d companies to check.\n", len(names))

	provider, release, err := open(ctx, cfg, in, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return names, provider, release, nil
}

func run(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return errors.Wrap(err, "unable to load configuration")
	}
	log, err := logger.New(cfg.Logging.Level)
	if err != nil {
		return errors.Wrap(err, "unable to initialize logging")
	}
	defer log.Sync()

	if *flagTrace {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, tracehttp.Client(log))
	}

	fmt.Println("Starting Company Email Checker...")
	stdin := bufio.NewReader(os.Stdin)
	names, provider, release, err := prepare(ctx, cfg, stdin, os.Stdout, log, openProvider)
	if err != nil {
		return err
	}
	defer release()

	set := check.New(provider, cfg, time.Now(), os.Stdout, log).Run(ctx, names)
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "check interrupted")
	}

	opts := report.Options{WindowDays: cfg.Search.WindowDays, BodyChars: cfg.Report.BodyChars}
	if err := report.Render(os.Stdout, set, names, opts); err != nil {
		return errors.Wrap(err, "unable to write report")
	}

	if *flagReview && set.Len() > 0 {
		var p review.Prompter = review.NewLinePrompter(stdin, os.Stdout)
		if *flagTUI {
			p = review.FormPrompter{}
		}
		s := &review.Session{Prompter: p, Out: os.Stdout, PreviewChars: cfg.Report.PreviewChars}
		err := s.Review(set)
		if errors.Cause(err) == review.ErrAborted {
			log.Warnw("review abandoned; reporting the categories assigned so far")
		} else if err != nil {
			return errors.Wrap(err, "unable to review categories")
		}
		if err := report.Render(os.Stdout, set, names, opts); err != nil {
			return errors.Wrap(err, "unable to write report")
		}
	}

	fmt.Print("\nEmail check complete!\n")
	return nil
}

func main() {
	flag.Parse()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("Failed: %v\n", err)
	}
}
