// Command headline-search runs a tag search over the headline dataset.
// Usage: headline-search "tag" [--from DATE] [--to DATE] [--output text|json]
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"headline-desk/internal/config"
	"headline-desk/internal/domain/entity"
	"headline-desk/internal/handler/http/respond"
	pgRepo "headline-desk/internal/infra/adapter/persistence/postgres"
	"headline-desk/internal/infra/dataset"
	"headline-desk/internal/infra/db"
	"headline-desk/internal/observability/logging"
	"headline-desk/internal/repository"
	hlUC "headline-desk/internal/usecase/headline"
)

const usage = `Usage: headline-search "tag" [--from DATE] [--to DATE] [--output text|json]

DATE is YYYY-MM-DD or DD-MM-YYYY. Each bound defaults to the matches' own range.

Examples:
  headline-search "ચૂંટણી"
  headline-search "ચૂંટણી" --from 2024-01-01 --to 2024-03-31
  headline-search "cricket" --output json`

type options struct {
	tag    string
	from   *time.Time
	to     *time.Time
	output string
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env: %v\n", err)
	}

	opts, err := parseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		}
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	logger := logging.NewCLILogger()
	slog.SetDefault(logger)

	if err := run(opts, os.Stdout); err != nil {
		logger.Error("search failed", slog.String("error", respond.SanitizeError(err)))
		if errors.Is(err, hlUC.ErrEmptyTag) {
			fmt.Fprintln(os.Stderr, msgEnterTag)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", respond.SanitizeError(err))
		os.Exit(1)
	}
}

// parseArgs accepts the tag before or after the flags.
func parseArgs(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("headline-search", flag.ContinueOnError)
	fs.SetOutput(stderr)
	from := fs.String("from", "", "start date, YYYY-MM-DD or DD-MM-YYYY")
	to := fs.String("to", "", "end date, YYYY-MM-DD or DD-MM-YYYY")
	output := fs.String("output", "text", "output format: text or json")

	var positional []string
	for len(args) > 0 {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) > 0 {
			positional = append(positional, args[0])
			args = args[1:]
		}
	}
	if len(positional) != 1 {
		return nil, errors.New("exactly one tag is required")
	}

	opts := &options{tag: positional[0], output: strings.ToLower(*output)}
	if opts.output != "text" && opts.output != "json" {
		return nil, fmt.Errorf("invalid output %q: must be text or json", *output)
	}
	var err error
	if opts.from, err = parseDate("from", *from); err != nil {
		return nil, err
	}
	if opts.to, err = parseDate("to", *to); err != nil {
		return nil, err
	}
	return opts, nil
}

func parseDate(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.DateOnly, entity.DateLayout} {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid --%s %q: must be YYYY-MM-DD or DD-MM-YYYY", name, value)
}

func run(opts *options, stdout io.Writer) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg, err := config.LoadDatasetConfig()
	if err != nil {
		return err
	}

	var repo repository.HeadlineRepository
	if cfg.Source == config.SourcePostgres {
		var database *sql.DB
		if database, err = db.Open(ctx, ""); err != nil {
			return err
		}
		defer func() { _ = database.Close() }()
		repo = pgRepo.NewHeadlineRepo(database)
	}

	loader, err := dataset.New(cfg, repo)
	if err != nil {
		return err
	}
	svc := hlUC.NewService(loader, nil, nil)
	if _, err := svc.Reload(ctx); err != nil {
		return err
	}

	res, err := svc.Search(ctx, hlUC.Query{Tag: opts.tag, From: opts.from, To: opts.to})
	if err != nil {
		return err
	}

	if opts.output == "json" {
		return writeJSON(stdout, opts.tag, res)
	}
	return writeText(stdout, res)
}

// JSON output shapes.
type searchOutput struct {
	Tag      string          `json:"tag"`
	Count    int             `json:"count"`
	Total    int             `json:"total"`
	MinDate  string          `json:"min_date,omitempty"`
	MaxDate  string          `json:"max_date,omitempty"`
	Articles []articleOutput `json:"articles"`
}

type articleOutput struct {
	Headline    string `json:"headline"`
	FullText    string `json:"full_text"`
	ImageName   string `json:"image_name"`
	ArticleDate string `json:"article_date,omitempty"`
}

func writeJSON(w io.Writer, tag string, res *hlUC.Result) error {
	out := searchOutput{
		Tag:      strings.TrimSpace(tag),
		Count:    len(res.Articles),
		Total:    res.Total,
		MinDate:  isoDate(res.MinDate),
		MaxDate:  isoDate(res.MaxDate),
		Articles: make([]articleOutput, 0, len(res.Articles)),
	}
	for _, a := range res.Articles {
		out.Articles = append(out.Articles, articleOutput{
			Headline:    a.Headline,
			FullText:    a.FullText,
			ImageName:   a.ImageName,
			ArticleDate: isoDate(a.ArticleDate),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}

func isoDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.DateOnly)
}
