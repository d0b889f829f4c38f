package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/goccy/go-json"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/minhloc/listquery/admin"
	"github.com/minhloc/listquery/core/query"
	"github.com/minhloc/listquery/core/schema"
	"github.com/minhloc/listquery/sqlite"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// envPrefix scopes the environment variables that mirror the global flags,
// e.g. LISTQUERY_DB or LISTQUERY_LOG_FILE.
const envPrefix = "LISTQUERY"

type rootOptions struct {
	dbPath  string
	verbose bool
	logFile string
}

type listOptions struct {
	search   string
	filters  []string
	ranges   []string
	sort     string
	desc     bool
	page     int
	pageSize int
	asJSON   bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	v := viper.New()
	var configFile string

	cmd := &cobra.Command{
		Use:   "listquery",
		Short: "Query the MinhLoc admin console list screens",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := bindFlags(v, cmd.Root().PersistentFlags(), "db", "verbose", "log-file"); err != nil {
				return err
			}
			if configFile != "" {
				v.SetConfigFile(configFile)
				if err := v.ReadInConfig(); err != nil {
					return fmt.Errorf("failed to read config %s: %w", configFile, err)
				}
			}
			opts.dbPath = v.GetString("db")
			opts.verbose = v.GetBool("verbose")
			opts.logFile = v.GetString("log-file")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	flags := cmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "YAML, JSON or TOML file with db, verbose and log-file settings")
	flags.String("db", "", "SQLite database file; the in-memory demo data is used when empty")
	flags.BoolP("verbose", "v", false, "Log query execution at debug level")
	flags.String("log-file", "", "Write logs as JSON to this file, rotating it when it grows")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd.AddCommand(newScreensCmd(), newListCmd(opts), newSeedCmd(opts))

	// Errors are reported by main.
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return cmd
}

// bindFlags makes the named flags the highest-precedence source of their
// viper keys.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, names ...string) error {
	for _, name := range names {
		flag := flags.Lookup(name)
		if flag == nil {
			return fmt.Errorf("unknown flag %q", name)
		}
		if err := v.BindPFlag(name, flag); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

// newLogger logs to a rotating file when --log-file is set, to stderr under
// --verbose, and nowhere otherwise.
func newLogger(opts *rootOptions) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if opts.verbose {
		level = zapcore.DebugLevel
	}
	if opts.logFile != "" {
		encoderConfig := zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		writer := zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		})
		core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), writer, level)
		return zap.New(core, zap.AddCaller()), nil
	}
	if !opts.verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}

func newScreensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "screens",
		Short: "List the available screens and their controls",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SCREEN\tTITLE\tCOLLECTION\tFILTERS\tRANGES")
			for _, s := range admin.Screens() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", s.Name, s.Title, s.Collection(),
					strings.Join(s.Facets, ","), strings.Join(s.Ranges, ","))
			}
			return w.Flush()
		},
	}
}

func newSeedCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the console tables in --db and fill them with demo data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if root.dbPath == "" {
				return fmt.Errorf("seed requires --db")
			}
			logger, err := newLogger(root)
			if err != nil {
				return err
			}
			defer logger.Sync()

			store, closeDB, err := openStore(root.dbPath, logger)
			if err != nil {
				return err
			}
			defer closeDB()

			n, err := admin.SeedStore(cmd.Context(), store, admin.SeedRecords())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Inserted %d records into %s\n", n, root.dbPath)
			return nil
		},
	}
}

func newListCmd(root *rootOptions) *cobra.Command {
	opts := &listOptions{}
	cmd := &cobra.Command{
		Use:   "list <screen>",
		Short: "Show one page of a screen",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := opts.request()
			if err != nil {
				return err
			}
			logger, err := newLogger(root)
			if err != nil {
				return err
			}
			defer logger.Sync()

			console, closeConsole, err := openConsole(cmd.Context(), root, logger)
			if err != nil {
				return err
			}
			defer closeConsole()

			screen, err := console.Screen(args[0])
			if err != nil {
				return err
			}
			page, err := console.List(cmd.Context(), screen.Name, req)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), page)
			}
			return writeTable(cmd.OutOrStdout(), screen, page)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.search, "search", "s", "", "Free-text search over the screen's search fields")
	flags.StringArrayVarP(&opts.filters, "filter", "f", nil, "Filter as field=value; repeat or separate values with commas")
	flags.StringArrayVarP(&opts.ranges, "range", "r", nil, "Numeric range as field=min:max; either bound may be empty")
	flags.StringVar(&opts.sort, "sort", "", "Sort field; the screen default order is used when empty")
	flags.BoolVar(&opts.desc, "desc", false, "Sort in descending order")
	flags.IntVarP(&opts.page, "page", "p", 1, "Page number, starting at 1")
	flags.IntVar(&opts.pageSize, "page-size", 0, "Items per page; 0 uses the screen default")
	flags.BoolVar(&opts.asJSON, "json", false, "Print the page as JSON")
	return cmd
}

func (o *listOptions) request() (admin.ListRequest, error) {
	facets, err := parseFilters(o.filters)
	if err != nil {
		return admin.ListRequest{}, err
	}
	ranges, err := parseRanges(o.ranges)
	if err != nil {
		return admin.ListRequest{}, err
	}
	return admin.ListRequest{
		Search:    o.search,
		Facets:    facets,
		Ranges:    ranges,
		SortField: o.sort,
		SortDesc:  o.desc,
		Page:      o.page,
		PageSize:  o.pageSize,
	}, nil
}

// parseFilters turns field=value pairs into facet selections. Repeated fields
// accumulate values.
func parseFilters(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	facets := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		field, value, ok := strings.Cut(pair, "=")
		field = strings.TrimSpace(field)
		if !ok || field == "" {
			return nil, fmt.Errorf("invalid filter %q, expected field=value", pair)
		}
		if prev, seen := facets[field]; seen {
			value = prev + "," + value
		}
		facets[field] = value
	}
	return facets, nil
}

// parseRanges turns field=min:max pairs into ranges.
func parseRanges(pairs []string) (map[string]query.Range, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	ranges := make(map[string]query.Range, len(pairs))
	for _, pair := range pairs {
		field, bounds, ok := strings.Cut(pair, "=")
		field = strings.TrimSpace(field)
		if !ok || field == "" {
			return nil, fmt.Errorf("invalid range %q, expected field=min:max", pair)
		}
		lo, hi, ok := strings.Cut(bounds, ":")
		if !ok {
			return nil, fmt.Errorf("invalid range %q, expected field=min:max", pair)
		}
		var r query.Range
		var err error
		if r.Min, err = parseBound(lo); err != nil {
			return nil, fmt.Errorf("invalid range %q: %w", pair, err)
		}
		if r.Max, err = parseBound(hi); err != nil {
			return nil, fmt.Errorf("invalid range %q: %w", pair, err)
		}
		ranges[field] = r
	}
	return ranges, nil
}

func parseBound(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not a number", raw)
	}
	return &f, nil
}

func openStore(path string, logger *zap.Logger) (*sqlite.Store, func(), error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			logger.Warn("Error closing database connection", zap.Error(err))
		}
	}
	return sqlite.NewStore(db, logger, nil), closeDB, nil
}

// openConsole serves the demo data from memory, or from the --db file after
// seeding any empty tables.
func openConsole(ctx context.Context, root *rootOptions, logger *zap.Logger) (*admin.Console, func(), error) {
	if root.dbPath == "" {
		sources, err := admin.MemorySources(admin.SeedRecords())
		if err != nil {
			return nil, nil, err
		}
		console, err := admin.NewConsole(sources, logger)
		return console, func() {}, err
	}

	store, closeDB, err := openStore(root.dbPath, logger)
	if err != nil {
		return nil, nil, err
	}
	if _, err := admin.SeedStore(ctx, store, admin.SeedRecords()); err != nil {
		closeDB()
		return nil, nil, err
	}
	console, err := admin.NewConsole(admin.StoreSources(store), logger)
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	return console, closeDB, nil
}

func writeJSON(w io.Writer, page *query.ResultPage[schema.Document]) error {
	b, err := json.MarshalIndent(page, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal page: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func writeTable(w io.Writer, screen admin.Screen, page *query.ResultPage[schema.Document]) error {
	fields := screen.Schema.FieldNames()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = strings.ToUpper(f)
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, doc := range page.Items {
		cells := make([]string, len(fields))
		for i, f := range fields {
			cells[i] = formatCell(doc[f])
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%s: page %d of %d, %d matching\n", screen.Title, page.Page, page.PageCount, page.TotalMatching)
	aliases := make([]string, 0, len(page.Aggregations))
	for alias := range page.Aggregations {
		aliases = append(aliases, alias)
	}
	slices.Sort(aliases)
	for _, alias := range aliases {
		fmt.Fprintf(w, "  %s: %s\n", alias, formatCell(page.Aggregations[alias]))
	}
	return nil
}

func formatCell(v any) string {
	switch t := v.(type) {
	case nil:
		return "-"
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case time.Time:
		return t.Format("2006-01-02 15:04")
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			parts[i] = formatCell(item)
		}
		return strings.Join(parts, ",")
	}
	return fmt.Sprint(v)
}
