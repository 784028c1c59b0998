package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	copernicus "github.com/MrChebur/Copernicus-OData-wrapper"
)

// queryFlags are the filter and option flags shared by search and url.
type queryFlags struct {
	collection     string
	nameContains   string
	nameStartsWith string
	nameEndsWith   string
	publishedFrom  string
	publishedTo    string
	sensedFrom     string
	sensedTo       string
	exclusive      bool
	geometry       string
	attrs          []string
	orderBy        string
	top            int
	skip           int
	count          bool
	expand         []string
}

func (q *queryFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&q.collection, "collection", "", "Collection name, e.g. SENTINEL-2")
	fs.StringVar(&q.nameContains, "name-contains", "", "Product name contains text")
	fs.StringVar(&q.nameStartsWith, "name-startswith", "", "Product name starts with text")
	fs.StringVar(&q.nameEndsWith, "name-endswith", "", "Product name ends with text")
	fs.StringVar(&q.publishedFrom, "published-from", "", "Publication date lower bound (YYYY-MM-DD or RFC 3339)")
	fs.StringVar(&q.publishedTo, "published-to", "", "Publication date upper bound")
	fs.StringVar(&q.sensedFrom, "sensed-from", "", "Sensing date lower bound")
	fs.StringVar(&q.sensedTo, "sensed-to", "", "Sensing date upper bound")
	fs.BoolVar(&q.exclusive, "exclusive", false, "Use exclusive date bounds and exact times instead of whole days")
	fs.StringVar(&q.geometry, "geometry", "", "WKT geometry the footprint must intersect")
	fs.StringArrayVar(&q.attrs, "attr", nil, `Attribute predicate "name op value", e.g. "cloudCover le 20" (repeatable)`)
	fs.StringVar(&q.orderBy, "orderby", "", `Sort, e.g. "PublicationDate desc"`)
	fs.IntVar(&q.top, "top", -1, "Maximum products per page (0-1000)")
	fs.IntVar(&q.skip, "skip", -1, "Products to skip (0-10000)")
	fs.BoolVar(&q.count, "count", false, "Ask for the total count")
	fs.StringSliceVar(&q.expand, "expand", nil, "Expand Attributes and/or Assets")
}

// build turns the flags into query options.
func (q *queryFlags) build() (*copernicus.QueryOptions, error) {
	filter := copernicus.NewFilter()
	and := func() {
		if _, ok := filter.Body(); ok {
			filter.And()
		}
	}

	if q.collection != "" {
		and()
		filter.ByCollection(q.collection)
	}
	for _, s := range []struct {
		mode copernicus.SubstringMode
		text string
	}{
		{copernicus.ModeContains, q.nameContains},
		{copernicus.ModeStartsWith, q.nameStartsWith},
		{copernicus.ModeEndsWith, q.nameEndsWith},
	} {
		if s.text == "" {
			continue
		}
		and()
		if err := filter.SubstringSearch(s.text, s.mode); err != nil {
			return nil, err
		}
	}

	dateRange := copernicus.DateRange{Inclusive: !q.exclusive, FullDay: !q.exclusive}
	if q.publishedFrom != "" || q.publishedTo != "" {
		start, end, err := parseRange(q.publishedFrom, q.publishedTo)
		if err != nil {
			return nil, err
		}
		and()
		filter.ByPublicationDate(start, end, dateRange)
	}
	if q.sensedFrom != "" || q.sensedTo != "" {
		start, end, err := parseRange(q.sensedFrom, q.sensedTo)
		if err != nil {
			return nil, err
		}
		sensing := dateRange
		sensing.StartField, sensing.EndField = copernicus.ContentDateStart, copernicus.ContentDateEnd
		and()
		if err := filter.BySensingDate(start, end, sensing); err != nil {
			return nil, err
		}
	}
	if q.geometry != "" {
		and()
		if err := filter.ByGeometry(q.geometry); err != nil {
			return nil, err
		}
	}
	if len(q.attrs) > 0 {
		predicates := make([]string, 0, len(q.attrs))
		for _, a := range q.attrs {
			p, err := parseAttr(a)
			if err != nil {
				return nil, err
			}
			predicates = append(predicates, p)
		}
		and()
		filter.ByAttributes(predicates...)
	}

	opts := copernicus.NewQueryOptions()
	if _, ok := filter.Body(); ok {
		if err := opts.SetFilter(filter); err != nil {
			return nil, err
		}
	}
	if q.orderBy != "" {
		field, dir, err := parseOrderBy(q.orderBy)
		if err != nil {
			return nil, err
		}
		if err := opts.SetOrderBy(field, dir); err != nil {
			return nil, err
		}
	}
	// -1 is the flag default and leaves the option unset; any other value is checked.
	if q.top != -1 {
		if err := opts.SetTop(&q.top); err != nil {
			return nil, err
		}
	}
	if q.skip != -1 {
		if err := opts.SetSkip(&q.skip); err != nil {
			return nil, err
		}
	}
	opts.SetCount(q.count)

	var attributes, assets bool
	for _, e := range q.expand {
		switch strings.ToLower(strings.TrimSpace(e)) {
		case "attributes":
			attributes = true
		case "assets":
			assets = true
		default:
			return nil, fmt.Errorf("unknown --expand value %q: %w", e, copernicus.ErrInvalidArgument)
		}
	}
	opts.SetExpand(attributes, assets)

	return opts, nil
}

// parseRange parses both bounds; a missing bound takes the other one's value.
func parseRange(from, to string) (time.Time, time.Time, error) {
	if from == "" {
		from = to
	}
	if to == "" {
		to = from
	}
	start, err := parseTime(from)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseTime(to)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time %q: %w", s, copernicus.ErrInvalidArgument)
}

// parseAttr parses "name op value" into an attribute predicate, converting value to
// the attribute's kind.
func parseAttr(s string) (string, error) {
	parts := strings.SplitN(strings.TrimSpace(s), " ", 3)
	if len(parts) != 3 {
		return "", fmt.Errorf("attribute predicate %q is not \"name op value\": %w", s, copernicus.ErrInvalidArgument)
	}
	name, op, raw := parts[0], copernicus.FilterOperator(parts[1]), strings.TrimSpace(parts[2])

	attr, ok := copernicus.LookupAttribute(name)
	if !ok {
		return "", fmt.Errorf("unknown attribute %q: %w", name, copernicus.ErrInvalidArgument)
	}

	var value interface{}
	var err error
	switch attr.Kind() {
	case copernicus.KindString:
		value = strings.Trim(raw, "'")
	case copernicus.KindInteger:
		value, err = strconv.ParseInt(raw, 10, 64)
	case copernicus.KindDouble:
		value, err = strconv.ParseFloat(raw, 64)
	case copernicus.KindDateTimeOffset:
		value, err = parseTime(raw)
	}
	if err != nil {
		return "", fmt.Errorf("attribute %s value %q: %v: %w", name, raw, err, copernicus.ErrTypeMismatch)
	}
	return attr.Compare(op, value)
}

func parseOrderBy(s string) (copernicus.OrderByField, copernicus.Direction, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 2 {
		return "", copernicus.DirectionNone, fmt.Errorf("invalid --orderby %q: %w", s, copernicus.ErrInvalidArgument)
	}
	dir := copernicus.DirectionNone
	if len(fields) == 2 {
		switch strings.ToLower(fields[1]) {
		case "asc":
			dir = copernicus.Ascending
		case "desc":
			dir = copernicus.Descending
		default:
			return "", copernicus.DirectionNone, fmt.Errorf("invalid --orderby direction %q: %w", fields[1], copernicus.ErrInvalidArgument)
		}
	}
	return copernicus.OrderByField(fields[0]), dir, nil
}

var (
	searchQuery  queryFlags
	searchAll    bool
	searchSave   bool
	searchOutput string
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search products",
	Args:  cobra.NoArgs,
	RunE:  runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchQuery.register(searchCmd.Flags())
	searchCmd.Flags().BoolVar(&searchAll, "all", false, "Follow @odata.nextLink until every page is fetched")
	searchCmd.Flags().BoolVar(&searchSave, "save", false, "Archive the products found in the --store database")
	searchCmd.Flags().StringVarP(&searchOutput, "output", "o", "table", "Output format: table or json")
}

func runSearch(cmd *cobra.Command, args []string) error {
	opts, err := searchQuery.build()
	if err != nil {
		return err
	}
	if searchAll {
		opts.SetCount(true)
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	page, err := client.Send(ctx, opts)
	if err != nil {
		return err
	}
	products := page.Value
	total := page.Count

	if searchAll && page.HasNext() {
		expected := int64(-1)
		if total != nil {
			expected = *total
		}
		bar := progressbar.NewOptions64(expected,
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionSetDescription("Fetching products"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("products"),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionClearOnFinish(),
		)
		_ = bar.Add(len(page.Value))
		for page.HasNext() {
			page, err = client.Next(ctx, page)
			if err != nil {
				_ = bar.Exit()
				return err
			}
			products = append(products, page.Value...)
			_ = bar.Add(len(page.Value))
		}
		_ = bar.Finish()
	}

	if searchSave {
		if err := saveProducts(ctx, products); err != nil {
			return err
		}
	}

	if err := printProducts(cmd.OutOrStdout(), searchOutput, products, total); err != nil {
		return err
	}
	if !searchAll && page.HasNext() {
		logger.Info("More products available; use --all to fetch every page", "next", page.NextLink)
	}
	return nil
}

func saveProducts(ctx context.Context, products []copernicus.Product) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	n, err := s.Save(ctx, products)
	if err != nil {
		return err
	}
	logger.Info("Archived products", "count", n, "store", cfg.StoreDSN)
	return nil
}
