package cli

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Sanjarbek-2007/Tech-House/internal/catalog"
	"github.com/Sanjarbek-2007/Tech-House/internal/config"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	Dataset    string
	Categories []string
	Brands     []string
	Badges     []string
	Features   []string
	Search     string
	Rating     float64
	MinPrice   int64
	MaxPrice   int64
	Sort       string
	Page       int
	Limit      int
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Filter, sort and page the catalog",
		Long: `Run the catalog query engine and print one result page.

Repeated flags are ORed within a group; groups are ANDed.

Examples:
  techhouse query --category "Kitchen Appliances" --sort price-asc
  techhouse query --brand LG --brand Midea --feature Inverter --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.Dataset, "dataset", "", "catalog dataset file (.yaml or .json); defaults to CATALOG_DATASET_PATH or the built-in catalog")
	f.StringArrayVar(&opts.Categories, "category", nil, "category to include (repeatable)")
	f.StringArrayVar(&opts.Brands, "brand", nil, "brand to include (repeatable)")
	f.StringArrayVar(&opts.Badges, "badge", nil, "badge label to include (repeatable)")
	f.StringArrayVar(&opts.Features, "feature", nil, "feature keyword (repeatable)")
	f.StringVarP(&opts.Search, "search", "s", "", "case-insensitive search in name, description and brand")
	f.Float64Var(&opts.Rating, "rating", 0, "minimum rating")
	f.Int64Var(&opts.MinPrice, "min-price", 0, "minimum price")
	f.Int64Var(&opts.MaxPrice, "max-price", 0, "maximum price")
	f.StringVar(&opts.Sort, "sort", string(catalog.SortPopularity), "sort mode (popular|price-asc|price-desc|new)")
	f.IntVar(&opts.Page, "page", 1, "page number")
	f.IntVar(&opts.Limit, "limit", 0, "page size; defaults to CATALOG_PAGE_SIZE")

	return cmd
}

// values converts the flags to the query parameters the engine decodes,
// so the CLI and the HTTP API share one parser.
func (o *QueryOptions) values(cmd *cobra.Command) url.Values {
	v := url.Values{}
	v[catalog.ParamCategory] = o.Categories
	v[catalog.ParamBrand] = o.Brands
	v[catalog.ParamBadge] = o.Badges
	v[catalog.ParamFeature] = o.Features
	v.Set(catalog.ParamSearch, o.Search)
	v.Set(catalog.ParamSort, o.Sort)
	v.Set(catalog.ParamPage, strconv.Itoa(o.Page))

	f := cmd.Flags()
	if f.Changed("rating") {
		v.Set(catalog.ParamRating, strconv.FormatFloat(o.Rating, 'f', -1, 64))
	}
	if f.Changed("min-price") {
		v.Set(catalog.ParamMinPrice, strconv.FormatInt(o.MinPrice, 10))
	}
	if f.Changed("max-price") {
		v.Set(catalog.ParamMaxPrice, strconv.FormatInt(o.MaxPrice, 10))
	}
	if o.Limit > 0 {
		v.Set(catalog.ParamLimit, strconv.Itoa(o.Limit))
	}
	return v
}

func runQuery(cmd *cobra.Command, opts *QueryOptions) error {
	cfg, cat, err := loadCatalog(opts.Dataset)
	if err != nil {
		return err
	}
	base := catalog.NewState(cfg.Catalog.PageSize, cfg.Catalog.PriceCeiling)
	st := catalog.StateFromQuery(opts.values(cmd), base, cfg.Catalog.PriceCeiling)
	res := cat.Query(st)

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), res)
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), renderResult(res))
	return err
}

// FacetsOptions holds flags for the facets command.
type FacetsOptions struct {
	*RootOptions
	Dataset string
}

// NewFacetsCommand creates the facets command.
func NewFacetsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FacetsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "facets",
		Short: "Show filter values with catalog-wide counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cat, err := loadCatalog(opts.Dataset)
			if err != nil {
				return err
			}
			fc := cat.Facets()
			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), fc)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), renderFacets(fc))
			return err
		},
	}

	cmd.Flags().StringVar(&opts.Dataset, "dataset", "", "catalog dataset file (.yaml or .json)")

	return cmd
}

// loadCatalog reads the configuration and the dataset; a --dataset flag
// wins over CATALOG_DATASET_PATH.
func loadCatalog(dataset string) (*config.Config, *catalog.Catalog, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("error loading configuration: %w", err)
	}
	if dataset == "" {
		dataset = cfg.Catalog.DatasetPath
	}
	cat, err := catalog.LoadFile(dataset)
	if err != nil {
		return nil, nil, err
	}
	return cfg, cat, nil
}
