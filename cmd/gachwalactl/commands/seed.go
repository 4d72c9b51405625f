package commands

import (
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/gachwala/storefront/internal/seed"
	"github.com/gachwala/storefront/internal/service"
)

var (
	categoriesFile string
	productsFile   string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace all categories and products from JSON files",
	Long: `Drop every category and product and insert the contents of two JSON
arrays. Orders are untouched. Cached product entries are flushed when Redis
is reachable.

Examples:
  gachwalactl seed --categories data/categories.json --products data/products.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		catalog, err := seed.ReadFiles(categoriesFile, productsFile)
		if err != nil {
			return err
		}

		cfg, backend, err := openBackend(ctx)
		if err != nil {
			return err
		}
		defer backend.Close(ctx)

		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		var cache *redis.Client
		if err := redisClient.Ping(ctx).Err(); err != nil {
			slog.Warn("redis unreachable, product cache not flushed", "error", err)
		} else {
			cache = redisClient
		}

		products := service.NewProductService(backend.Store.Products, cache)
		res, err := seed.NewImporter(backend.Store, products, slog.Default()).Import(ctx, catalog)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "inserted %d categories and %d products\n", res.Categories, res.Products)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&categoriesFile, "categories", "data/categories.json", "Categories JSON file")
	seedCmd.Flags().StringVar(&productsFile, "products", "data/products.json", "Products JSON file")
	rootCmd.AddCommand(seedCmd)
}
