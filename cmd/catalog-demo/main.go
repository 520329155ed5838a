package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-catalog-cache/catalog"
	"github.com/goliatone/go-catalog-cache/internal/config"
	"github.com/goliatone/go-catalog-cache/internal/seed"
	"github.com/goliatone/go-catalog-cache/pkg/di"
	"github.com/goliatone/go-catalog-cache/query"
)

func main() {
	configFile := flag.String("config", "", "path to a catalog.yaml file")
	count := flag.Int("seed", seed.DefaultCount, "sample items to generate when the catalog is empty")
	flag.Parse()

	if err := run(context.Background(), *configFile, *count); err != nil {
		fmt.Fprintf(os.Stderr, "catalog-demo: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configFile string, count int) error {
	var opts []config.LoadOption
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		return err
	}
	cfg.Seed.Enabled = true
	cfg.Seed.Count = count

	container, err := di.NewContainer(ctx, *cfg)
	if err != nil {
		return err
	}
	defer container.Close()

	logger := container.Logger()
	svc := container.Service()

	created, err := container.Seed(ctx)
	if err != nil {
		return err
	}
	logger.Info().Int("created", created).Str("driver", cfg.Store.Driver).Msg("catalog ready")

	fmt.Println("=== Read-through caching ===")
	industry := seed.IndustryID("Technology")
	for i := 1; i <= 2; i++ {
		start := time.Now()
		items, err := svc.FindByIndustry(ctx, industry)
		if err != nil {
			return err
		}
		fmt.Printf("  FindByIndustry(Technology) call %d: %d items in %v\n", i, len(items), time.Since(start))
	}

	fmt.Println("=== Filtered, counted pagination ===")
	minRating := 3.0
	available := catalog.Available
	spec, err := query.NewPageSpec(0, 5, query.Descending(query.FieldRating))
	if err != nil {
		return err
	}
	res, err := svc.FilterPaged(ctx, query.Criteria{MinRating: &minRating, AvailabilityStatus: &available}, spec)
	if err != nil {
		return err
	}
	fmt.Printf("  %d matches over %d pages\n", res.TotalElements, res.TotalPages)
	for _, it := range res.Content {
		fmt.Printf("  - %-28s rating %.1f price %s\n", it.Title, it.Rating, it.Price.StringFixed(2))
	}

	fmt.Println("=== Update keeps caches coherent ===")
	first, err := svc.ListAll(ctx, spec)
	if err != nil {
		return err
	}
	if len(first) > 0 {
		target := first[0]
		if _, err := svc.FindByPublicID(ctx, target.PublicID); err != nil {
			return err
		}
		title := target.Title + " (updated)"
		if _, err := svc.Update(ctx, target.PublicID, catalog.Patch{Title: &title}); err != nil {
			return err
		}
		reread, err := svc.FindByPublicID(ctx, target.PublicID)
		if err != nil {
			return err
		}
		fmt.Printf("  %s -> %s\n", target.Title, reread.Title)
	}

	fmt.Println("=== Cache statistics ===")
	for _, s := range container.Caches().Stats() {
		fmt.Printf("  %-10s hits=%d misses=%d loads=%d joins=%d evictions=%d hit-ratio=%.2f\n",
			s.Name, s.Hits, s.Misses, s.Loads, s.Joins, s.Evictions, s.HitRatio())
	}

	registry := prometheus.NewRegistry()
	if err := registry.Register(container.Collector("catalog")); err != nil {
		return err
	}
	families, err := registry.Gather()
	if err != nil {
		return err
	}
	fmt.Printf("  exported %d metric families\n", len(families))
	return nil
}
