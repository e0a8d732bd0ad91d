package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"go.uber.org/zap"

	"storefront/internal/commerce"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/importer"
	"storefront/internal/logging"
	"storefront/internal/money"
	"storefront/internal/repository/product"
)

func main() {
	var (
		filePath string
		save     bool
	)
	flag.StringVar(&filePath, "file", "", "Path to catalog CSV")
	flag.BoolVar(&save, "save", false, "Upsert products into the catalog_products table (needs DB_DSN)")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatal("open file", zap.Error(err))
	}
	defer f.Close()

	ctx := context.Background()
	start := time.Now()

	var (
		writer   importer.ProductWriter
		imported []commerce.Product
	)
	collector := &importer.Collector{}
	writer = collector
	if save {
		if cfg.DBConnString == "" {
			logger.Fatal("-save needs DB_DSN")
		}
		pool, err := db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			logger.Fatal("connect db", zap.Error(err))
		}
		defer pool.Close()
		writer = teeWriter{product.NewPostgres(pool, logger), collector}
	}

	count, err := importer.NewCSVImporter(f, writer).Run(ctx)
	if err != nil {
		logger.Fatal("import failed", zap.Error(err))
	}
	imported = collector.Products

	summarize(imported)
	verb := "Validated"
	if save {
		verb = "Imported"
	}
	fmt.Printf("%s %d products in %s\n", verb, count, time.Since(start).Truncate(time.Millisecond))
}

type teeWriter []importer.ProductWriter

func (t teeWriter) Upsert(ctx context.Context, p commerce.Product) error {
	for _, w := range t {
		if err := w.Upsert(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func summarize(products []commerce.Product) {
	types := map[string]int{}
	variants := 0
	for _, wire := range products {
		p := commerce.TransformProduct(wire)
		types[p.ProductType]++
		variants += len(p.Variants)
		fmt.Printf("  %-40s %-14s %s\n", p.Handle, p.ProductType, money.PriceRangeText(p))
	}
	names := make([]string, 0, len(types))
	for name := range types {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%s: %d\n", name, types[name])
	}
	fmt.Printf("%d variants\n", variants)
}
