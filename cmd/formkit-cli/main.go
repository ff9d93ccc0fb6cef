package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/classforge/formkit"
	"github.com/classforge/formkit/pkg/catalog"
	"github.com/classforge/formkit/pkg/openapi"
	"github.com/classforge/formkit/pkg/render"
	"github.com/classforge/formkit/pkg/renderers/html"
	"github.com/classforge/formkit/pkg/renderers/tui"
	"github.com/classforge/formkit/pkg/resolver"
	"github.com/classforge/formkit/pkg/store"
	"github.com/classforge/formkit/pkg/store/memory"
	"github.com/classforge/formkit/pkg/store/schemafs"
	"github.com/classforge/formkit/pkg/store/sqlite"
	"github.com/classforge/formkit/pkg/testsupport"
)

func main() {
	key := flag.String("key", "student_form", "schema key to render")
	rendererName := flag.String("renderer", "html", "renderer to use (html or tui)")
	schemasDir := flag.String("schemas", "", "directory of JSON/YAML schema documents")
	dbPath := flag.String("db", "", "SQLite database path (overrides -schemas)")
	output := flag.String("output", "", "output file (stdout if empty)")
	importPath := flag.String("import", "", "OpenAPI document to import a schema from")
	operationID := flag.String("operation", "", "operation id used with -import")
	list := flag.Bool("list", false, "list stored schema keys and exit")
	flag.Parse()

	ctx := context.Background()

	gw, err := buildGateway(ctx, *schemasDir, *dbPath)
	if err != nil {
		log.Fatalf("Failed to open schema store: %v", err)
	}

	if *importPath != "" {
		if err := importSchema(ctx, gw, *importPath, *operationID); err != nil {
			log.Fatalf("Failed to import schema: %v", err)
		}
		return
	}

	if *list {
		listKeys(ctx, gw)
		return
	}

	// The cascade lookup is backed by canned demo data; swap in a live
	// OptionLookup when embedding the engine.
	cascade := resolver.New(testsupport.SchoolLookup())

	registry := formkit.NewRegistry()
	htmlRenderer, err := html.New(html.WithResolver(cascade))
	if err != nil {
		log.Fatalf("Failed to build html renderer: %v", err)
	}
	registry.MustRegister(htmlRenderer)

	tuiRenderer, err := tui.New(tui.WithResolver(cascade))
	if err != nil {
		log.Fatalf("Failed to build tui renderer: %v", err)
	}
	registry.MustRegister(tuiRenderer)

	out, err := formkit.RenderStored(ctx, gw, registry, *key, *rendererName, render.Options{})
	if err != nil {
		log.Fatalf("Failed to render form: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, out, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Form written to %s\n", *output)
	} else {
		fmt.Println(string(out))
	}
}

func buildGateway(ctx context.Context, schemasDir, dbPath string) (store.Gateway, error) {
	switch {
	case dbPath != "":
		db, err := sqlite.Open(dbPath)
		if err != nil {
			return nil, err
		}
		gw := sqlite.New(db, sqlite.WithSynthesizer(catalog.ByKey))
		if err := gw.Init(ctx); err != nil {
			return nil, err
		}
		return gw, nil
	case schemasDir != "":
		return schemafs.New(schemasDir, schemafs.WithSynthesizer(catalog.ByKey))
	default:
		return memory.New(memory.WithSynthesizer(catalog.ByKey)), nil
	}
}

func importSchema(ctx context.Context, gw store.Gateway, path, operationID string) error {
	if operationID == "" {
		return fmt.Errorf("-operation is required with -import")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	doc, err := openapi.Import(ctx, data, operationID)
	if err != nil {
		return err
	}
	if err := gw.Save(ctx, doc); err != nil {
		return err
	}
	fmt.Printf("Imported %s as %s (%d fields)\n", operationID, doc.Key, len(doc.Fields))
	return nil
}

func listKeys(ctx context.Context, gw store.Gateway) {
	lister, ok := gw.(interface {
		Keys(ctx context.Context) ([]string, error)
	})
	if !ok {
		for _, key := range catalog.Keys() {
			fmt.Println(key)
		}
		return
	}
	keys, err := lister.Keys(ctx)
	if err != nil {
		log.Fatalf("Failed to list keys: %v", err)
	}
	for _, key := range keys {
		fmt.Println(key)
	}
}
