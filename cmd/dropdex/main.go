package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dropdex/internal/catalog"
	"dropdex/internal/config"
	"dropdex/internal/report"
	"dropdex/internal/resolve"
	"dropdex/internal/scrape"
	"dropdex/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	cmd := os.Args[1]
	switch cmd {
	case "data:fetch":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		only := fs.String("only", "", "comma-separated dataset names")
		_ = fs.Parse(os.Args[2:])
		var names []string
		if strings.TrimSpace(*only) != "" {
			names = strings.Split(*only, ",")
		}
		svc := catalog.NewFetchService(db, cfg)
		count, err := svc.FetchAll(context.Background(), names)
		must(err)
		cached, err := db.ListDatasets()
		must(err)
		lastFetch, err := db.GetMetadata("datasets.last_fetch")
		must(err)
		summary := map[string]any{"fetched": count, "cached": cached}
		if lastFetch != nil {
			summary["lastFetch"] = *lastFetch
		}
		printJSON(summary)
	case "resolve":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		_ = fs.Parse(os.Args[2:])
		dataDir := fs.Arg(0)
		if dataDir == "" {
			dataDir = cfg.DataDir
		}
		svc := resolve.NewService(db, cfg)
		res, err := svc.Run(dataDir)
		must(err)
		printJSON(res)
	case "resolve:names":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		_ = fs.Parse(os.Args[2:])
		input := fs.Arg(0)
		if input == "" {
			input = filepath.Join(cfg.DataDir, "wiki-rows.ndjson")
		}
		if _, err := os.Stat(input); err != nil {
			fmt.Fprintf(os.Stderr, "error: missing input: %s\n", input)
			os.Exit(2)
		}
		svc := resolve.NewService(db, cfg)
		res, err := svc.RunNames(cfg.DataDir, input)
		must(err)
		printJSON(res)
	case "resolve:sources-table":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		_ = fs.Parse(os.Args[2:])
		svc := resolve.NewService(db, cfg)
		res, err := svc.RunSourcesTable(cfg.DataDir, fs.Arg(0))
		must(err)
		printJSON(res)
	case "validate":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		_ = fs.Parse(os.Args[2:])
		dataDir := fs.Arg(0)
		if dataDir == "" {
			dataDir = cfg.DataDir
		}
		svc := resolve.NewService(db, cfg)
		completeness, err := svc.ValidateArtifacts(dataDir)
		must(err)
		printJSON(map[string]any{"integrity": "ok", "completenessDefects": completeness})
	case "wiki:scrape":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		out := fs.String("out", "", "output ndjson path")
		_ = fs.Parse(os.Args[2:])
		input := fs.Arg(0)
		if input == "" {
			must(fmt.Errorf("input html path is required"))
		}
		f, err := os.Open(input)
		must(err)
		rows, err := scrape.ScrapeTables(f, filepath.Base(input))
		_ = f.Close()
		must(err)
		outPath := *out
		if outPath == "" {
			outPath = filepath.Join(cfg.DataDir, "wiki-rows.ndjson")
		}
		must(os.MkdirAll(filepath.Dir(outPath), 0o755))
		w, err := os.Create(outPath)
		must(err)
		err = scrape.WriteNDJSON(rows, w)
		_ = w.Close()
		must(err)
		fmt.Printf("scraped %d rows to %s\n", len(rows), outPath)
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		trace := fs.String("trace", "", "run trace id")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*trace) == "" || strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--trace and --out are required"))
		}
		records, err := db.ListUnresolved(*trace)
		must(err)
		if len(records) == 0 {
			must(fmt.Errorf("no unresolved records for trace=%s", *trace))
		}
		must(report.ExportUnresolvedXLSX(records, *out))
		fmt.Printf("exported %d rows to %s\n", len(records), *out)
	default:
		usage()
		os.Exit(1)
	}
}

func printJSON(v any) {
	blob, _ := json.Marshal(v)
	fmt.Println(string(blob))
}

func usage() {
	fmt.Println("usage: dropdex <command>")
	fmt.Println("commands:")
	fmt.Println("  data:fetch [--only=missionRewards,...]")
	fmt.Println("  resolve [dataDir]")
	fmt.Println("  resolve:names [rows.ndjson]")
	fmt.Println("  resolve:sources-table [sourcesTable.json]")
	fmt.Println("  validate [dataDir]")
	fmt.Println("  wiki:scrape [--out=rows.ndjson] page.html")
	fmt.Println("  export:xlsx --trace=<id> --out=./out/unresolved.xlsx")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
