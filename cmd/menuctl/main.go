// Command menuctl drives a running menu planner from the shell.
//
//	menuctl [-server URL] plan [-days 20250101,20250102]
//	menuctl [-server URL] regenerate 20250101
//	menuctl [-server URL] recompute [-id RECIPE_ID]
//	menuctl [-server URL] recipes [-tag lunch]
//	menuctl [-server URL] foods [-search milk] [-skip 0] [-limit 20]
//	menuctl [-server URL] delete recipe|food ID
//	menuctl [-server URL] import catalog.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"menu-planner/internal/client"
	"menu-planner/internal/core/recipe"
	"menu-planner/internal/pkg/common"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: menuctl [-server URL] [-timeout D] <plan|regenerate|recompute|recipes|foods|delete|import> [flags]\n")
	flag.PrintDefaults()
}

func main() {
	server := flag.String("server", envOr("MENU_API_URL", "http://localhost:3000"), "menu planner base URL")
	timeout := flag.Duration("timeout", 60*time.Second, "request timeout")
	verbose := flag.Bool("v", false, "log requests")
	flag.Usage = usage
	flag.Parse()

	level := "warn"
	if *verbose {
		level = "debug"
	}
	if err := common.InitLogger(level, ""); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	c := client.New(*server, *timeout)
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, c, flag.Arg(0), flag.Args()[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "menuctl: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, c *client.Client, cmd string, args []string) error {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)

	switch cmd {
	case "plan":
		days := fs.String("days", "", "comma-separated dates; empty plans the default range")
		fs.Parse(args)
		var dates []string
		if *days != "" {
			dates = strings.Split(*days, ",")
		}
		report, err := c.Menu(ctx, dates)
		if err != nil {
			return err
		}
		return printJSON(report)

	case "regenerate":
		fs.Parse(args)
		if fs.NArg() != 1 {
			return fmt.Errorf("regenerate takes exactly one date")
		}
		report, err := c.RegenerateDay(ctx, fs.Arg(0))
		if err != nil {
			return err
		}
		return printJSON(report)

	case "recompute":
		id := fs.String("id", "", "recipe id; empty recomputes every recipe")
		fs.Parse(args)
		if *id == "" {
			n, err := c.RecomputeAll(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("recomputed %d recipes\n", n)
			return nil
		}
		tree, err := c.RecomputeNutrition(ctx, *id)
		if err != nil {
			return err
		}
		return printJSON(tree)

	case "recipes":
		tag := fs.String("tag", "", "filter by tag")
		fs.Parse(args)
		recipes, err := c.ListRecipes(ctx, *tag)
		if err != nil {
			return err
		}
		for _, r := range recipes {
			fmt.Printf("%s\t%s\t%s\n", r.ID, r.Name, strings.Join(r.Tags, ","))
		}
		return nil

	case "foods":
		var q recipe.FoodQuery
		fs.StringVar(&q.Search, "search", "", "match names containing any of these words")
		fs.IntVar(&q.Skip, "skip", 0, "items to skip")
		fs.IntVar(&q.Limit, "limit", 0, "maximum items; 0 lists all")
		fs.Parse(args)
		items, total, err := c.ListFoodItems(ctx, q)
		if err != nil {
			return err
		}
		for _, f := range items {
			fmt.Printf("%s\t%s\n", f.ID, f.Name)
		}
		fmt.Printf("%d of %d food items\n", len(items), total)
		return nil

	case "delete":
		fs.Parse(args)
		if fs.NArg() != 2 {
			return fmt.Errorf("delete takes a kind (recipe or food) and an id")
		}
		switch kind, id := fs.Arg(0), fs.Arg(1); kind {
		case "recipe":
			return c.DeleteRecipe(ctx, id)
		case "food":
			return c.DeleteFoodItem(ctx, id)
		default:
			return fmt.Errorf("unknown kind %q", kind)
		}

	case "import":
		fs.Parse(args)
		if fs.NArg() != 1 {
			return fmt.Errorf("import takes one catalog file, or - for stdin")
		}
		cat, err := readCatalog(fs.Arg(0))
		if err != nil {
			return err
		}
		return importCatalog(ctx, c, cat)
	}

	return fmt.Errorf("unknown command %q", cmd)
}

// catalog is the import file: food items first, then recipes that refer to
// them by id.
type catalog struct {
	FoodItems []recipe.FoodItem `json:"foodItems"`
	Recipes   []recipe.Recipe   `json:"recipes"`
}

func readCatalog(path string) (*catalog, error) {
	var cat catalog
	if path == "-" {
		if err := common.DecodeJSON(os.Stdin, &cat); err != nil {
			return nil, fmt.Errorf("failed to parse catalog: %w", err)
		}
		return &cat, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := common.ParseJSONBytesStrict(data, &cat); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cat, nil
}

func importCatalog(ctx context.Context, c *client.Client, cat *catalog) error {
	for _, f := range cat.FoodItems {
		saved, err := c.SaveFoodItem(ctx, f)
		if err != nil {
			return fmt.Errorf("food item %q: %w", f.Name, err)
		}
		fmt.Printf("food item\t%s\t%s\n", saved.ID, saved.Name)
	}
	for _, r := range cat.Recipes {
		saved, err := c.SaveRecipe(ctx, r)
		if err != nil {
			return fmt.Errorf("recipe %q: %w", r.Name, err)
		}
		fmt.Printf("recipe\t%s\t%s\n", saved.ID, saved.Name)
	}
	return nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
