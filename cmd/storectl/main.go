// Command storectl manages the store database: creating the schema
// with its demo seed, wiping and recreating it, and reporting row
// counts per table.
//
// Usage:
//
//	storectl init            create schema and seed data if absent
//	storectl recreate [-y]   drop everything and start over
//	storectl status          print row counts per table
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/avdonin/record-store/internal/config"
	"github.com/avdonin/record-store/internal/database"
)

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}
	cmd := flag.Arg(0)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db, err := database.Open(config.LoadDB())
	if err != nil {
		fmt.Fprintf(os.Stderr, "storectl: cannot connect: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	switch cmd {
	case "init":
		if err := database.Init(ctx, db); err != nil {
			fmt.Fprintf(os.Stderr, "storectl: init failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("database initialized")
	case "recreate":
		fs := flag.NewFlagSet("recreate", flag.ExitOnError)
		yes := fs.Bool("y", false, "skip the confirmation prompt")
		_ = fs.Parse(flag.Args()[1:])
		if !*yes && !confirm("This DESTROYS all data. Continue? [y/N] ") {
			fmt.Println("aborted")
			os.Exit(1)
		}
		if err := database.Recreate(ctx, db); err != nil {
			fmt.Fprintf(os.Stderr, "storectl: recreate failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("database recreated")
	case "status":
		counts, err := database.Status(ctx, db)
		if err != nil {
			fmt.Fprintf(os.Stderr, "storectl: status failed: %v\n", err)
			os.Exit(1)
		}
		// Report in schema order so output is stable run to run.
		for _, table := range database.Tables {
			fmt.Printf("%-18s %d\n", table, counts[table])
		}
	default:
		fmt.Fprintf(os.Stderr, "storectl: unknown command %q\n", cmd)
		usage()
		os.Exit(2)
	}
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: storectl <command>

commands:
  init            create schema and seed data if absent
  recreate [-y]   drop all tables and recreate from scratch
  status          print row counts per table`)
}
