package main

import (
	"context"
	"fmt"
	"log"
	"os"

	flags "github.com/jessevdk/go-flags"

	"github.com/viant/escfix/escape/service"
)

// Options defines CLI flags for the escape fixer.
type Options struct {
	DryRun   bool `short:"n" long:"dry-run" description:"print a diff of pending repairs without writing"`
	MaxEdits int  `long:"max-edits" description:"refuse files needing more than this many edits (0 = unlimited)"`
	Quiet    bool `short:"q" long:"quiet" description:"suppress per-file completion notices"`
	Args     struct {
		Files []string `positional-arg-name:"FILE" description:"files to repair in place"`
	} `positional-args:"yes" required:"1"`
}

func main() {

	// Parse CLI flags
	var opts Options
	if _, err := flags.NewParser(&opts, flags.Default).Parse(); err != nil {
		os.Exit(2)
	}
	if len(opts.Args.Files) == 0 {
		log.Fatal("at least one FILE is required")
	}

	svc := service.NewService(&service.Config{MaxEditsPerFile: opts.MaxEdits})
	ctx := context.Background()

	if opts.DryRun {
		for _, path := range opts.Args.Files {
			out, err := svc.PreviewFile(ctx, &service.PreviewFileInput{URL: path, DiffOnly: true})
			if err != nil {
				log.Fatal(err)
			}
			if out.Edits == 0 {
				continue
			}
			fmt.Printf("%s: %d pending repair(s)\n%s", path, out.Edits, out.Diff)
		}
		return
	}

	for _, path := range opts.Args.Files {
		out, err := svc.FixFile(ctx, &service.FixFileInput{URL: path})
		if err != nil {
			log.Fatal(err)
		}
		if !opts.Quiet {
			fmt.Printf("fixed escaping issues in %s (%d edits)\n", path, out.Edits)
		}
	}
}
