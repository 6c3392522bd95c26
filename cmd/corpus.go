package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sepme/sepme/internal/corpus"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Inspect the essay corpus",
}

var corpusCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Load both corpora and report valid and skipped records",
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")

		e, err := setup(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer e.sync()

		loader, err := newLoader(e.cfg, e.logger)
		if err != nil {
			return err
		}
		sources, err := newSources(e.cfg)
		if err != nil {
			return err
		}

		cats := []corpus.Category{corpus.GradeEstimation, corpus.ScoreEstimation}
		reports := make([]corpus.Report, len(cats))
		errs := make([]error, len(cats))
		g, ctx := errgroup.WithContext(cmd.Context())
		for i, cat := range cats {
			g.Go(func() error {
				_, reports[i], errs[i] = loader.Load(ctx, sources[cat], cat)
				return ctx.Err()
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		failed := false
		for i, rep := range reports {
			fmt.Printf("%-18s  %s\n", cats[i].DisplayName(), rep.Source)
			fmt.Printf("  %d candidates, %d loaded, %d skipped\n", rep.Candidates, rep.Loaded, len(rep.Skipped))
			if errs[i] != nil {
				failed = true
				fmt.Printf("  error: %v\n", errs[i])
			}
			if verbose {
				for _, s := range rep.Skipped {
					fmt.Printf("  - %v\n", s)
				}
			}
		}
		if failed {
			return errors.New("corpus unavailable")
		}
		return nil
	},
}

var corpusShowCmd = &cobra.Command{
	Use:   "show <grade|score> <id>",
	Short: "Print one essay with its reference answers",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var cat corpus.Category
		switch args[0] {
		case corpus.GradeEstimation.String():
			cat = corpus.GradeEstimation
		case corpus.ScoreEstimation.String():
			cat = corpus.ScoreEstimation
		default:
			return fmt.Errorf("unknown category %q (want grade or score)", args[0])
		}
		id, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid id %q", args[1])
		}

		e, err := setup(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer e.sync()

		provider, err := newProvider(e.cfg, e.logger)
		if err != nil {
			return err
		}
		c, err := provider.Get(context.WithoutCancel(cmd.Context()), cat)
		if err != nil {
			return err
		}
		for _, it := range c.Items {
			if it.ID != id {
				continue
			}
			fmt.Printf("%s #%d  (%s)\n", cat.DisplayName(), it.ID, it.Key)
			fmt.Println(strings.Repeat("─", 60))
			fmt.Println(it.Text)
			fmt.Println(strings.Repeat("─", 60))
			fmt.Printf("Grade %d   Content %d   Organization %d   Expression %d   (total %d)\n",
				it.Grade, it.Scores.Content, it.Scores.Organization, it.Scores.Expression, it.Scores.Total())
			if it.Synthetic {
				fmt.Println(corpus.PlaceholderNotice)
			}
			return nil
		}
		return fmt.Errorf("no %s essay with id %d", cat, id)
	},
}

func init() {
	corpusCheckCmd.Flags().BoolP("verbose", "v", false, "List every skipped record")

	corpusCmd.AddCommand(corpusCheckCmd)
	corpusCmd.AddCommand(corpusShowCmd)
}
