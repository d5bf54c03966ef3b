package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lumiere-aesthetics/matching-engine/internal/candidate"
	"github.com/lumiere-aesthetics/matching-engine/internal/criteria"
	"github.com/lumiere-aesthetics/matching-engine/internal/normalize"
	"github.com/lumiere-aesthetics/matching-engine/internal/recommend"
	"github.com/lumiere-aesthetics/matching-engine/internal/scoring"
	"github.com/lumiere-aesthetics/matching-engine/internal/storage"
	"github.com/lumiere-aesthetics/matching-engine/internal/taxonomy"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
)

// engine returns the stateless engine components for commands that need no
// record store.
func (a *app) engine() (*taxonomy.Registry, *normalize.Normalizer, *recommend.Recommender) {
	tag, err := language.Parse(a.cfg.Matching.CollationLocale)
	if err != nil {
		tag = language.English
	}
	reg := taxonomy.Default()
	n := normalize.New(reg, tag)
	return reg, n, recommend.New(reg, n)
}

func newBrowseCmd(a *app) *cobra.Command {
	var (
		kind  string
		c     criteria.Criteria
		limit int
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Filter and rank candidates against selection criteria",
		Long: `Browse loads every candidate of the given kind from the record store,
applies the interest, issue, region and treatment criteria and prints the
ranked matches together with the remaining treatment and region options.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			db, repo, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			svc, client := a.newService(repo)
			defer client.Close()

			stop := a.ui.Spinner("Loading candidates...")
			sess, err := svc.OpenSession(ctx, candidate.ParseKind(kind))
			stop()
			if err != nil {
				return err
			}
			if sess.Skipped > 0 {
				a.ui.Warning("%d malformed records skipped", sess.Skipped)
			}

			res, err := sess.Browse(ctx, c)
			if err != nil {
				return err
			}
			if a.outputJSON {
				return a.ui.PrintJSON(res)
			}

			a.ui.Section(fmt.Sprintf("%d of %d candidates", len(res.Visible), sess.Size()))
			if res.Criteria.Region != "" && c.Region == "" {
				a.ui.Info("Region derived from criteria: %s", res.Criteria.Region)
			}
			a.ui.Table([]string{"ID", "NAME", "SCORE", "MATCH", "REASON"}, resultRows(res.Ranking.Results, limit))

			a.ui.Section("Treatment options")
			a.ui.List(res.Options.Treatments)
			a.ui.Section("Region options")
			a.ui.List(res.Options.Regions)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", string(candidate.KindPhoto), "candidate kind: photo or suggestion_card")
	cmd.Flags().StringVar(&c.Interest, "interest", "", "interest (suggestion) name")
	cmd.Flags().StringVar(&c.Issue, "issue", "", "issue name")
	cmd.Flags().StringVar(&c.Region, "region", "", "region (area) name")
	cmd.Flags().StringVar(&c.Treatment, "treatment", "", "treatment name")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum rows to print (0 for all)")
	return cmd
}

func resultRows(results []scoring.Result, limit int) [][]string {
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		match := string(r.Match)
		if match == "" {
			match = "-"
		}
		rows = append(rows, []string{r.Item.ID, r.Item.DisplayName, strconv.Itoa(r.Score), match, r.Reason})
	}
	return rows
}

func newNormalizeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <tag>...",
		Short: "Map raw treatment tags onto canonical names",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, n, _ := a.engine()

			type row struct {
				Raw        string `json:"raw"`
				Normalized string `json:"normalized"`
				Excluded   bool   `json:"excluded"`
			}
			rows := make([]row, 0, len(args))
			for _, raw := range args {
				rows = append(rows, row{Raw: raw, Normalized: n.NormalizeTreatment(raw), Excluded: n.IsExcluded(raw)})
			}
			if a.outputJSON {
				return a.ui.PrintJSON(rows)
			}

			table := make([][]string, 0, len(rows))
			for _, r := range rows {
				out := r.Normalized
				if r.Excluded {
					out = "(excluded)"
				}
				table = append(table, []string{r.Raw, out})
			}
			a.ui.Table([]string{"RAW", "NORMALIZED"}, table)
			return nil
		},
	}
}

func newRecommendCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Answer recommendation queries",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "finding <finding>",
		Short: "Show the goal, region and treatments for a clinical finding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, rec := a.engine()
			goal, ok := rec.GoalRegionTreatmentsForFinding(args[0])
			if !ok {
				return fmt.Errorf("no recommendation for finding %q", args[0])
			}
			if a.outputJSON {
				return a.ui.PrintJSON(goal)
			}
			a.ui.Success("%s → %s (%s)", args[0], goal.Goal, goal.Region)
			a.ui.List(goal.Treatments)
			return nil
		},
	})

	var productContext string
	treatmentCmd := &cobra.Command{
		Use:   "treatment <treatment>",
		Short: "Show goals, regions and products for a treatment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, rec := a.engine()
			gr := rec.GoalsAndRegionsForTreatment(args[0])
			products := rec.RecommendedProducts(args[0], productContext)
			if a.outputJSON {
				return a.ui.PrintJSON(struct {
					recommend.GoalsAndRegions
					Products []string `json:"products"`
				}{gr, products})
			}

			if gr.Fallback {
				a.ui.Warning("No goals mention %s; showing every goal", args[0])
			}
			a.ui.Section("Goals")
			a.ui.List(gr.Goals)
			a.ui.Section("Regions")
			a.ui.List(gr.Regions)
			a.ui.Section("Products")
			if len(products) == 0 {
				a.ui.Info("No product matches the context")
			}
			a.ui.List(products)
			return nil
		},
	}
	treatmentCmd.Flags().StringVar(&productContext, "context", "", "free text used to pick products")
	cmd.AddCommand(treatmentCmd)

	var finding, treatment, prefillContext string
	prefillCmd := &cobra.Command{
		Use:   "prefill",
		Short: "Build a plan prefill from a finding or a treatment",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, rec := a.engine()
			var p recommend.Prefill
			switch {
			case finding != "":
				p = rec.PrefillFromFinding(finding)
			case treatment != "":
				p = rec.PrefillFromTreatment(treatment, prefillContext)
			default:
				return fmt.Errorf("either --finding or --treatment is required")
			}
			if a.outputJSON {
				return a.ui.PrintJSON(p)
			}
			a.ui.Table([]string{"FIELD", "VALUE"}, [][]string{
				{"interest", p.Interest},
				{"region", p.Region},
				{"treatment", p.Treatment},
				{"product", p.TreatmentProduct},
				{"findings", strings.Join(p.Findings, ", ")},
			})
			return nil
		},
	}
	prefillCmd.Flags().StringVar(&finding, "finding", "", "clinical finding")
	prefillCmd.Flags().StringVar(&treatment, "treatment", "", "treatment name")
	prefillCmd.Flags().StringVar(&prefillContext, "context", "", "free text used to pick goal and product")
	cmd.AddCommand(prefillCmd)

	return cmd
}

func newTaxonomyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "taxonomy [suggestions|issues|areas|treatments|excluded]",
		Short:     "List taxonomy values",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"suggestions", "issues", "areas", "treatments", "excluded"},
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, _, _ := a.engine()

			lists := map[string][]string{
				"suggestions": reg.Suggestions(),
				"issues":      reg.Issues(),
				"areas":       areaNames(reg.Areas()),
				"treatments":  reg.Treatments(),
				"excluded":    reg.ExcludedTreatments(),
			}
			order := []string{"suggestions", "issues", "areas", "treatments", "excluded"}
			if len(args) == 1 {
				if _, ok := lists[args[0]]; !ok {
					return fmt.Errorf("unknown taxonomy list %q", args[0])
				}
				order = args
			}

			if a.outputJSON {
				out := make(map[string][]string, len(order))
				for _, name := range order {
					out[name] = lists[name]
				}
				return a.ui.PrintJSON(out)
			}
			for _, name := range order {
				a.ui.Section(strings.ToUpper(name[:1]) + name[1:])
				a.ui.List(lists[name])
			}
			return nil
		},
	}
}

func areaNames(areas []taxonomy.Area) []string {
	out := make([]string, 0, len(areas))
	for _, a := range areas {
		out = append(out, string(a))
	}
	return out
}

func newSeedCmd(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load candidate records from a YAML or JSON fixture file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("--file is required")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
			defer cancel()

			recs, err := storage.LoadFixtures(file)
			if err != nil {
				return err
			}

			db, repo, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			bar := a.ui.ProgressBar(len(recs), "Seeding")
			n, err := storage.Seed(ctx, repo, recs, func(done, total int) {
				if bar != nil {
					_ = bar.Set(done)
				}
			})
			if err != nil {
				return err
			}

			a.logger.Info().Str("file", file).Int("records", n).Msg("Seed complete")
			if a.outputJSON {
				return a.ui.PrintJSON(map[string]int{"seeded": n})
			}
			a.ui.Success("Seeded %d records from %s", n, file)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "fixture file path")
	return cmd
}

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the record store schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()
			a.ui.Success("Record store ready (%s)", a.cfg.Database.Driver)
			return nil
		},
	}
}
