package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"RefDesk/internal/adapter"
	"RefDesk/internal/adapter/csvsource"
	_ "RefDesk/internal/adapter/static"
	_ "RefDesk/internal/adapter/xlsxsource"
	"RefDesk/internal/config"
	"RefDesk/internal/model"
	"RefDesk/internal/repository"
	"RefDesk/internal/service"
	"RefDesk/internal/utils/dateparse"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "designate",
		Short: "Referee designation assistant",
		Long: `designate loads the fixture, referee, club and availability tables
configured in config.yaml and answers designation questions from the
command line: who can referee a fixture, is a referee free that weekend,
which department a team belongs to, and what the ledger holds.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("config", "./config", "Directory holding config.yaml")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log loading details to stderr")
	rootCmd.PersistentFlags().Bool("json", false, "Print JSON instead of tables")

	rootCmd.AddCommand(refreshCmd())
	rootCmd.AddCommand(candidatesCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(resolveCmd())
	rootCmd.AddCommand(rolesCmd())
	rootCmd.AddCommand(recordCmd())
	rootCmd.AddCommand(ledgerCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env is what every subcommand works against.
type env struct {
	cfg       *config.Config
	logger    *logrus.Logger
	snapshots *service.SnapshotService
	ledger    *service.LedgerService
	asJSON    bool
	out       io.Writer
}

func bootstrap(cmd *cobra.Command, withLedger bool) (*env, error) {
	dir, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	asJSON, _ := cmd.Flags().GetBool("json")

	cfg, err := config.LoadConfig(dir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	e := &env{cfg: cfg, logger: logger, asJSON: asJSON, out: cmd.OutOrStdout()}
	e.snapshots = service.NewSnapshotService(adapter.NewSourceRegistry(cfg, logger), service.NewLoader(cfg, logger), logger)
	if _, err := e.snapshots.Refresh(cmd.Context()); err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}

	if withLedger {
		store, err := repository.OpenLedger(cmd.Context(), cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("open ledger: %w", err)
		}
		e.ledger = service.NewLedgerService(store, e.snapshots,
			service.NewRemovalTracker(cfg.Designation.RemovalConfirmTimeout), logger)
	}
	return e, nil
}

func (e *env) printJSON(v any) error {
	enc := json.NewEncoder(e.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (e *env) table(header ...string) *tabwriter.Writer {
	w := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(header, "\t"))
	return w
}

func refreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Load every table and report rows and issues",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := bootstrap(cmd, false)
			if err != nil {
				return err
			}
			snap := e.snapshots.Current()
			if e.asJSON {
				return e.printJSON(map[string]any{"reports": snap.Reports, "issues": snap.Issues})
			}
			w := e.table("TABLE", "ROWS", "LOADED", "SKIPPED")
			for _, r := range snap.Reports {
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", r.Table, r.Rows, r.Loaded, r.Skipped)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			for _, is := range snap.Issues {
				fmt.Fprintf(e.out, "! %s (%s): %s\n", is.Table, is.Kind, is.Message)
			}
			return nil
		},
	}
}

func candidatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "candidates <fixture-id>",
		Short: "List the referees eligible for a fixture",
		Long: `List the referees whose category fits the competition band, who live
outside both clubs' departments, with their availability for the fixture
weekend. Most qualified first.

Example:
  designate candidates 2024-F1-0042
  designate candidates 2024-F1-0042 --designable`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			onlyDesignable, _ := cmd.Flags().GetBool("designable")
			e, err := bootstrap(cmd, true)
			if err != nil {
				return err
			}
			res, err := service.NewEligibilityService(e.snapshots, e.ledger, e.logger).Candidates(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if onlyDesignable {
				kept := res.Candidates[:0]
				for _, c := range res.Candidates {
					if c.Designable {
						kept = append(kept, c)
					}
				}
				res.Candidates = kept
			}
			if e.asJSON {
				return e.printJSON(res)
			}

			f := res.Fixture
			fmt.Fprintf(e.out, "%s  %s  %s - %s\n", f.ID, f.Date.Format("02/01/2006 15:04"), f.Home, f.Away)
			fmt.Fprintf(e.out, "%s: levels %d-%d, excluded departments %s\n\n",
				res.Trace.Competition, res.Trace.Low, res.Trace.High, strings.Join(res.Trace.ExcludedDepartments, ", "))
			w := e.table("LEVEL", "AFFILIATION", "NAME", "CATEGORY", "DPT", "STATUS", "ROLES")
			for _, c := range res.Candidates {
				roles := make([]string, 0, len(c.AssignedRoles))
				for _, r := range c.AssignedRoles {
					roles = append(roles, string(r))
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", c.Level, c.Referee.Affiliation, c.Referee.FullName(),
					c.Referee.Category, c.Referee.Department, c.Status.Label, strings.Join(roles, ", "))
			}
			return w.Flush()
		},
	}
	cmd.Flags().Bool("designable", false, "Hide referees who cannot be designated")
	return cmd
}

func statusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <affiliation>",
		Short: "Show a referee's availability for a date or fixture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rawDate, _ := cmd.Flags().GetString("date")
			fixtureID, _ := cmd.Flags().GetString("fixture")
			e, err := bootstrap(cmd, false)
			if err != nil {
				return err
			}
			snap := e.snapshots.Current()

			var date time.Time
			switch {
			case fixtureID != "":
				f, ok := snap.Fixture(fixtureID)
				if !ok {
					return fmt.Errorf("%w: %s", service.ErrFixtureNotFound, fixtureID)
				}
				date = f.Date
			case rawDate != "":
				if date, err = dateparse.Parse(rawDate); err != nil {
					return err
				}
			default:
				return fmt.Errorf("--date or --fixture is required")
			}

			st := service.StatusFor(args[0], date, snap.Availability)
			if e.asJSON {
				return e.printJSON(st)
			}
			sat, sun := service.WeekendWindow(date)
			fmt.Fprintf(e.out, "%s on %s (weekend %s-%s): %s\n", args[0], dateparse.Format(date),
				dateparse.Format(sat), dateparse.Format(sun), st.Label)
			return nil
		},
	}
	cmd.Flags().String("date", "", "Match date, e.g. 27/10/2024")
	cmd.Flags().String("fixture", "", "Fixture id, its date is used")
	return cmd
}

func resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <team label>",
		Short: "Find the club and department behind a team label",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := bootstrap(cmd, false)
			if err != nil {
				return err
			}
			label := strings.Join(args, " ")
			club, kind := service.ResolveClub(label, e.snapshots.Current().Clubs)
			if e.asJSON {
				return e.printJSON(map[string]any{"label": label, "match": kind, "club": club})
			}
			if kind == service.MatchNone {
				fmt.Fprintf(e.out, "%s: %s\n", label, model.NotFound)
				return nil
			}
			fmt.Fprintf(e.out, "%s -> %s %s (%s), department %s [%s]\n",
				label, club.Code, club.Name, club.PostalCode, club.Department(), kind)
			return nil
		},
	}
}

func rolesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roles <fixture-id>",
		Short: "Show filled and open roles of a fixture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := bootstrap(cmd, true)
			if err != nil {
				return err
			}
			if _, ok := e.snapshots.Current().Fixture(args[0]); !ok {
				return fmt.Errorf("%w: %s", service.ErrFixtureNotFound, args[0])
			}
			rows, err := e.ledger.Combined(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if e.asJSON {
				return e.printJSON(rows)
			}
			filled, err := e.ledger.RolesFilled(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			held := make(map[model.Role]bool, len(filled))
			for _, r := range filled {
				held[r] = true
			}
			w := e.table("ROLE", "STATE")
			for _, r := range model.Roles {
				state := "open"
				if held[r] {
					state = "filled"
				}
				fmt.Fprintf(w, "%s\t%s\n", r, state)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintln(e.out)
			w = e.table("SOURCE", "ROLE", "NAME", "AFFILIATION")
			for _, a := range rows {
				fmt.Fprintf(w, "%s\t%s\t%s %s\t%s\n", a.Source, a.Role, a.Surname, a.GivenName, a.Affiliation)
			}
			return w.Flush()
		},
	}
}

func recordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a designation in the ledger",
		Long: `Record a designation in the ledger. Names and residence department are
taken from the referee roster when omitted.

Example:
  designate record --fixture 2024-F1-0042 --role AA1 --affiliation 1234567`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req service.RecordRequest
			req.FixtureID, _ = cmd.Flags().GetString("fixture")
			req.Role, _ = cmd.Flags().GetString("role")
			req.Affiliation, _ = cmd.Flags().GetString("affiliation")
			req.Surname, _ = cmd.Flags().GetString("surname")
			req.GivenName, _ = cmd.Flags().GetString("given-name")
			req.FieldDepartment, _ = cmd.Flags().GetString("field-department")

			e, err := bootstrap(cmd, true)
			if err != nil {
				return err
			}
			a, err := e.ledger.RecordAssignment(cmd.Context(), req)
			if err != nil {
				return err
			}
			if e.asJSON {
				return e.printJSON(a)
			}
			fmt.Fprintf(e.out, "recorded %s %s as %s on %s (row %s)\n", a.Surname, a.GivenName, a.Role, a.FixtureID, a.RowID)
			return nil
		},
	}
	cmd.Flags().String("fixture", "", "Fixture id")
	cmd.Flags().String("role", "", "Role, e.g. ARBITRE, AA1, CHRONOMETREUR")
	cmd.Flags().String("affiliation", "", "Referee affiliation number")
	cmd.Flags().String("surname", "", "Surname, from the roster when empty")
	cmd.Flags().String("given-name", "", "Given name, from the roster when empty")
	cmd.Flags().String("field-department", "", "Field department, home club's when empty")
	_ = cmd.MarkFlagRequired("fixture")
	_ = cmd.MarkFlagRequired("role")
	_ = cmd.MarkFlagRequired("affiliation")
	return cmd
}

func ledgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Export or replace the manual ledger",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "export",
		Short: "Write the ledger as CSV to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := bootstrap(cmd, true)
			if err != nil {
				return err
			}
			rows, err := e.ledger.Manual(cmd.Context())
			if err != nil {
				return err
			}
			w := csv.NewWriter(e.out)
			w.Comma = ';'
			if err := w.Write(model.LedgerHeader); err != nil {
				return err
			}
			for _, a := range rows {
				if err := w.Write(a.LedgerValues()); err != nil {
					return err
				}
			}
			w.Flush()
			return w.Error()
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "import <file.csv>",
		Short: "Replace the ledger with the rows of a CSV export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			t, err := csvsource.Parse(f, 0)
			if err != nil {
				return err
			}
			rows := ledgerRows(t)

			e, err := bootstrap(cmd, true)
			if err != nil {
				return err
			}
			if err := e.ledger.Rewrite(cmd.Context(), rows); err != nil {
				return err
			}
			fmt.Fprintf(e.out, "ledger replaced with %d rows\n", len(rows))
			return nil
		},
	})
	return cmd
}

// ledgerRows reorders the columns of t into model.LedgerHeader order.
func ledgerRows(t *model.Table) []model.Assignment {
	idx := t.Index()
	pos := make([]int, len(model.LedgerHeader))
	for i, h := range model.LedgerHeader {
		p, ok := idx[strings.ToLower(h)]
		if !ok {
			p = -1
		}
		pos[i] = p
	}
	out := make([]model.Assignment, 0, len(t.Rows))
	for _, row := range t.Rows {
		ordered := make([]string, len(pos))
		for i, p := range pos {
			ordered[i] = model.Cell(row, p)
		}
		out = append(out, model.AssignmentFromLedger(ordered))
	}
	return out
}
