package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"tradeboard/frontend/trades"
	"tradeboard/infrastructure/cache"
	"tradeboard/infrastructure/config"
	"tradeboard/infrastructure/recordstore"
	"tradeboard/models"
)

// flagNames maps record fields onto command line flags.
var flagNames = map[string]string{
	"date":       "date",
	"trade_code": "code",
	"high":       "high",
	"low":        "low",
	"open":       "open",
	"close":      "close",
	"volume":     "volume",
}

type cliEnv struct {
	in         io.Reader
	out        io.Writer
	configPath string
	apiURL     string
	ctrl       *trades.Controller
	cfg        *config.Config
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	env := &cliEnv{in: in, out: out}
	root := &cobra.Command{
		Use:           "tradectl",
		Short:         "Browse and edit trade records from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return env.setup()
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.PersistentFlags().StringVar(&env.configPath, "config", "", "config file (default "+config.DefaultPath+" when present)")
	root.PersistentFlags().StringVar(&env.apiURL, "api", "", "trade API base URL (overrides config)")

	root.AddCommand(newListCmd(env), newAddCmd(env), newUpdateCmd(env), newDeleteCmd(env))
	return root
}

func (e *cliEnv) setup() error {
	cfg, err := config.Load(e.configPath)
	if err != nil {
		return err
	}
	if e.apiURL != "" {
		cfg.Dashboard.APIBaseURL = e.apiURL
	}
	e.cfg = cfg
	// Failures already reach the user as command errors; logs only at debug.
	if cfg.LogLevel() == slog.LevelDebug {
		cfg.NewLogger()
	} else {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	}
	store := recordstore.New(cfg.Dashboard.APIBaseURL, cfg.RequestTimeout())
	e.ctrl = trades.NewController(store, cache.NewRecordCache(), cfg.Dashboard.RowsPerPageOptions, cfg.Dashboard.DefaultRowsPerPage)
	return nil
}

func newListCmd(env *cliEnv) *cobra.Command {
	var (
		search string
		page   int
		rows   int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of trades",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := env.ctrl.Load(cmd.Context()); err != nil {
				return err
			}
			state := env.ctrl.NewState()
			state.SetSearch(search)
			if cmd.Flags().Changed("rows") {
				if err := state.SetRowsPerPage(rows); err != nil {
					return err
				}
			}
			state.SetPage(page)
			renderView(env.out, env.ctrl.View(state))
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "case-insensitive filter over every field")
	cmd.Flags().IntVar(&page, "page", 0, "zero-based page index")
	cmd.Flags().IntVar(&rows, "rows", 0, "rows per page")
	return cmd
}

func renderView(out io.Writer, v trades.View) {
	writer := tablewriter.NewWriter(out)
	header := []string{"ID"}
	for _, f := range trades.Schema {
		header = append(header, f.Label)
	}
	writer.SetHeader(header)
	for _, r := range v.Rows {
		row := []string{strconv.FormatInt(r.ID, 10)}
		for _, f := range trades.Schema {
			value, _ := r.Field(f.Name)
			row = append(row, value)
		}
		writer.Append(row)
	}
	writer.SetCaption(true, fmt.Sprintf("%s (page %d/%d)", v.Range(), uint64(v.Page)+1, v.PageCount()))
	writer.Render()
	fmt.Fprintf(out, "count: %d\n", v.Count)
}

func newAddCmd(env *cliEnv) *cobra.Command {
	values := make(map[string]*string, len(trades.Schema))
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a trade; every field is required",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d := trades.NewAddDialog(env.ctrl)
			d.Open(models.TradeRecord{})
			for _, f := range trades.Schema {
				if err := d.SetField(f.Name, *values[f.Name]); err != nil {
					return err
				}
			}
			return submit(cmd, env, d)
		},
	}
	bindFieldFlags(cmd, values)
	return cmd
}

func newUpdateCmd(env *cliEnv) *cobra.Command {
	values := make(map[string]*string, len(trades.Schema))
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of an existing trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := env.ctrl.Load(cmd.Context()); err != nil {
				return err
			}
			rec, ok := env.ctrl.Find(id)
			if !ok {
				return fmt.Errorf("trade %d not found", id)
			}
			d := trades.NewUpdateDialog(env.ctrl)
			d.Open(rec)
			for _, f := range trades.Schema {
				if !cmd.Flags().Changed(flagNames[f.Name]) {
					continue
				}
				if err := d.SetField(f.Name, *values[f.Name]); err != nil {
					return err
				}
			}
			return submit(cmd, env, d)
		},
	}
	bindFieldFlags(cmd, values)
	return cmd
}

func newDeleteCmd(env *cliEnv) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a trade after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			confirmed := yes
			if !confirmed {
				confirmed = confirm(env.in, env.out, "Are you sure you want to delete this record? [y/N]: ")
			}
			err = env.ctrl.Remove(cmd.Context(), id, confirmed)
			switch {
			case errors.Is(err, trades.ErrNotConfirmed):
				fmt.Fprintln(env.out, "Delete cancelled.")
				return nil
			case err != nil:
				return errors.New(trades.DeleteFailedMessage)
			}
			fmt.Fprintln(env.out, trades.DeletedMessage)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "skip the confirmation prompt")
	return cmd
}

func submit(cmd *cobra.Command, env *cliEnv, d *trades.Dialog) error {
	err := d.Submit(cmd.Context())
	var verr *trades.ValidationError
	switch {
	case errors.As(err, &verr):
		names := make([]string, 0, len(verr.Fields))
		for name := range verr.Fields {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(env.out, "--%s: %s\n", flagNames[name], verr.Fields[name])
		}
		return verr
	case err != nil:
		return errors.New(d.Alert())
	}
	fmt.Fprintln(env.out, d.SuccessMessage())
	return nil
}

func bindFieldFlags(cmd *cobra.Command, values map[string]*string) {
	for _, f := range trades.Schema {
		v := new(string)
		values[f.Name] = v
		cmd.Flags().StringVar(v, flagNames[f.Name], "", f.Label)
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid trade id %q", s)
	}
	return id, nil
}

// confirm reads one answer line; only y or yes confirms.
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
