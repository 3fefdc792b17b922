package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sigil-ledger/sigil/internal/store"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect [contract-id]",
		Short: "Show recorded contracts and their live cells",
		Long: `Show recorded contracts.

Without arguments, lists every contract in the ledger database. With a
contract id, shows the contract's configuration, operation count and
unspent cells.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runInspectAll(opts, cmd)
			}
			return runInspectOne(opts, args[0], cmd)
		},
	}

	return cmd
}

func runInspectAll(opts *InspectOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := store.Open(opts.DB)
	if err != nil {
		formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "opening ledger database", err)
	}
	defer st.Close()

	contracts, err := st.Contracts(cmd.Context())
	if err != nil {
		formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "listing contracts", err)
	}

	if opts.Format == "json" {
		rows := make([]map[string]any, 0, len(contracts))
		for _, c := range contracts {
			rows = append(rows, map[string]any{
				"contract_id": c.ID,
				"kind":        string(c.Kind),
				"name":        c.Name,
				"ticker":      c.Ticker,
			})
		}
		return formatter.Success(map[string]any{"contracts": rows})
	}

	if len(contracts) == 0 {
		return formatter.Success("no contracts recorded")
	}
	var sb strings.Builder
	for _, c := range contracts {
		fmt.Fprintf(&sb, "%s  %-10s  %s", c.ID, c.Kind, c.Name)
		if c.Ticker != "" {
			fmt.Fprintf(&sb, " (%s)", c.Ticker)
		}
		sb.WriteByte('\n')
	}
	fmt.Fprint(cmd.OutOrStdout(), sb.String())
	return nil
}

func runInspectOne(opts *InspectOptions, contractID string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := store.Open(opts.DB)
	if err != nil {
		formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "opening ledger database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	c, err := st.Contract(ctx, contractID)
	if err != nil {
		formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "reading contract", err)
	}

	cells, err := st.UnspentCells(ctx, contractID)
	if err != nil {
		formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "reading cells", err)
	}

	ops, err := st.OperationCount(ctx, contractID)
	if err != nil {
		formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "counting operations", err)
	}

	if opts.Format == "json" {
		cellRows := make([]map[string]any, 0, len(cells))
		for _, cell := range cells {
			row := map[string]any{"id": cell.ID, "tag": uint64(cell.Value.Tag)}
			if cell.Value.V1.IsSet() {
				row["v1"] = cell.Value.V1.Val()
			}
			if cell.Value.V2.IsSet() {
				row["v2"] = cell.Value.V2.Val()
			}
			if cell.Value.V3.IsSet() {
				row["v3"] = cell.Value.V3.Val()
			}
			cellRows = append(cellRows, row)
		}
		return formatter.Success(map[string]any{
			"contract_id": c.ID,
			"kind":        string(c.Kind),
			"sum_width":   c.SumWidth,
			"name":        c.Name,
			"ticker":      c.Ticker,
			"details":     c.Details,
			"precision":   c.Precision,
			"operations":  ops,
			"cells":       cellRows,
		})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "contract:   %s\n", c.ID)
	fmt.Fprintf(out, "kind:       %s (sum width %d)\n", c.Kind, c.SumWidth)
	fmt.Fprintf(out, "name:       %s\n", c.Name)
	if c.Ticker != "" {
		fmt.Fprintf(out, "ticker:     %s\n", c.Ticker)
	}
	if c.Details != "" {
		fmt.Fprintf(out, "details:    %s\n", c.Details)
	}
	fmt.Fprintf(out, "precision:  %d\n", c.Precision)
	fmt.Fprintf(out, "operations: %d\n", ops)
	fmt.Fprintf(out, "cells:      %d unspent\n", len(cells))
	for _, cell := range cells {
		fmt.Fprintf(out, "  [%d] %s\n", cell.ID, cell.Value)
	}
	return nil
}
