package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sigil-ledger/sigil/internal/ledger"
	"github.com/sigil-ledger/sigil/internal/opfile"
	"github.com/sigil-ledger/sigil/internal/store"
	"github.com/sigil-ledger/sigil/internal/verify"
)

// ApplyOptions holds flags for the apply command.
type ApplyOptions struct {
	*RootOptions
	Check bool
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ApplyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "apply <contract-id> <operation.yaml>",
		Short: "Verify and apply an operation to a contract",
		Long: `Verify an operation against a contract's current state and record it.

The operation's inputs name ledger cells by id; the values those cells
hold are what the verifier judges. A rejected operation changes nothing.

Example:
  sigil apply 0192... transfer.yaml`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Check, "check", false, "verify only, do not record")

	return cmd
}

func runApply(opts *ApplyOptions, contractID, opPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	doc, err := opfile.Load(opPath)
	if err != nil {
		formatter.Error(ErrCodeOperation, err.Error(), nil)
		return WrapExitError(ExitCommandError, "loading operation", err)
	}

	st, err := store.Open(opts.DB)
	if err != nil {
		formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "opening ledger database", err)
	}
	defer st.Close()

	l := ledger.New(st, nil)

	if opts.Check {
		if err := l.Check(cmd.Context(), contractID, doc); err != nil {
			return reportApplyError(formatter, err)
		}
		return formatter.Success("operation verifies")
	}

	opID, err := l.Apply(cmd.Context(), contractID, doc)
	if err != nil {
		return reportApplyError(formatter, err)
	}

	if opts.Format == "json" {
		return formatter.Success(map[string]any{
			"contract_id":  contractID,
			"operation_id": opID,
		})
	}
	return formatter.Success(fmt.Sprintf("applied operation %d", opID))
}

// reportApplyError maps an error to the right exit code: verification
// rejections exit 1, plumbing failures exit 2.
func reportApplyError(formatter *OutputFormatter, err error) error {
	var verr *verify.Error
	if errors.As(err, &verr) {
		formatter.Error(ErrCodeRejected, err.Error(), map[string]any{
			"code":  string(verr.Code),
			"errno": verr.Errno(),
		})
		return WrapExitError(ExitFailure, "operation rejected", err)
	}
	formatter.Error(ErrCodeStore, err.Error(), nil)
	return WrapExitError(ExitCommandError, "applying operation", err)
}
