package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sigil-ledger/sigil/internal/descriptor"
	"github.com/sigil-ledger/sigil/internal/issuer"
	"github.com/sigil-ledger/sigil/internal/ledger"
	"github.com/sigil-ledger/sigil/internal/store"
)

// IssueOptions holds flags for the issue command.
type IssueOptions struct {
	*RootOptions
	Bundle     string
	BundleOnly bool
}

// NewIssueCommand creates the issue command.
func NewIssueCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IssueOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "issue <descriptor.cue>",
		Short: "Issue a contract from a descriptor",
		Long: `Issue a contract from a CUE descriptor.

Compiles the descriptor into a genesis operation, verifies it, writes
the issuance bundle and records the contract in the ledger database.

Example:
  sigil issue coin.cue --bundle coin.bundle.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIssue(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Bundle, "bundle", "", "bundle output path (default: descriptor name with .bundle.yaml)")
	cmd.Flags().BoolVar(&opts.BundleOnly, "bundle-only", false, "write the bundle without recording the contract")

	return cmd
}

func runIssue(opts *IssueOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	d, err := descriptor.Load(path)
	if err != nil {
		formatter.Error(ErrCodeDescriptor, err.Error(), nil)
		return WrapExitError(ExitCommandError, "loading descriptor", err)
	}
	formatter.VerboseLog("descriptor: %s asset %q", d.Kind, d.Name)

	b, err := issuer.New(d, issuer.UUIDv7Generator{})
	if err != nil {
		formatter.Error(ErrCodeRejected, err.Error(), nil)
		return WrapExitError(ExitFailure, "issuing", err)
	}

	bundlePath := opts.Bundle
	if bundlePath == "" {
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		bundlePath = base + ".bundle.yaml"
	}
	if err := b.Save(bundlePath); err != nil {
		formatter.Error(ErrCodeBundle, err.Error(), nil)
		return WrapExitError(ExitCommandError, "saving bundle", err)
	}
	formatter.VerboseLog("bundle written: %s", bundlePath)

	if !opts.BundleOnly {
		st, err := store.Open(opts.DB)
		if err != nil {
			formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "opening ledger database", err)
		}
		defer st.Close()

		if err := ledger.New(st, nil).Issue(cmd.Context(), b); err != nil {
			formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "recording contract", err)
		}
	}

	if opts.Format == "json" {
		return formatter.Success(map[string]any{
			"contract_id": b.ContractID,
			"kind":        string(b.Kind),
			"bundle":      bundlePath,
		})
	}
	return formatter.Success(fmt.Sprintf("issued %s contract %s\nbundle: %s", b.Kind, b.ContractID, bundlePath))
}
