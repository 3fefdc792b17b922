package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sigil-ledger/sigil/internal/issuer"
	"github.com/sigil-ledger/sigil/internal/opfile"
	"github.com/sigil-ledger/sigil/internal/verify"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
}

// verdict is the per-file validation result.
type verdict struct {
	File   string `json:"file"`
	Status string `json:"status"`          // "accept" or "reject"
	Code   string `json:"code,omitempty"`  // rejection code
	Errno  uint32 `json:"errno,omitempty"` // stable numeric code
	Detail string `json:"detail,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <bundle.yaml> <operation.yaml>...",
		Short: "Validate operation files against a bundle",
		Long: `Validate self-contained operation files against an issuance bundle.

Runs each operation through the bundle's verifier without touching any
ledger database. Exits 1 if any operation is rejected.

Example:
  sigil validate coin.bundle.yaml transfer1.yaml transfer2.yaml`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], args[1:], cmd)
		},
	}

	return cmd
}

func runValidate(opts *ValidateOptions, bundlePath string, opPaths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	b, err := issuer.Load(bundlePath)
	if err != nil {
		formatter.Error(ErrCodeBundle, err.Error(), nil)
		return WrapExitError(ExitCommandError, "loading bundle", err)
	}

	v, err := b.Verifier()
	if err != nil {
		formatter.Error(ErrCodeBundle, err.Error(), nil)
		return WrapExitError(ExitCommandError, "building verifier", err)
	}

	verdicts := make([]verdict, 0, len(opPaths))
	rejected := 0
	for _, path := range opPaths {
		doc, err := opfile.Load(path)
		if err != nil {
			formatter.Error(ErrCodeOperation, err.Error(), nil)
			return WrapExitError(ExitCommandError, "loading operation", err)
		}
		entry, err := doc.EntryPoint()
		if err != nil {
			formatter.Error(ErrCodeOperation, err.Error(), nil)
			return WrapExitError(ExitCommandError, "loading operation", err)
		}

		vd := verdict{File: path, Status: "accept"}
		if err := v.Verify(entry, doc.Operation()); err != nil {
			rejected++
			vd.Status = "reject"
			var verr *verify.Error
			if errors.As(err, &verr) {
				vd.Code = string(verr.Code)
				vd.Errno = verr.Errno()
				vd.Detail = verr.Detail
			} else {
				vd.Detail = err.Error()
			}
		}
		verdicts = append(verdicts, vd)
	}

	if opts.Format == "json" {
		if err := formatter.Success(map[string]any{
			"contract_id": b.ContractID,
			"verdicts":    verdicts,
			"rejected":    rejected,
		}); err != nil {
			return err
		}
	} else {
		for _, vd := range verdicts {
			if vd.Status == "accept" {
				fmt.Fprintf(cmd.OutOrStdout(), "ACCEPT %s\n", vd.File)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "REJECT %s [%s] %s\n", vd.File, vd.Code, vd.Detail)
			}
		}
	}

	if rejected > 0 {
		return WrapExitError(ExitFailure, fmt.Sprintf("%d of %d operations rejected", rejected, len(opPaths)), nil)
	}
	return nil
}
