package harness

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/sigil-ledger/sigil/internal/descriptor"
	"github.com/sigil-ledger/sigil/internal/issuer"
	"github.com/sigil-ledger/sigil/internal/ledger"
	"github.com/sigil-ledger/sigil/internal/store"
	"github.com/sigil-ledger/sigil/internal/verify"
)

// Verdict is the recorded outcome of one step.
type Verdict struct {
	Step   int    `json:"step"`
	Entry  string `json:"entry"`
	Status string `json:"status"`
	Code   string `json:"code,omitempty"`
	Errno  uint32 `json:"errno,omitempty"`
}

// Result holds the verdicts of a completed scenario run.
type Result struct {
	ContractID string
	Verdicts   []Verdict
}

// Run executes a scenario against a fresh database under dir.
//
// The descriptor is issued with the scenario's pinned contract id, then
// each step is applied in order. A step whose outcome differs from its
// expectation fails the run; expected rejections are recorded as
// verdicts and execution continues, since a rejected operation leaves
// the ledger untouched.
func Run(s *Scenario, dir string) (*Result, error) {
	d, err := descriptor.Parse(s.Name+".cue", []byte(s.Descriptor))
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}

	b, err := issuer.New(d, issuer.FixedGenerator{ID: s.ContractID})
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}

	st, err := store.Open(filepath.Join(dir, s.Name+".db"))
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	defer st.Close()

	ctx := context.Background()
	l := ledger.New(st, nil)
	if err := l.Issue(ctx, b); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}

	result := &Result{ContractID: s.ContractID}
	for i, step := range s.Steps {
		verdict := Verdict{Step: i + 1, Entry: step.Op.Entry, Status: ExpectAccept}

		_, err := l.Apply(ctx, s.ContractID, &step.Op)
		if err != nil {
			var verr *verify.Error
			if !errors.As(err, &verr) {
				return nil, fmt.Errorf("scenario %s step %d: %w", s.Name, i+1, err)
			}
			verdict.Status = ExpectReject
			verdict.Code = string(verr.Code)
			verdict.Errno = verr.Errno()
		}

		if verdict.Status != step.Expect {
			return nil, fmt.Errorf("scenario %s step %d: got %s (%s), expected %s",
				s.Name, i+1, verdict.Status, verdict.Code, step.Expect)
		}
		if step.Expect == ExpectReject && verdict.Code != step.Code {
			return nil, fmt.Errorf("scenario %s step %d: rejected with %s, expected %s",
				s.Name, i+1, verdict.Code, step.Code)
		}

		result.Verdicts = append(result.Verdicts, verdict)
	}

	return result, nil
}
