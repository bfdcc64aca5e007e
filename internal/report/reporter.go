// Package report prints check updates as they arrive. It is a pure
// sink; failure accounting happens in the task runner.
package report

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/checkmon/checkmon/internal/check"
)

type Reporter struct {
	Logger   *zap.Logger
	Registry check.Registry
	Out      io.Writer
}

func New(logger *zap.Logger, registry check.Registry, out io.Writer) *Reporter {
	return &Reporter{Logger: logger, Registry: registry, Out: out}
}

// Run drains updates until the channel closes. Message lines print
// indented under the status line.
func (r *Reporter) Run(updates <-chan check.Update) {
	for u := range updates {
		name := "unknown check"
		if info, ok := r.Registry[u.ID]; ok {
			name = info.Name
		} else {
			r.Logger.Error("unknown_check_id", zap.Int("id", u.ID))
		}

		fmt.Fprintf(r.Out, "%s: %s\n", name, u.Describe())

		if u.Message != "" && u.Status != check.StatusWaiting {
			for _, line := range strings.Split(u.Message, "\n") {
				fmt.Fprintf(r.Out, "    %s\n", line)
			}
		}
	}
}
