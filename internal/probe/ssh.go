package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// SSHProber runs a command on a remote host through the local ssh
// binary and succeeds when the command exits zero. Context cancellation
// kills the subprocess.
type SSHProber struct {
	Hostname string
	Command  string
	User     string
}

func NewSSH(hostname, command, user string) *SSHProber {
	return &SSHProber{Hostname: hostname, Command: command, User: user}
}

func (p *SSHProber) Name() string {
	return fmt.Sprintf("ssh %s: '%s'", p.Hostname, p.Command)
}

func (p *SSHProber) args() []string {
	args := []string{p.Hostname}
	if p.User != "" {
		args = append(args, "-l"+p.User)
	}
	return append(args, p.Command)
}

func (p *SSHProber) Probe(ctx context.Context, note func(string)) error {
	cmd := exec.CommandContext(ctx, "ssh", p.args()...)
	cmd.Stdin = nil

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	log := fmt.Sprintf("Stdout:\n%sStderr:\n%s", stdout.String(), stderr.String())

	if err != nil {
		code := "'none'"
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
			code = fmt.Sprintf("%d", exitErr.ExitCode())
		}
		return fmt.Errorf("command returned exit code %s\n%s", code, log)
	}

	send(note, log)
	return nil
}
