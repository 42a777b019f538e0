package main

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// Process владеет запущенным бинарником сервера и копит его вывод,
// чтобы показать его при падении тестов.
type Process struct {
	cmd    *exec.Cmd
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func NewProcess(ctx context.Context, command string, args ...string) *Process {
	p := &Process{
		cmd:    exec.CommandContext(ctx, command, args...),
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
	p.cmd.Stdout = p.stdout
	p.cmd.Stderr = p.stderr
	return p
}

func (p *Process) Start(ctx context.Context) error {
	started := make(chan error, 1)
	go func() {
		started <- p.cmd.Start()
	}()
	select {
	case err := <-started:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Process) Output() (stdout, stderr string) {
	return p.stdout.String(), p.stderr.String()
}

// Stop убивает процесс и возвращает его код выхода.
func (p *Process) Stop() (exitCode int, err error) {
	if err := p.cmd.Process.Kill(); err != nil {
		return -1, fmt.Errorf("kill server process: %w", err)
	}
	state, err := p.cmd.Process.Wait()
	if err != nil {
		return -1, err
	}
	return state.ExitCode(), nil
}
