package editoripc

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/pesticide-dap/pesticide/internal/session"
)

// KakouneSender delivers editor scripts to a running Kakoune session via
// `kak -p <session>`, the editor's own pipe-to-session mechanism. Kakoune
// will not execute a piped script until the writing end is closed, so a
// fresh `kak -p` process is spawned for every command rather than held
// open, mirroring the editor's own client integration.
type KakouneSender struct {
	session string
}

// NewKakouneSender returns a Sender targeting the named Kakoune session.
func NewKakouneSender(session string) *KakouneSender {
	return &KakouneSender{session: session}
}

func (k *KakouneSender) pipe(script string) error {
	cmd := exec.Command("kak", "-p", k.session)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	if _, err := stdin.Write([]byte(script)); err != nil {
		stdin.Close()
		return err
	}
	if err := stdin.Close(); err != nil {
		return err
	}
	return cmd.Wait()
}

func (k *KakouneSender) SendJump(path string, line, column int) error {
	if column <= 0 {
		column = 1
	}
	script := fmt.Sprintf(`evaluate-commands -try-client %%opt{jumpclient} %%{
		edit %s %d %d
		set-option buffer step_indicator %%val{timestamp} "%d|{StepIndicator}%%opt{step_symbol}"
	}`, path, line, column, line)
	return k.pipe(script)
}

func (k *KakouneSender) SendClearJump(path string) error {
	script := fmt.Sprintf(`evaluate-commands %%{
		edit %s
		set-option buffer step_indicator %%val{timestamp}
	}`, path)
	return k.pipe(script)
}

func (k *KakouneSender) SendBreakpoints(breakpoints map[string][]session.Breakpoint) error {
	var b strings.Builder
	b.WriteString(`evaluate-commands %sh{
		eval set -- "$kak_quoted_buflist"
		while [ $# -gt 0 ]; do
			echo "
				edit $1
				set-option buffer breakpoints %val{timestamp}
			"
			shift
		done
	}`)

	for path, bps := range breakpoints {
		if len(bps) == 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("\ntry %%{\n\tedit %s\n\tset-option buffer breakpoints %%val{timestamp} ", path))
		for _, bp := range bps {
			b.WriteString(fmt.Sprintf(`"%d|{Breakpoint}%%opt{breakpoint_symbol}" `, bp.Line))
		}
		b.WriteString("\n}")
	}

	return k.pipe(b.String())
}
