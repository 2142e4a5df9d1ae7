package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/casualjim/rex"
	"github.com/fatih/color"
)

type console struct {
	mu sync.Mutex
	w  io.Writer
}

func newConsole(w io.Writer) *console {
	return &console{w: w}
}

func (c *console) section(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.w, color.New(color.Bold, color.FgCyan).Sprintf("== %s", name))
}

func (c *console) update(kind, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "%s: %s\n", color.MagentaString(kind), value)
}

func (c *console) taskHook() rex.TaskHook[int, string] {
	return consoleHook{c}
}

type consoleHook struct{ c *console }

func (h consoleHook) OnProgress(step int) {
	h.c.update("progress", fmt.Sprintf("step %d", step))
}

func (h consoleHook) OnResult(s string) {
	h.c.update("result", color.GreenString(s))
}

func (h consoleHook) OnError(err error) {
	h.c.update("error", color.RedString(err.Error()))
}
