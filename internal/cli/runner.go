package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/idilsaglam/taskpad/internal/config"
	"github.com/idilsaglam/taskpad/internal/exchange"
	"github.com/idilsaglam/taskpad/internal/logging"
	"github.com/idilsaglam/taskpad/internal/model"
	"github.com/idilsaglam/taskpad/internal/session"
	"github.com/idilsaglam/taskpad/internal/store"
	"github.com/idilsaglam/taskpad/internal/tui"
	"github.com/idilsaglam/taskpad/internal/ui"
)

// Options tune behavior from root flags.
type Options struct {
	Group   bool   // list grouped by pending/done
	Yes     bool   // skip the replace-on-import confirmation
	Verbose bool   // debug logging
	Theme   string // overrides the configured theme
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0

	case "ls":
		return withApp(opt, func(ap *app) int { return ap.doList(opt) })

	case "ui":
		return withApp(opt, (*app).doInteractive)

	case "add":
		if len(a) == 0 {
			ui.Fail("usage: taskpad add <text...>")
			return 2
		}
		return withApp(opt, func(ap *app) int { return ap.doAdd(strings.Join(a, " ")) })

	case "done":
		n, code := indexArg(a, "done")
		if code != 0 {
			return code
		}
		return withApp(opt, func(ap *app) int { return ap.doToggle(n) })

	case "rm":
		n, code := indexArg(a, "rm")
		if code != 0 {
			return code
		}
		return withApp(opt, func(ap *app) int { return ap.doRemove(n) })

	case "export":
		if len(a) > 1 {
			ui.Fail("usage: taskpad export [path]")
			return 2
		}
		path := ""
		if len(a) == 1 {
			path = a[0]
		}
		return withApp(opt, func(ap *app) int { return ap.doExport(path) })

	case "import":
		if len(a) != 1 {
			ui.Fail("usage: taskpad import <file.txt>")
			return 2
		}
		return withApp(opt, func(ap *app) int { return ap.doImport(a[0], opt) })

	case "persist":
		if len(a) != 1 {
			ui.Fail("usage: taskpad persist <on|off|status>")
			return 2
		}
		return withApp(opt, func(ap *app) int { return ap.doPersist(a[0]) })

	case "sample":
		return withApp(opt, (*app).doSample)
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(os.Stderr)
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Printf(`taskpad - a tiny task list manager

Usage:
  taskpad <subcommand> [args]

Subcommands:
  add <text...>      Add a new task (text can be multiple words)
  ls                 List tasks
  ui                 Interactive list (toggle, edit, delete, undo)
  done <index>       Toggle done for task at 1-based index
  rm <index>         Remove task at 1-based index
  export [path]      Write tasks as a text file (default tasks_<date>.txt)
  import <file.txt>  Replace tasks from a text file
  persist <on|off|status>   Control mirroring to local storage
  sample             Load a few sample tasks

Examples:
  taskpad add "Buy milk"
  taskpad ls
  taskpad done 2
  taskpad export
  taskpad import tasks_2026-08-26.txt
`)
}

func indexArg(a []string, cmd string) (int, int) {
	if len(a) != 1 {
		ui.Fail(fmt.Sprintf("usage: taskpad %s <index>", cmd))
		return 0, 2
	}
	n, err := strconv.Atoi(a[0])
	if err != nil {
		ui.Fail(cmd + ": not a number: " + a[0])
		return 0, 2
	}
	return n, 0
}

// -------------- wiring ----------------

type app struct {
	cfg  config.Config
	sess *session.Session
}

func withApp(opt Options, fn func(*app) int) int {
	cfg, err := config.Load()
	if err != nil {
		ui.Fail("config: " + err.Error())
		return 1
	}
	if opt.Theme != "" {
		cfg.Theme = opt.Theme
	}
	ui.SetTheme(cfg.Theme)

	level := cfg.LogLevel
	if opt.Verbose {
		level = "debug"
	}
	logger := logging.New(level)

	st := store.New(store.NewDirKV(cfg.DataDir))
	return fn(&app{cfg: cfg, sess: session.Open(st, logger)})
}

// -------------- subcommand impls ----------------

func (ap *app) doList(opt Options) int {
	tasks := ap.sess.Tasks()

	// Header + progress
	d, p := stats(tasks)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		ui.C(ui.Current().Title, "Tasks"),
		ui.C(ui.Current().Success, ui.Current().SymDone), d,
		ui.C(ui.Current().Pending, ui.Current().SymUnchecked), p,
		ui.C(ui.Current().Accent, "Total"), len(tasks),
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, ui.C(ui.Current().Muted, ui.ProgressBar(d, d+p, 28)))
	lines = append(lines, "")

	if opt.Group {
		lines = append(lines, groupLines(tasks)...)
	} else {
		lines = append(lines, flatLines(tasks)...)
	}
	lines = append(lines, "")
	if ap.sess.Persistent() {
		lines = append(lines, ui.C(ui.Current().Muted, "Persistence: on"))
	} else {
		lines = append(lines, ui.C(ui.Current().Muted, "Persistence: off (changes are not saved)"))
	}
	ui.Panel(lines)
	return 0
}

func (ap *app) doInteractive() int {
	if err := tui.Run(ap.sess); err != nil {
		ui.Fail("ui: " + err.Error())
		return 1
	}
	return 0
}

func (ap *app) doAdd(text string) int {
	task, err := ap.sess.Add(text)
	if err != nil {
		ui.Fail("add: " + err.Error())
		return 2
	}
	ui.OK("added " + strconv.Quote(task.Text))
	if ap.sess.Dirty() {
		ui.Hint("Note: persistence is off; run `taskpad persist on` to keep changes")
	}
	return 0
}

func (ap *app) doToggle(userIndex int) int {
	task, err := ap.sess.Toggle(userIndex - 1)
	if err != nil {
		ui.Fail("done: " + err.Error())
		ui.Hint("Hint: run `taskpad ls` to see valid indexes")
		return 2
	}
	if task.Done {
		ui.OK("done " + strconv.Quote(task.Text))
	} else {
		ui.OK("reopened " + strconv.Quote(task.Text))
	}
	return 0
}

func (ap *app) doRemove(userIndex int) int {
	task, err := ap.sess.Remove(userIndex - 1)
	if err != nil {
		ui.Fail("rm: " + err.Error())
		ui.Hint("Hint: run `taskpad ls` to see valid indexes")
		return 2
	}
	ui.OK("removed " + strconv.Quote(task.Text))
	return 0
}

func (ap *app) doExport(path string) int {
	if path == "" {
		path = exchange.Filename(time.Now())
	}
	data := exchange.Export(ap.sess.Tasks())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		ui.Fail("export: " + err.Error())
		return 1
	}
	ui.OK(fmt.Sprintf("exported %d tasks to %s", ap.sess.Len(), path))
	return 0
}

func (ap *app) doImport(path string, opt Options) int {
	fi, err := os.Stat(path)
	if err != nil {
		ui.Fail("import: " + err.Error())
		return 1
	}
	if fi.Size() > exchange.MaxImportBytes {
		ui.Fail("import: " + exchange.ErrTooLarge.Error())
		return 1
	}
	data, err := os.ReadFile(path)
	if err != nil {
		ui.Fail("import: " + err.Error())
		return 1
	}
	tasks, err := exchange.Parse(filepath.Base(path), "", data)
	if err != nil {
		ui.Fail("import: " + err.Error())
		ui.Hint("Existing tasks were left untouched")
		return 1
	}

	if ap.sess.Len() > 0 && ap.cfg.ConfirmImport && !opt.Yes {
		fmt.Printf("Replace %d existing tasks with %d imported? [y/N] ", ap.sess.Len(), len(tasks))
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
		default:
			ui.OK("import cancelled")
			return 0
		}
	}

	ap.sess.Replace(tasks)
	ui.OK(fmt.Sprintf("imported %d tasks from %s", len(tasks), path))
	return 0
}

func (ap *app) doPersist(arg string) int {
	switch arg {
	case "on":
		if err := ap.sess.SetPersistence(true); err != nil {
			ui.Fail("persist: " + err.Error())
			return 1
		}
		ui.OK("persistence on")
		return 0
	case "off":
		if err := ap.sess.SetPersistence(false); err != nil {
			ui.Fail("persist: " + err.Error())
			return 1
		}
		ui.OK("persistence off (tasks stay in memory per run)")
		return 0
	case "status":
		if ap.sess.Persistent() {
			fmt.Println("persistence: on")
		} else {
			fmt.Println("persistence: off")
		}
		fmt.Println("data dir:", ap.cfg.DataDir)
		return 0
	}
	ui.Fail("usage: taskpad persist <on|off|status>")
	return 2
}

var sampleTasks = []string{
	"Buy milk",
	"Walk the dog",
	"Write weekly review",
	"Water the plants",
}

func (ap *app) doSample() int {
	added, skipped := 0, 0
	for _, text := range sampleTasks {
		if _, err := ap.sess.Add(text); err != nil {
			skipped++
			continue
		}
		added++
	}
	ui.OK(fmt.Sprintf("sample data: %d added, %d skipped", added, skipped))
	return 0
}

// -------------- rendering helpers --------------

func stats(tasks []model.Task) (done, pending int) {
	for _, t := range tasks {
		if t.Done {
			done++
		} else {
			pending++
		}
	}
	return
}

func flatLines(tasks []model.Task) []string {
	if len(tasks) == 0 {
		return []string{ui.C(ui.Current().Muted, "no tasks")}
	}
	out := make([]string, 0, len(tasks))
	for i, t := range tasks {
		idx := fmt.Sprintf("%2d.", i+1)
		box := ui.Current().BoxUnchecked
		color := ui.Current().Muted
		if t.Done {
			box, color = ui.Current().BoxChecked, ui.Current().Success
		}
		text := t.Text
		if len([]rune(text)) > 80 {
			text = string([]rune(text)[:77]) + "..."
		}
		out = append(out, fmt.Sprintf("%s %s %s",
			ui.C("\033[2m", idx), ui.C(color, box), text))
	}
	return out
}

func groupLines(tasks []model.Task) []string {
	var pend, done []model.Task
	for _, t := range tasks {
		if t.Done {
			done = append(done, t)
		} else {
			pend = append(pend, t)
		}
	}
	var lines []string
	lines = append(lines, ui.C(ui.Current().Accent, "Pending"))
	if len(pend) == 0 {
		lines = append(lines, ui.C(ui.Current().Muted, "(none)"))
	} else {
		lines = append(lines, flatLines(pend)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(ui.Current().Accent, "Done"))
	if len(done) == 0 {
		lines = append(lines, ui.C(ui.Current().Muted, "(none)"))
	} else {
		lines = append(lines, flatLines(done)...)
	}
	return lines
}
