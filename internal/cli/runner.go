package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/idilsaglam/todosync/internal/config"
	"github.com/idilsaglam/todosync/internal/devserver"
	"github.com/idilsaglam/todosync/internal/remote"
	"github.com/idilsaglam/todosync/internal/todos"
	"github.com/idilsaglam/todosync/internal/tui"
	"github.com/idilsaglam/todosync/internal/ui"
)

// Options carry everything the root command resolved.
type Options struct {
	Config *config.Config
	Logger *zap.Logger
	// Service overrides the HTTP client built from Config.BaseURL.
	Service todos.Service
	// ConfigPath is the --config flag, used by "config init".
	ConfigPath string
	Out, Err   io.Writer
}

type runner struct {
	ctx context.Context
	opt Options
	cfg *config.Config
	log *zap.Logger
	out ui.Printer
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
// No subcommand starts the interactive UI.
func Run(ctx context.Context, args []string, opt Options) int {
	if opt.Out == nil {
		opt.Out = os.Stdout
	}
	if opt.Err == nil {
		opt.Err = os.Stderr
	}
	if opt.Logger == nil {
		opt.Logger = zap.NewNop()
	}
	r := &runner{ctx: ctx, opt: opt, cfg: opt.Config, log: opt.Logger, out: ui.Printer{Out: opt.Out, Err: opt.Err}}
	if r.cfg == nil {
		r.out.Fail("no configuration")
		return 1
	}

	if len(args) == 0 {
		return r.interactive()
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(opt.Out)
		return 0

	case "ls":
		return r.list()

	case "add":
		if len(a) == 0 {
			r.out.Fail("usage: todo add <description...>")
			return 2
		}
		return r.add(strings.Join(a, " "))

	case "edit":
		if len(a) < 2 {
			r.out.Fail("usage: todo edit <id> <description...>")
			return 2
		}
		id, ok := r.parseID("edit", a[0])
		if !ok {
			return 2
		}
		return r.edit(id, strings.Join(a[1:], " "))

	case "rm":
		if len(a) != 1 {
			r.out.Fail("usage: todo rm <id>")
			return 2
		}
		id, ok := r.parseID("rm", a[0])
		if !ok {
			return 2
		}
		return r.remove(id)

	case "tui":
		return r.interactive()

	case "serve":
		return r.serve()

	case "config":
		return r.configCmd(a)
	}

	r.out.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(opt.Err)
	PrintHelp(opt.Err)
	return 2
}

// PrintHelp writes usage to w.
func PrintHelp(w io.Writer) {
	fmt.Fprintf(w, `todo - a to-do list synced with a todo service

Usage:
  todo [flags] [subcommand] [args]

Subcommands:
  (none) | tui                 Interactive list
  ls                           List todos
  add <description...>         Create a todo
  edit <id> <description...>   Change a todo's description
  rm <id>                      Delete a todo
  serve                        Run a local todo service
  config init [path]           Write an example config file
  config show                  Print the effective config
  help                         Show this help

Flags:
  -config path      config file (default ~/.todo/config.toml)
  -base-url url     todo service root
  -layout l         inline, modal or table
  -theme t          classic, neon or mono
  -on-failure p     keep or refetch after a failed edit/delete
  -log-file path    log file, "-" for stderr
  -log-level l      debug, info, warn or error

Examples:
  todo add "Buy milk"
  todo ls
  todo edit 3 "Buy oat milk"
  todo rm 3
  todo -base-url http://127.0.0.1:5000 serve
`)
}

func (r *runner) parseID(cmd, s string) (int, bool) {
	id, err := strconv.Atoi(s)
	if err != nil {
		r.out.Fail(cmd + ": not an id: " + s)
		r.out.Hint("Hint: run `todo ls` to see ids")
		return 0, false
	}
	return id, true
}

func (r *runner) service() todos.Service {
	if r.opt.Service != nil {
		return r.opt.Service
	}
	return remote.NewClient(r.cfg.BaseURL, remote.ClientOptions{
		Timeout: r.cfg.Timeout,
		Logger:  r.log,
	})
}

func (r *runner) session() (*todos.Session, error) {
	policy, err := todos.ParseFailurePolicy(r.cfg.OnFailure)
	if err != nil {
		return nil, err
	}
	return todos.NewSession(r.service(), todos.WithFailurePolicy(policy), todos.WithLogger(r.log)), nil
}

// fail reports a remote failure and returns exit code 1.
func (r *runner) fail(err error) int {
	r.out.Fail(err.Error())
	switch remote.Classify(err) {
	case remote.FailureNetwork:
		r.out.Hint("Hint: is the service at " + r.cfg.BaseURL + " reachable?")
	case remote.FailureStatus:
		var se *remote.StatusError
		if errors.As(err, &se) && se.Code == 404 {
			r.out.Hint("Hint: run `todo ls` to see ids")
		}
	}
	return 1
}

// -------------- subcommand impls ----------------

func (r *runner) list() int {
	s, err := r.session()
	if err != nil {
		r.out.Fail(err.Error())
		return 1
	}
	if err := s.LoadAll(r.ctx); err != nil {
		return r.fail(err)
	}
	lines := ui.ListLines(r.opt.Out, "Todos", s.Items())
	lines = append(lines, "", ui.C(ui.Current().Muted, "Tip: add with `todo add \"Buy milk\"`"))
	ui.Panel(r.opt.Out, lines)
	return 0
}

func (r *runner) add(description string) int {
	s, err := r.session()
	if err != nil {
		r.out.Fail(err.Error())
		return 1
	}
	item, err := s.CreateItem(r.ctx, description)
	if err != nil {
		return r.fail(err)
	}
	r.out.OK(fmt.Sprintf("added #%d", item.ID))
	return 0
}

func (r *runner) edit(id int, description string) int {
	s, err := r.session()
	if err != nil {
		r.out.Fail(err.Error())
		return 1
	}
	if err := s.UpdateItem(r.ctx, id, description); err != nil {
		return r.fail(err)
	}
	r.out.OK(fmt.Sprintf("updated #%d", id))
	return 0
}

func (r *runner) remove(id int) int {
	s, err := r.session()
	if err != nil {
		r.out.Fail(err.Error())
		return 1
	}
	if err := s.DeleteItem(r.ctx, id); err != nil {
		return r.fail(err)
	}
	r.out.OK(fmt.Sprintf("removed #%d", id))
	return 0
}

func (r *runner) interactive() int {
	layout, err := tui.ParseLayout(r.cfg.Layout)
	if err != nil {
		r.out.Fail(err.Error())
		return 2
	}
	policy, err := todos.ParseFailurePolicy(r.cfg.OnFailure)
	if err != nil {
		r.out.Fail(err.Error())
		return 2
	}
	err = tui.Run(r.ctx, r.service(), tui.Options{
		Layout: layout,
		Policy: policy,
		Title:  "Todos",
		Logger: r.log,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		r.out.Fail("tui: " + err.Error())
		return 1
	}
	return 0
}

func (r *runner) serve() int {
	sc := r.cfg.Serve
	store, err := devserver.Open(r.ctx, sc.Store, sc.File, sc.DSN)
	if err != nil {
		r.out.Fail("serve: " + err.Error())
		return 1
	}
	defer func() { _ = store.Close() }()

	r.out.OK(fmt.Sprintf("serving %s store on http://%s", sc.Store, sc.Addr))
	if err := devserver.New(store, r.log).Start(r.ctx, sc.Addr); err != nil {
		r.out.Fail("serve: " + err.Error())
		return 1
	}
	return 0
}

func (r *runner) configCmd(a []string) int {
	if len(a) == 0 {
		r.out.Fail("usage: todo config init [path] | todo config show")
		return 2
	}
	switch a[0] {
	case "show":
		if r.cfg.Path != "" {
			fmt.Fprintln(r.opt.Out, "# read from "+r.cfg.Path)
		}
		if err := config.WriteExample(r.opt.Out, r.cfg); err != nil {
			r.out.Fail(err.Error())
			return 1
		}
		return 0

	case "init":
		path := r.opt.ConfigPath
		if len(a) > 1 {
			path = a[1]
		}
		if path == "" {
			p, err := config.DefaultPath()
			if err != nil {
				r.out.Fail(err.Error())
				return 1
			}
			path = p
		}
		if err := config.InitFile(path, r.cfg); err != nil {
			r.out.Fail("config init: " + err.Error())
			return 1
		}
		r.out.OK("wrote " + path)
		return 0
	}
	r.out.Fail("unknown config command: " + a[0])
	return 2
}
