package app

import (
	"runtime"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/oxed/internal/config"
	"github.com/kobzarvs/oxed/internal/highlight"
	"github.com/kobzarvs/oxed/internal/logger"
	"github.com/kobzarvs/oxed/internal/session"
)

// App is the top-level runtime for oxed.
type App struct {
	args []string
}

func New(args []string) *App {
	return &App{args: args}
}

func (a *App) Run() error {
	runtime.LockOSThread()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	langs, err := config.LoadLanguages()
	if err != nil {
		return err
	}

	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	s.EnableMouse()
	defer s.Fini()

	sess, err := session.NewManager()
	if err != nil {
		logger.Warn("session unavailable", "err", err)
		sess = nil
	}

	hl := highlight.New(langs)
	ed := NewEditor(cfg, hl, sess)
	defer ed.Shutdown()

	if len(a.args) > 0 {
		if err := ed.OpenFile(a.args[0]); err != nil {
			return err
		}
	} else if sess != nil {
		if last := sess.GetActiveFile(); last != "" {
			if err := ed.OpenFile(last); err != nil {
				logger.Warn("could not reopen last file", "path", last, "err", err)
			}
		}
	}

	ed.Render(s)
	for {
		ev := s.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ed.HandleKey(ev) {
				return nil
			}
		case *tcell.EventMouse:
			ed.HandleMouse(ev)
		case *tcell.EventResize:
			s.Sync()
		}
		ed.Render(s)
	}
}
