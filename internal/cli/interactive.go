package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/dyike/CreditIntel/internal/dashboard"
	"github.com/dyike/CreditIntel/internal/display"
)

// InteractiveSession runs the dashboard with a company selector.
type InteractiveSession struct {
	app  *app
	view *dashboard.View
	out  io.Writer
}

func NewInteractiveSession(a *app) *InteractiveSession {
	return &InteractiveSession{
		app:  a,
		view: a.newView(),
		out:  a.out,
	}
}

// Start loads the company list and runs the select loop until the user quits.
func (s *InteractiveSession) Start(ctx context.Context) error {
	DisplayWelcomeBanner(s.out, s.app.cfg.APIBaseURL)
	fmt.Fprintln(s.out, display.Render(s.view, s.app.renderOptions()))

	// a failed load still shows the error screen
	_ = s.view.Load(ctx)
	return s.runMainLoop(ctx)
}

func (s *InteractiveSession) runMainLoop(ctx context.Context) error {
	for {
		ClearScreen(s.out)
		fmt.Fprintln(s.out, display.Render(s.view, s.app.renderOptions()))

		canSwitch := s.view.Screen() == dashboard.ScreenDashboard && len(s.view.Companies) > 1
		choice, err := PromptForAction(canSwitch)
		if errors.Is(err, terminal.InterruptErr) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("prompt: %w", err)
		}

		switch choice {
		case actionSwitch:
			current := ""
			if s.view.Selected != nil {
				current = s.view.Selected.Name
			}
			name, err := PromptForCompany(s.view.CompanyNames(), current)
			if errors.Is(err, terminal.InterruptErr) {
				continue
			}
			if err != nil {
				return fmt.Errorf("prompt: %w", err)
			}
			if name != current {
				_ = s.view.Select(ctx, name)
			}
		case actionRefresh:
			_ = s.view.Refresh(ctx)
		case actionSnapshot:
			path, err := display.SaveSnapshot(s.view, s.app.cfg.ResultsDir, time.Now())
			if err != nil {
				DisplayError(s.out, err.Error())
			} else {
				DisplaySuccess(s.out, "Snapshot saved to "+path)
			}
			time.Sleep(time.Second)
		case actionQuit:
			fmt.Fprintln(s.out, "👋 Goodbye!")
			return nil
		}
	}
}
