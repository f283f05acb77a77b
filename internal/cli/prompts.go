package cli

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
)

type action string

const (
	actionSwitch   action = "Switch company"
	actionRefresh  action = "Refresh"
	actionSnapshot action = "Save Markdown snapshot"
	actionQuit     action = "Quit"
)

// PromptForCompany asks the user to pick one of names, defaulting to current.
func PromptForCompany(names []string, current string) (string, error) {
	if len(names) == 0 {
		return "", fmt.Errorf("no companies to choose from")
	}

	prompt := &survey.Select{
		Message:  "Select a company:",
		Options:  names,
		PageSize: 10,
	}
	for _, n := range names {
		if n == current {
			prompt.Default = current
			break
		}
	}

	var selected string
	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", err
	}
	return selected, nil
}

// PromptForAction asks what to do next with the dashboard on screen.
// Switching is only offered when there is more than one company.
func PromptForAction(canSwitch bool) (action, error) {
	options := []string{string(actionRefresh), string(actionSnapshot), string(actionQuit)}
	if canSwitch {
		options = append([]string{string(actionSwitch)}, options...)
	}

	var choice string
	prompt := &survey.Select{
		Message: "What next?",
		Options: options,
	}
	if err := survey.AskOne(prompt, &choice); err != nil {
		return "", err
	}
	return action(choice), nil
}

func PromptForConfirmation(message string, def bool) (bool, error) {
	confirmed := def
	prompt := &survey.Confirm{
		Message: message,
		Default: def,
	}
	err := survey.AskOne(prompt, &confirmed)
	return confirmed, err
}
