package cmd

import (
	"fmt"

	"video-trimmer/domain/video"

	"github.com/AlecAivazis/survey/v2"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	var result string
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

// confirmOverwrite adapts a Prompter to the service's overwrite decision.
// Declining is the default answer.
func confirmOverwrite(p Prompter) video.ConfirmFunc {
	return func(path string) (bool, error) {
		return p.Confirm(fmt.Sprintf("%s already exists. Overwrite?", path), false)
	}
}
