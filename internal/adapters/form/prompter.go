package formadapter

import (
	"github.com/AlecAivazis/survey/v2"
)

// Prompter abstracts the terminal widgets so the form flow can be tested
// without a real terminal.
type Prompter interface {
	Input(message string, validate func(string) error) (string, error)
	Password(message string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
}

type surveyPrompter struct{}

func NewSurveyPrompter() Prompter {
	return &surveyPrompter{}
}

func (p *surveyPrompter) Input(message string, validate func(string) error) (string, error) {
	var out string
	prompt := &survey.Input{Message: message}
	var opts []survey.AskOpt
	if validate != nil {
		opts = append(opts, survey.WithValidator(func(ans interface{}) error {
			answer, _ := ans.(string)
			return validate(answer)
		}))
	}
	if err := survey.AskOne(prompt, &out, opts...); err != nil {
		return "", err
	}
	return out, nil
}

func (p *surveyPrompter) Password(message string) (string, error) {
	var out string
	prompt := &survey.Password{Message: message}
	if err := survey.AskOne(prompt, &out); err != nil {
		return "", err
	}
	return out, nil
}

func (p *surveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	var out bool
	prompt := &survey.Confirm{Message: message, Default: defaultValue}
	if err := survey.AskOne(prompt, &out); err != nil {
		return false, err
	}
	return out, nil
}
