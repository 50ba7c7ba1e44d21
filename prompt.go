package main

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

const (
	minPromptSize = 10
	maxPromptSize = 20
)

// ErrAborted is returned when the user interrupts a prompt.
var ErrAborted = errors.New("prompt aborted")

// Prompter collects the puzzle input from a user.
type Prompter interface {
	Words(ctx context.Context) ([]string, error)
	BoardSize(ctx context.Context, lo, hi, def int) (int, error)
}

type surveyPrompter struct {
	opts []survey.AskOpt
}

func newSurveyPrompter(opts ...survey.AskOpt) Prompter {
	return &surveyPrompter{opts: opts}
}

func (p *surveyPrompter) Words(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out string
	prompt := &survey.Input{
		Message: "Please enter the words to place in the word search.",
		Help:    "Use a space as a separator.",
	}
	opts := append([]survey.AskOpt{survey.WithValidator(survey.Required)}, p.opts...)
	if err := survey.AskOne(prompt, &out, opts...); err != nil {
		return nil, translateSurveyErr(err)
	}
	return strings.Fields(out), nil
}

func (p *surveyPrompter) BoardSize(ctx context.Context, lo, hi, def int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	options := make([]string, 0, hi-lo+1)
	for n := lo; n <= hi; n++ {
		options = append(options, strconv.Itoa(n))
	}
	var out string
	prompt := &survey.Select{
		Message:  "Select size of word search board.",
		Options:  options,
		Default:  strconv.Itoa(def),
		PageSize: len(options),
	}
	if err := survey.AskOne(prompt, &out, p.opts...); err != nil {
		return 0, translateSurveyErr(err)
	}
	return strconv.Atoi(out)
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}
