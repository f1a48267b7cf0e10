package review

import (
	"github.com/charmbracelet/huh"
	"github.com/pkg/errors"
)

// FormPrompter asks questions with interactive terminal forms.
type FormPrompter struct{}

func (FormPrompter) Confirm(question string) (bool, error) {
	ok := true
	err := huh.NewConfirm().
		Title(question).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	return ok, formError(err)
}

func (FormPrompter) Choose(question string, options []string) (int, error) {
	opts := make([]huh.Option[int], len(options))
	for i, o := range options {
		opts[i] = huh.NewOption(o, i)
	}
	var choice int
	err := huh.NewSelect[int]().
		Title(question).
		Options(opts...).
		Value(&choice).
		Run()
	return choice, formError(err)
}

func formError(err error) error {
	if err == huh.ErrUserAborted {
		return ErrAborted
	}
	return errors.Wrap(err, "running form")
}
