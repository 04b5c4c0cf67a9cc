package dashboard

import (
	"context"
	"fmt"
)

// Prompt is what the user is asked before a destructive or editing action.
type Prompt struct {
	Title        string
	Text         string
	ConfirmLabel string
	CancelLabel  string
	Danger       bool
}

// Confirmer asks the user to accept or decline a prompt.
type Confirmer interface {
	Confirm(ctx context.Context, p Prompt) (bool, error)
}

type ConfirmFunc func(ctx context.Context, p Prompt) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, p Prompt) (bool, error) { return f(ctx, p) }

// Decision is a confirmer with a fixed answer.
type Decision bool

const (
	Accept  Decision = true
	Decline Decision = false
)

func (d Decision) Confirm(context.Context, Prompt) (bool, error) { return bool(d), nil }

// PromptRequired is returned by a confirmer that cannot answer yet; the caller
// shows Prompt and repeats the action with the user's decision.
type PromptRequired struct {
	Prompt Prompt
}

func (e *PromptRequired) Error() string { return fmt.Sprintf("confirmation required: %s", e.Prompt.Title) }

func deletePrompt(name string) Prompt {
	text := "The product will be deleted. This cannot be undone."
	if name != "" {
		text = fmt.Sprintf("%q will be deleted. This cannot be undone.", name)
	}
	return Prompt{
		Title:        "Are you sure?",
		Text:         text,
		ConfirmLabel: "Yes, delete it",
		CancelLabel:  "Cancel",
		Danger:       true,
	}
}

func updatePrompt(name string) Prompt {
	return Prompt{
		Title:        "Save changes?",
		Text:         fmt.Sprintf("Changes to %q will overwrite the stored product.", name),
		ConfirmLabel: "Save changes",
		CancelLabel:  "Keep editing",
	}
}

func createPrompt(name string) Prompt {
	return Prompt{
		Title:        "Add product?",
		Text:         fmt.Sprintf("%q will be added to the inventory.", name),
		ConfirmLabel: "Add product",
		CancelLabel:  "Keep editing",
	}
}
