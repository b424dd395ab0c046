package api

import (
	"context"
	"fmt"

	"github.com/chanyong1027/sesac-team2-sub001/transport"
)

// Workspaces wraps the workspace CRUD endpoints.
type Workspaces struct {
	client *transport.Client
}

func NewWorkspaces(client *transport.Client) *Workspaces {
	return &Workspaces{client: client}
}

func (w *Workspaces) List(ctx context.Context) ([]Workspace, error) {
	var out []Workspace
	if err := w.client.Get(ctx, "/workspaces", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (w *Workspaces) Get(ctx context.Context, id int64) (*Workspace, error) {
	var out Workspace
	if err := w.client.Get(ctx, fmt.Sprintf("/workspaces/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Prompts wraps the prompt endpoints of a workspace.
type Prompts struct {
	client *transport.Client
}

func NewPrompts(client *transport.Client) *Prompts {
	return &Prompts{client: client}
}

func (p *Prompts) List(ctx context.Context, workspaceID int64) ([]Prompt, error) {
	var out []Prompt
	if err := p.client.Get(ctx, fmt.Sprintf("/workspaces/%d/prompts", workspaceID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Prompts) Create(ctx context.Context, workspaceID int64, name, content string) (*Prompt, error) {
	var out Prompt
	body := map[string]string{"name": name, "content": content}
	if err := p.client.Post(ctx, fmt.Sprintf("/workspaces/%d/prompts", workspaceID), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Budgets wraps the workspace budget endpoint.
type Budgets struct {
	client *transport.Client
}

func NewBudgets(client *transport.Client) *Budgets {
	return &Budgets{client: client}
}

func (b *Budgets) Get(ctx context.Context, workspaceID int64) (*Budget, error) {
	var out Budget
	if err := b.client.Get(ctx, fmt.Sprintf("/workspaces/%d/budget", workspaceID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logs wraps the usage log endpoint.
type Logs struct {
	client *transport.Client
}

func NewLogs(client *transport.Client) *Logs {
	return &Logs{client: client}
}

func (l *Logs) List(ctx context.Context, workspaceID int64) ([]LogEntry, error) {
	var out []LogEntry
	if err := l.client.Get(ctx, fmt.Sprintf("/workspaces/%d/logs", workspaceID), &out); err != nil {
		return nil, err
	}
	return out, nil
}
