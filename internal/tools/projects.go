package tools

import "context"

func (d *Dispatcher) handleGetComponents(ctx context.Context, args fileKeyArgs) (any, error) {
	return d.api.GetComponents(ctx, args.FileKey)
}

func (d *Dispatcher) handleGetStyles(ctx context.Context, args fileKeyArgs) (any, error) {
	return d.api.GetStyles(ctx, args.FileKey)
}

type teamArgs struct {
	TeamID string `json:"team_id"`
}

func (d *Dispatcher) handleGetTeamProjects(ctx context.Context, args teamArgs) (any, error) {
	return d.api.GetTeamProjects(ctx, args.TeamID)
}

type projectArgs struct {
	ProjectID string `json:"project_id"`
}

func (d *Dispatcher) handleGetProjectFiles(ctx context.Context, args projectArgs) (any, error) {
	return d.api.GetProjectFiles(ctx, args.ProjectID)
}
