package main

import (
	"context"

	"github.com/vongohren/fpl-ai-assist/internal/fplapi"
	"github.com/vongohren/fpl-ai-assist/internal/prompt"
)

// PromptContextArgs is the input schema for the get_prompt_context tool.
type PromptContextArgs struct {
	ManagerID int    `json:"manager_id,omitempty" jsonschema:"FPL manager (entry) id; 0 uses the configured default"`
	Template  string `json:"template,omitempty" jsonschema:"Optional template text with {{GW}}, {{BANK}}, {{FT}}, {{CHIPS_AVAILABLE}} placeholders"`
}

// PromptContextResult is the output of the get_prompt_context tool.
type PromptContextResult struct {
	ManagerID int               `json:"manager_id"`
	Gameweek  int               `json:"gameweek"`
	Variables map[string]string `json:"variables"`
	Populated string            `json:"populated,omitempty"`
	Note      string            `json:"note,omitempty"`
}

func (a *App) buildPromptContext(ctx context.Context, args PromptContextArgs) (*PromptContextResult, error) {
	managerID, err := a.resolveManagerID(args.ManagerID)
	if err != nil {
		return nil, err
	}

	gw, err := a.currentGameweek(ctx)
	if err != nil {
		return nil, err
	}

	history, err := a.history(ctx, managerID)
	if err != nil {
		return nil, err
	}

	var myTeam *fplapi.MyTeam
	note := ""
	if a.client.HasCredentials() {
		team, err := a.myTeam(ctx, managerID)
		if err == nil {
			myTeam = &team
		} else {
			a.log.Warn("authenticated team fetch failed for prompt context",
				"manager_id", managerID, "err", err)
			note = "authenticated team state unavailable; free transfers assume the standard 1"
		}
	} else {
		note = "no credentials configured; free transfers assume the standard 1"
	}

	vars := prompt.ExtractVariables(gw, history, myTeam)
	result := &PromptContextResult{
		ManagerID: managerID,
		Gameweek:  gw,
		Variables: vars,
		Note:      note,
	}
	if args.Template != "" {
		result.Populated = prompt.Populate(args.Template, vars)
	}
	return result, nil
}
