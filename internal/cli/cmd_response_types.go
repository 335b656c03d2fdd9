package cli

import "github.com/odysseus0/feedsync/internal/paging"

type StepResponse struct {
	LoadType string `json:"load_type" yaml:"load_type"`
	Outcome  string `json:"outcome" yaml:"outcome"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
}

type LoadResponse struct {
	StepResponse    `yaml:",inline"`
	EndOfPagination bool  `json:"end_of_pagination" yaml:"end_of_pagination"`
	Stats           Stats `json:"stats" yaml:"stats"`
}

type SyncResponse struct {
	Steps      []StepResponse `json:"steps" yaml:"steps"`
	Pages      int            `json:"pages" yaml:"pages"`
	EndReached bool           `json:"end_reached" yaml:"end_reached"`
	Stalled    bool           `json:"stalled" yaml:"stalled"`
	Error      string         `json:"error,omitempty" yaml:"error,omitempty"`
	Stats      Stats          `json:"stats" yaml:"stats"`
}

func newStepResponse(step paging.Step) StepResponse {
	resp := StepResponse{
		LoadType: string(step.LoadType),
		Outcome:  step.Outcome.Kind.String(),
	}
	if step.Outcome.Err != nil {
		resp.Error = step.Outcome.Err.Error()
	}
	return resp
}

func newSyncResponse(rep paging.SyncReport, stats Stats) SyncResponse {
	resp := SyncResponse{
		Steps:      make([]StepResponse, 0, len(rep.Steps)),
		Pages:      rep.Pages,
		EndReached: rep.EndReached,
		Stalled:    rep.Stalled,
		Stats:      stats,
	}
	for _, s := range rep.Steps {
		resp.Steps = append(resp.Steps, newStepResponse(s))
	}
	if rep.Err != nil {
		resp.Error = rep.Err.Error()
	}
	return resp
}
