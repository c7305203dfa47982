package api

import (
	"context"
	"fmt"
	"net/http"
	"slices"

	"github.com/danielgtaylor/huma/v2"

	"github.com/scheerer/indicator-lights/lights"
)

type SetLightRequest struct {
	Type string `path:"type" example:"notifications" doc:"Light role"`
	Body struct {
		Color string `json:"color" example:"0xff0000ff" doc:"ARGB colour as 0xAARRGGBB, #AARRGGBB or #RRGGBB"`
		Flash string `json:"flash,omitempty" enum:"none,timed,hardware" doc:"Flash mode, none when omitted"`
		OnMs  int32  `json:"on_ms,omitempty" doc:"Time on per blink cycle in milliseconds"`
		OffMs int32  `json:"off_ms,omitempty" doc:"Time off per blink cycle in milliseconds"`
	}
}

type SetLightResponse struct {
	Body struct {
		Status string `json:"status" example:"SUCCESS"`
	}
}

type TypesResponse struct {
	Body struct {
		Types []string `json:"types" doc:"Supported light roles, ordered by role value"`
	}
}

type LightState struct {
	Type  string `json:"type"`
	Color string `json:"color"`
	Flash string `json:"flash"`
	OnMs  int32  `json:"on_ms"`
	OffMs int32  `json:"off_ms"`
}

type StateResponse struct {
	Body struct {
		Requests  []LightState `json:"requests"`
		Indicator string       `json:"indicator" doc:"Role shown on the indicator LED, empty when off"`
		Backlight uint32       `json:"backlight" doc:"Last value written to the backlight"`
	}
}

func registerLightRoutes(api huma.API, opts Options) {
	huma.Register(api, huma.Operation{
		OperationID: "set-light",
		Method:      http.MethodPut,
		Path:        "/api/lights/{type}",
		Summary:     "Set light",
		Description: "Replace the request for a light role and update the hardware.",
		Tags:        []string{"lights"},
		Errors:      []int{400, 404, 500},
	}, func(ctx context.Context, input *SetLightRequest) (*SetLightResponse, error) {
		t, err := lights.ParseType(input.Type)
		if err != nil {
			return nil, huma.Error400BadRequest("Invalid light type", err)
		}
		state, err := parseState(input)
		if err != nil {
			return nil, huma.Error400BadRequest("Invalid light state", err)
		}

		status, err := opts.Lights.SetLight(t, state)
		if status == lights.StatusLightNotSupported {
			return nil, huma.Error404NotFound(fmt.Sprintf("Light %s is not supported", t))
		}
		if err != nil {
			return nil, huma.Error500InternalServerError("Failed to write light", err)
		}

		resp := &SetLightResponse{}
		resp.Body.Status = status.String()
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-light-types",
		Method:      http.MethodGet,
		Path:        "/api/lights/types",
		Summary:     "Supported light types",
		Tags:        []string{"lights"},
	}, func(ctx context.Context, input *struct{}) (*TypesResponse, error) {
		resp := &TypesResponse{}
		resp.Body.Types = []string{}
		for _, t := range opts.Lights.SupportedTypes() {
			resp.Body.Types = append(resp.Body.Types, t.String())
		}
		return resp, nil
	})

	if opts.State == nil {
		return
	}

	huma.Register(api, huma.Operation{
		OperationID: "get-light-state",
		Method:      http.MethodGet,
		Path:        "/api/lights/state",
		Summary:     "Light state",
		Description: "Stored indicator requests, the role currently shown and the backlight level.",
		Tags:        []string{"lights"},
	}, func(ctx context.Context, input *struct{}) (*StateResponse, error) {
		snap := opts.State.Snapshot()

		resp := &StateResponse{}
		resp.Body.Backlight = snap.Backlight
		if snap.Lit {
			resp.Body.Indicator = snap.Winner.String()
		}

		types := make([]lights.Type, 0, len(snap.Requests))
		for t := range snap.Requests {
			types = append(types, t)
		}
		slices.Sort(types)
		resp.Body.Requests = make([]LightState, 0, len(types))
		for _, t := range types {
			s := snap.Requests[t]
			resp.Body.Requests = append(resp.Body.Requests, LightState{
				Type:  t.String(),
				Color: fmt.Sprintf("0x%08x", s.Color),
				Flash: s.FlashMode.String(),
				OnMs:  s.FlashOnMs,
				OffMs: s.FlashOffMs,
			})
		}
		return resp, nil
	})
}

func parseState(input *SetLightRequest) (lights.State, error) {
	color, err := lights.ParseColor(input.Body.Color)
	if err != nil {
		return lights.State{}, err
	}
	flash, err := lights.ParseFlash(input.Body.Flash)
	if err != nil {
		return lights.State{}, err
	}
	return lights.State{
		Color:      color,
		FlashMode:  flash,
		FlashOnMs:  input.Body.OnMs,
		FlashOffMs: input.Body.OffMs,
	}, nil
}
