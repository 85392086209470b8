package controller

import (
	"context"
	"net/http"

	"github.com/JRBGitHub/scheadule-desvio/model"
	"github.com/JRBGitHub/scheadule-desvio/service"

	"github.com/danielgtaylor/huma/v2"
)

type InstrumentRICInput struct {
	RIC string `path:"ric" doc:"Instrument RIC" example:"ARGD35D1=BA"`
}

type InstrumentController struct {
	instrumentSvc service.InstrumentService
}

func NewInstrumentController(s service.InstrumentService) *InstrumentController {
	return &InstrumentController{instrumentSvc: s}
}

func (ctrl *InstrumentController) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "instrument-options",
		Method:      http.MethodGet,
		Path:        "/api/v1/instruments/options",
		Summary:     "Instrument Options",
		Description: "Selectable values for every instrument attribute",
		Tags:        []string{"Instruments"},
	}, ctrl.GetOptions)

	huma.Register(api, huma.Operation{
		OperationID: "instrument-presets",
		Method:      http.MethodGet,
		Path:        "/api/v1/instruments/presets",
		Summary:     "Preset Instruments",
		Tags:        []string{"Instruments"},
	}, ctrl.GetPresets)

	huma.Register(api, huma.Operation{
		OperationID: "get-instrument",
		Method:      http.MethodGet,
		Path:        "/api/v1/instruments/{ric}",
		Summary:     "Lookup Instrument",
		Description: "Returns the catalog record for a RIC",
		Tags:        []string{"Instruments"},
	}, ctrl.GetInstrument)
}

func (ctrl *InstrumentController) GetOptions(ctx context.Context, _ *struct{}) (*model.DefaultResponse, error) {
	return NewResponse(ctrl.instrumentSvc.GetOptions(), ""), nil
}

func (ctrl *InstrumentController) GetPresets(ctx context.Context, _ *struct{}) (*model.DefaultResponse, error) {
	return NewResponse(ctrl.instrumentSvc.GetPresets(), ""), nil
}

func (ctrl *InstrumentController) GetInstrument(ctx context.Context, input *InstrumentRICInput) (*model.DefaultResponse, error) {
	inst, err := ctrl.instrumentSvc.Lookup(input.RIC)
	if err != nil {
		return nil, toHTTPError(err, "instrument", false)
	}
	return NewResponse(inst, ""), nil
}
