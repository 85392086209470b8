package controller

import (
	"context"
	"net/http"

	"github.com/JRBGitHub/scheadule-desvio/model"
	"github.com/JRBGitHub/scheadule-desvio/service"

	"github.com/danielgtaylor/huma/v2"
)

type ConfigController struct {
	cfgSvc service.ConfigService
}

func NewConfigController(cfgSvc service.ConfigService) *ConfigController {
	return &ConfigController{cfgSvc: cfgSvc}
}

func (ctrl *ConfigController) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-runtime-config",
		Method:      http.MethodGet,
		Path:        "/api/v1/config/runtime",
		Summary:     "Get Runtime Configuration",
		Tags:        []string{"Config"},
	}, ctrl.getRuntimeConfig)

	huma.Register(api, huma.Operation{
		OperationID: "reload-runtime-config",
		Method:      http.MethodPost,
		Path:        "/api/v1/config/reload",
		Summary:     "Reload Runtime Configuration",
		Description: "Re-reads the environment and applies the rate limiter and debug toggles",
		Tags:        []string{"Config"},
	}, ctrl.reloadRuntimeConfig)
}

func (ctrl *ConfigController) getRuntimeConfig(ctx context.Context, _ *struct{}) (*model.DefaultResponse, error) {
	return NewResponse(ctrl.cfgSvc.GetActiveRuntimeConfig(), ""), nil
}

func (ctrl *ConfigController) reloadRuntimeConfig(ctx context.Context, _ *struct{}) (*model.DefaultResponse, error) {
	cfg, err := ctrl.cfgSvc.ReloadRuntimeConfig(ctx)
	if err != nil {
		return nil, toHTTPError(err, "reload-config", false)
	}
	return NewResponse(cfg, "Configuración recargada exitosamente"), nil
}
