package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/GoArmGo/LibraryApp/internal/core/ports"
	"github.com/GoArmGo/LibraryApp/internal/domain"
)

type searchUseCase struct {
	workflow    ports.WorkflowClient
	basicURL    string
	advancedURL string
}

// NewSearchUseCase создает SearchUseCase; пустые URL дают ErrUpstreamNotConfigured
func NewSearchUseCase(workflow ports.WorkflowClient, basicURL, advancedURL string) SearchUseCase {
	return &searchUseCase{workflow: workflow, basicURL: basicURL, advancedURL: advancedURL}
}

func (uc *searchUseCase) BasicSearch(ctx context.Context, body json.RawMessage) (*domain.UpstreamResponse, error) {
	return uc.forward(ctx, uc.basicURL, body)
}

func (uc *searchUseCase) AdvancedSearch(ctx context.Context, body json.RawMessage) (*domain.UpstreamResponse, error) {
	return uc.forward(ctx, uc.advancedURL, body)
}

func (uc *searchUseCase) forward(ctx context.Context, endpoint string, body json.RawMessage) (*domain.UpstreamResponse, error) {
	if err := validateSearchBody(body); err != nil {
		return nil, err
	}
	if endpoint == "" {
		return nil, domain.ErrUpstreamNotConfigured
	}

	resp, err := uc.workflow.PostJSON(ctx, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("usecase: search request: %w", err)
	}
	return resp, nil
}

// validateSearchBody тело должно быть JSON-объектом с непустой строкой query
func validateSearchBody(body []byte) error {
	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		return domain.NewValidationError("body", "json_object")
	}
	q := gjson.GetBytes(body, "query")
	if q.Type != gjson.String || q.Str == "" {
		return domain.NewValidationError("query", "required")
	}
	return nil
}
