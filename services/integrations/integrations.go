package integrations

import (
	"context"
	"fmt"
	"log"

	"github.com/samber/mo"

	"planbackend/core"
	"planbackend/models"
	"planbackend/salesnotif"
	"planbackend/services"
)

type integrationsRepository interface {
	CreateIntegration(ctx context.Context, integration *models.Integration) (bool, error)
	GetIntegrationByUserAndService(
		ctx context.Context,
		userID string,
		service models.Service,
	) (mo.Option[*models.Integration], error)
	GetIntegrationByID(ctx context.Context, id string, forUpdate bool) (mo.Option[*models.Integration], error)
	GetIntegrationsByUserID(ctx context.Context, userID string) ([]*models.Integration, error)
	PatchIntegrationConfig(
		ctx context.Context,
		userID string,
		service models.Service,
		patch map[string]any,
	) (mo.Option[*models.Integration], error)
	UpdateIntegrationConnection(
		ctx context.Context,
		id string,
		patch map[string]any,
		scopes []string,
	) (mo.Option[*models.Integration], error)
	DeleteIntegrationByID(ctx context.Context, id string) (bool, error)
}

type IntegrationsService struct {
	integrationsRepo integrationsRepository
	txManager        services.TransactionManager
}

func NewIntegrationsService(repo integrationsRepository, txManager services.TransactionManager) *IntegrationsService {
	return &IntegrationsService{integrationsRepo: repo, txManager: txManager}
}

func (s *IntegrationsService) ListIntegrations(ctx context.Context, userID string) ([]*models.Integration, error) {
	log.Printf("📋 Starting to list integrations for user: %s", userID)
	if userID == "" {
		return nil, fmt.Errorf("user ID cannot be empty")
	}

	integrations, err := s.integrationsRepo.GetIntegrationsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list integrations: %w", err)
	}

	log.Printf("📋 Completed successfully - found %d integrations for user: %s", len(integrations), userID)
	return integrations, nil
}

func (s *IntegrationsService) FindIntegration(
	ctx context.Context,
	userID string,
	service models.Service,
) (mo.Option[*models.Integration], error) {
	integrationOpt, err := s.integrationsRepo.GetIntegrationByUserAndService(ctx, userID, service)
	if err != nil {
		return mo.None[*models.Integration](), fmt.Errorf("failed to find %s integration: %w", service, err)
	}
	return integrationOpt, nil
}

func (s *IntegrationsService) UpsertFirstIntegration(
	ctx context.Context,
	integration *models.Integration,
) (*models.Integration, bool, error) {
	log.Printf("📋 Starting to upsert %s integration for user: %s", integration.Service, integration.UserID)
	if integration.UserID == "" {
		return nil, false, core.InvalidInputf("user ID cannot be empty")
	}
	if _, ok := models.ParseService(string(integration.Service)); !ok {
		return nil, false, core.InvalidInputf("unsupported service %q", integration.Service)
	}
	if integration.ID == "" {
		integration.ID = core.NewID("int")
	}

	created, err := s.integrationsRepo.CreateIntegration(ctx, integration)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create %s integration: %w", integration.Service, err)
	}
	if created {
		salesnotif.New(integration.UserID, fmt.Sprintf("Connected %s integration `%s`", integration.Service, integration.ID))
		log.Printf("➕ Completed successfully - created %s integration %s for user: %s", integration.Service, integration.ID, integration.UserID)
		return integration, true, nil
	}

	existingOpt, err := s.integrationsRepo.GetIntegrationByUserAndService(ctx, integration.UserID, integration.Service)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load existing %s integration: %w", integration.Service, err)
	}
	if existingOpt.IsAbsent() {
		// the conflicting row was deleted between the insert and the read
		return nil, false, fmt.Errorf("%s integration changed concurrently, retry the request", integration.Service)
	}

	existing := existingOpt.MustGet()
	log.Printf("📋 Completed successfully - %s integration already exists for user: %s (%s)", integration.Service, integration.UserID, existing.ID)
	return existing, false, nil
}

// CreateIntegration is the provider-agnostic create. It fails with core.ErrAlreadyExists instead of reusing a record.
func (s *IntegrationsService) CreateIntegration(
	ctx context.Context,
	userID string,
	service models.Service,
	config models.IntegrationConfig,
	scopes []string,
) (*models.Integration, error) {
	integration := &models.Integration{
		UserID:  userID,
		Service: service,
		Config:  config,
		Scopes:  scopes,
	}

	stored, created, err := s.UpsertFirstIntegration(ctx, integration)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, fmt.Errorf("%s integration %w", service, core.ErrAlreadyExists)
	}

	return stored, nil
}

func (s *IntegrationsService) PatchIntegrationConfig(
	ctx context.Context,
	userID string,
	service models.Service,
	patch map[string]any,
) (*models.Integration, error) {
	log.Printf("📋 Starting to patch %s integration config for user: %s", service, userID)

	integrationOpt, err := s.integrationsRepo.PatchIntegrationConfig(ctx, userID, service, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to patch %s integration config: %w", service, err)
	}
	if integrationOpt.IsAbsent() {
		return nil, core.ErrIntegrationNotFound
	}

	log.Printf("📋 Completed successfully - patched %s integration config for user: %s", service, userID)
	return integrationOpt.MustGet(), nil
}

// UpdateIntegrationConnection stores a fresh grant on an existing record
func (s *IntegrationsService) UpdateIntegrationConnection(
	ctx context.Context,
	integrationID string,
	patch map[string]any,
	scopes []string,
) (*models.Integration, error) {
	log.Printf("📋 Starting to update connection of integration: %s", integrationID)

	integrationOpt, err := s.integrationsRepo.UpdateIntegrationConnection(ctx, integrationID, patch, scopes)
	if err != nil {
		return nil, fmt.Errorf("failed to update integration connection: %w", err)
	}
	if integrationOpt.IsAbsent() {
		return nil, core.ErrIntegrationNotFound
	}

	log.Printf("🔄 Completed successfully - updated connection of integration: %s", integrationID)
	return integrationOpt.MustGet(), nil
}

func (s *IntegrationsService) DeleteIntegration(ctx context.Context, integrationID, requestingUserID string) error {
	log.Printf("📋 Starting to delete integration %s for user: %s", integrationID, requestingUserID)
	if integrationID == "" {
		return core.InvalidInputf("integration id is required")
	}

	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		integrationOpt, err := s.integrationsRepo.GetIntegrationByID(ctx, integrationID, true)
		if err != nil {
			return fmt.Errorf("failed to get integration: %w", err)
		}
		if integrationOpt.IsAbsent() {
			return core.ErrIntegrationNotFound
		}
		if integrationOpt.MustGet().UserID != requestingUserID {
			log.Printf("⚠️ User %s tried to delete integration %s owned by another user", requestingUserID, integrationID)
			return core.ErrForbidden
		}

		deleted, err := s.integrationsRepo.DeleteIntegrationByID(ctx, integrationID)
		if err != nil {
			return fmt.Errorf("failed to delete integration: %w", err)
		}
		if !deleted {
			return core.ErrIntegrationNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("🗑️ Completed successfully - deleted integration: %s", integrationID)
	return nil
}
