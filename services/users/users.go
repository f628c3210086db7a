package users

import (
	"context"
	"fmt"
	"log"

	"github.com/samber/mo"

	"planbackend/core"
	"planbackend/models"
)

type usersRepository interface {
	GetUserByAuthProvider(
		ctx context.Context,
		authProvider, authProviderID string,
		forUpdate bool,
	) (mo.Option[*models.User], error)
	CreateUser(ctx context.Context, authProvider, authProviderID string) (*models.User, error)
}

type UsersService struct {
	usersRepo usersRepository
}

func NewUsersService(repo usersRepository) *UsersService {
	return &UsersService{usersRepo: repo}
}

func (s *UsersService) GetOrCreateUser(ctx context.Context, authProvider, authProviderID string) (*models.User, error) {
	log.Printf("📋 Starting to get or create user for authProvider: %s, authProviderID: %s", authProvider, authProviderID)

	if authProvider == "" {
		return nil, core.InvalidInputf("auth_provider cannot be empty")
	}

	if authProviderID == "" {
		return nil, core.InvalidInputf("auth_provider_id cannot be empty")
	}

	existing, err := s.usersRepo.GetUserByAuthProvider(ctx, authProvider, authProviderID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user, ok := existing.Get(); ok {
		log.Printf("📋 Completed successfully - retrieved user with ID: %s", user.ID)
		return user, nil
	}

	// CreateUser returns the winner's row if a concurrent request inserted first
	user, err := s.usersRepo.CreateUser(ctx, authProvider, authProviderID)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("📋 Completed successfully - created user with ID: %s", user.ID)
	return user, nil
}
