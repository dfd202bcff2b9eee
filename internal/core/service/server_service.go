package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vpnservice/access-system/internal/core/domain"
	"github.com/vpnservice/access-system/internal/core/ports"
)

type serverService struct {
	repo ports.ServerRepository
	log  zerolog.Logger
}

// NewServerService returns a ServerService implementation.
func NewServerService(repo ports.ServerRepository, log zerolog.Logger) ports.ServerService {
	return &serverService{repo: repo, log: log}
}

func fromServerInput(in ports.ServerInput) domain.Server {
	status := domain.ServerStatus(in.Status)
	if in.Status == "" {
		status = domain.ServerOnline
	}
	return domain.Server{
		Name:         in.Name,
		Country:      in.Country,
		City:         in.City,
		Status:       status,
		LocationCode: in.LocationCode,
	}
}

func (s *serverService) Create(ctx context.Context, in ports.ServerInput) (*domain.Server, error) {
	now := time.Now().UTC()
	server := fromServerInput(in)
	server.ID = uuid.NewString()
	server.Active = true
	server.CreatedAt = now
	server.UpdatedAt = now
	if err := server.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, &server); err != nil {
		s.log.Error().Err(err).Str("name", in.Name).Msg("failed to create server")
		return nil, err
	}

	s.log.Info().Str("server_id", server.ID).Str("name", server.Name).Msg("server created")
	return &server, nil
}

func (s *serverService) Update(ctx context.Context, id string, in ports.ServerInput) (*domain.Server, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	server := fromServerInput(in)
	server.ID = existing.ID
	server.Active = existing.Active
	server.CreatedAt = existing.CreatedAt
	server.UpdatedAt = time.Now().UTC()
	if err := server.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, &server); err != nil {
		s.log.Error().Err(err).Str("server_id", id).Msg("failed to update server")
		return nil, err
	}
	return &server, nil
}

// Delete removes a catalog entry. Nothing references servers, so a hard
// delete is safe.
func (s *serverService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("server_id", id).Msg("server deleted")
	return nil
}

func (s *serverService) List(ctx context.Context, activeOnly bool) ([]*domain.Server, error) {
	return s.repo.List(ctx, activeOnly)
}

func (s *serverService) ToggleActive(ctx context.Context, id string) (bool, error) {
	server, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return false, err
	}

	active := !server.Active
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return false, err
	}
	return active, nil
}
