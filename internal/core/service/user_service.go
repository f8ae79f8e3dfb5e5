package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/drowwn/weNote/internal/core/domain"
	"github.com/drowwn/weNote/internal/core/ports"
)

type UserService struct {
	repo  ports.UserRepository
	notes ports.NoteMembership
}

func NewUserService(repo ports.UserRepository, notes ports.NoteMembership) *UserService {
	return &UserService{repo: repo, notes: notes}
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.repo.FindByEmail(ctx, normaliseEmail(email))
}

func (s *UserService) Update(ctx context.Context, actorID, id string, upd ports.UserUpdate) (*domain.User, error) {
	if actorID == "" || actorID != id {
		return nil, domain.ErrForbidden
	}
	upd.Username = strings.TrimSpace(upd.Username)
	upd.Email = normaliseEmail(upd.Email)
	user, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// Delete revokes the user from every note first, so notes they alone could
// see are deleted rather than left with a dangling member.
func (s *UserService) Delete(ctx context.Context, actorID, id string) error {
	if actorID == "" || actorID != id {
		return domain.ErrForbidden
	}
	notes, err := s.notes.ListNotes(ctx, id)
	if err != nil {
		return fmt.Errorf("delete user: list notes: %w", err)
	}
	for _, n := range notes {
		if _, _, err := s.notes.RevokeAccess(ctx, n.ID, id); err != nil && !errors.Is(err, domain.ErrNoteNotFound) {
			return fmt.Errorf("delete user: %w", err)
		}
	}
	return s.repo.Delete(ctx, id)
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
