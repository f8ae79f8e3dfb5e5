package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/drowwn/weNote/internal/api/metrics"
	"github.com/drowwn/weNote/internal/core/domain"
	"github.com/drowwn/weNote/internal/core/ports"
)

// revokeAttempts bounds RevokeAccess retries when the ACL keeps changing
// under it.
const revokeAttempts = 3

// NoteService implements note CRUD and the sharing rules on a note's access
// control list.
type NoteService struct {
	notes  ports.NoteRepository
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewNoteService(notes ports.NoteRepository, users ports.UserRepository, logger zerolog.Logger) *NoteService {
	return &NoteService{notes: notes, users: users, logger: logger}
}

// CreateNote stores a new note whose ACL holds only its owner.
func (s *NoteService) CreateNote(ctx context.Context, in ports.CreateNoteInput) (*domain.Note, error) {
	if in.OwnerID == "" {
		return nil, domain.ErrForbidden
	}
	now := time.Now().UTC()
	note := &domain.Note{
		Title:     in.Title,
		Content:   in.Content,
		Category:  in.Category,
		UserIDs:   []string{in.OwnerID},
		CreatedAt: now,
		EditedAt:  now,
	}
	if err := s.notes.Create(ctx, note); err != nil {
		s.logger.Error().Err(err).Str("owner_id", in.OwnerID).Msg("failed to create note")
		return nil, fmt.Errorf("create note: %w", err)
	}

	metrics.NotesCreatedTotal.Inc()
	s.logger.Info().Str("note_id", note.ID).Str("owner_id", in.OwnerID).Msg("note created")
	return note, nil
}

func (s *NoteService) GetNote(ctx context.Context, noteID, actorID string) (*domain.Note, error) {
	return s.memberNote(ctx, noteID, actorID)
}

func (s *NoteService) ListNotes(ctx context.Context, userID string) ([]*domain.Note, error) {
	notes, err := s.notes.ListByMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// UpdateNote persists an edit. Any ACL member may edit.
func (s *NoteService) UpdateNote(ctx context.Context, noteID, actorID string, upd ports.NoteUpdate) (*domain.Note, error) {
	if _, err := s.memberNote(ctx, noteID, actorID); err != nil {
		return nil, err
	}
	note, err := s.notes.Update(ctx, noteID, upd)
	if err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	return note, nil
}

// GrantAccess adds userID to the note's ACL on behalf of actorID, who must
// already be a member.
func (s *NoteService) GrantAccess(ctx context.Context, noteID, actorID, userID string) (*domain.Note, error) {
	note, err := s.memberNote(ctx, noteID, actorID)
	if err != nil {
		return nil, err
	}
	if note.HasMember(userID) {
		return nil, domain.ErrAlreadyMember
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("grant access: %w", err)
	}

	updated, err := s.notes.AddMember(ctx, noteID, userID)
	if err != nil {
		return nil, fmt.Errorf("grant access: %w", err)
	}

	metrics.NotesSharedTotal.Inc()
	s.logger.Info().Str("note_id", noteID).Str("user_id", userID).Str("by", actorID).Msg("note shared")
	return updated, nil
}

// RevokeAccess removes userID from the ACL. When userID is the last member
// the note itself is deleted and RevokeDeleted is returned. Each attempt is a
// single atomic write, so a stored note never ends up with an empty ACL.
func (s *NoteService) RevokeAccess(ctx context.Context, noteID, userID string) (domain.RevokeOutcome, *domain.Note, error) {
	for range revokeAttempts {
		gone, err := s.notes.DeleteIfSoleMember(ctx, noteID, userID)
		if err != nil {
			return 0, nil, fmt.Errorf("revoke access: %w", err)
		}
		if gone != nil {
			metrics.NotesRevokedTotal.WithLabelValues(domain.RevokeDeleted.String()).Inc()
			s.logger.Info().Str("note_id", noteID).Msg("note deleted after last member left")
			return domain.RevokeDeleted, gone, nil
		}

		note, err := s.notes.RemoveMember(ctx, noteID, userID)
		if err == nil {
			metrics.NotesRevokedTotal.WithLabelValues(domain.RevokeUpdated.String()).Inc()
			return domain.RevokeUpdated, note, nil
		}
		if !errors.Is(err, domain.ErrNoteNotFound) {
			return 0, nil, fmt.Errorf("revoke access: %w", err)
		}

		// Not a member, or the other members left between the two writes.
		current, err := s.notes.FindByID(ctx, noteID)
		if err != nil {
			return 0, nil, fmt.Errorf("revoke access: %w", err)
		}
		if !current.HasMember(userID) {
			return 0, nil, fmt.Errorf("revoke access: %w", domain.ErrNoteNotFound)
		}
	}
	return 0, nil, fmt.Errorf("revoke access: %w", domain.ErrRevokeConflict)
}

// ListMembers resolves the note's ACL into user summaries, in ACL order.
func (s *NoteService) ListMembers(ctx context.Context, noteID, actorID string) ([]domain.UserSummary, error) {
	note, err := s.memberNote(ctx, noteID, actorID)
	if err != nil {
		return nil, err
	}

	users, err := s.users.FindByIDs(ctx, note.UserIDs)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	byID := make(map[string]*domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	out := make([]domain.UserSummary, 0, len(note.UserIDs))
	for _, id := range note.UserIDs {
		if u, ok := byID[id]; ok {
			out = append(out, domain.UserSummary{ID: u.ID, Username: u.Username})
		}
	}
	return out, nil
}

// CanAccess reports whether userID is on the note's ACL. A missing note is
// simply not accessible.
func (s *NoteService) CanAccess(ctx context.Context, noteID, userID string) (bool, error) {
	note, err := s.notes.FindByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, domain.ErrNoteNotFound) {
			return false, nil
		}
		return false, err
	}
	return note.HasMember(userID), nil
}

func (s *NoteService) memberNote(ctx context.Context, noteID, actorID string) (*domain.Note, error) {
	note, err := s.notes.FindByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if !note.HasMember(actorID) {
		return nil, domain.ErrForbidden
	}
	return note, nil
}
