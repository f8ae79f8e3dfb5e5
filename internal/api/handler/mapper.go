package handler

import (
	"github.com/drowwn/weNote/internal/core/domain"
	"github.com/drowwn/weNote/internal/core/ports"
)

func toUserResponse(u *domain.User, withEmail bool) userResponse {
	resp := userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
	}
	if withEmail {
		resp.Email = u.Email
	}
	return resp
}

func toUserUpdate(req userUpdateRequest) ports.UserUpdate {
	return ports.UserUpdate{Username: req.Username, Email: req.Email}
}

func toCreateNoteInput(req noteRequest, ownerID string) ports.CreateNoteInput {
	return ports.CreateNoteInput{
		OwnerID:  ownerID,
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
	}
}

func toNoteUpdate(req noteRequest) ports.NoteUpdate {
	return ports.NoteUpdate{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
	}
}
