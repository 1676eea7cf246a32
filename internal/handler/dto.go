package handler

import (
	"time"

	"github.com/mvailles/inkwell/internal/domain"
)

// UserDTO is the JSON representation of a user. The password hash never
// leaves the domain layer.
type UserDTO struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	CreatedAt string `json:"createdAt"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

// PostDTO is the JSON representation of a post. Cover bytes are served
// separately; hasCover signals whether a cover exists.
type PostDTO struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Summary   string   `json:"summary"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
	AuthorID  string   `json:"authorId"`
	Author    string   `json:"author"`
	HasCover  bool     `json:"hasCover"`
	CreatedAt string   `json:"createdAt"`
	UpdatedAt string   `json:"updatedAt"`
}

func toPostDTO(p *domain.Post) PostDTO {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return PostDTO{
		ID:        p.ID,
		Title:     p.Title,
		Summary:   p.Summary,
		Content:   p.Content,
		Tags:      tags,
		AuthorID:  p.AuthorID,
		Author:    p.Author,
		HasCover:  p.Cover != nil,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
}

func toPostDTOs(posts []domain.Post) []PostDTO {
	dtos := make([]PostDTO, len(posts))
	for i := range posts {
		dtos[i] = toPostDTO(&posts[i])
	}
	return dtos
}

// SuggestionDTO is the JSON representation of a search suggestion.
type SuggestionDTO struct {
	Title  string   `json:"title"`
	Author string   `json:"author"`
	Tags   []string `json:"tags"`
}

func toSuggestionDTOs(suggestions []domain.Suggestion) []SuggestionDTO {
	dtos := make([]SuggestionDTO, len(suggestions))
	for i, s := range suggestions {
		tags := s.Tags
		if tags == nil {
			tags = []string{}
		}
		dtos[i] = SuggestionDTO{Title: s.Title, Author: s.Author, Tags: tags}
	}
	return dtos
}
