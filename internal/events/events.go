package events

import (
	"context"

	"github.com/ideafactory/ideas/internal/model"
)

// Event topic constants
const (
	TopicCatalogUpdated = "ideas.catalog.updated"

	TopicIdeaCreated       = "ideas.idea.created"
	TopicIdeaUpdated       = "ideas.idea.updated"
	TopicIdeaDeleted       = "ideas.idea.deleted"
	TopicIdeaStatusToggled = "ideas.idea.status_toggled"

	TopicFavoriteToggled = "ideas.favorite.toggled"
	TopicSubmissionSent  = "ideas.submission.sent"

	TopicUploadCompleted = "ideas.upload.completed"
	TopicUploadDeleted   = "ideas.upload.deleted"

	TopicReviewCreated  = "ideas.review.created"
	TopicReviewApproved = "ideas.review.approved"
	TopicReviewDeleted  = "ideas.review.deleted"
)

// TopicAll matches every topic above.
const TopicAll = "ideas.>"

// Event types

type IdeaCreated struct {
	Idea *model.Idea `json:"idea"`
}

type IdeaUpdated struct {
	Idea *model.Idea `json:"idea"`
}

type IdeaDeleted struct {
	IdeaID string `json:"idea_id"`
}

type IdeaStatusToggled struct {
	IdeaID string `json:"idea_id"`
	Active bool   `json:"active"`
}

type FavoriteToggled struct {
	IdeaID   string `json:"idea_id"`
	Favorite bool   `json:"favorite"`
}

type SubmissionSent struct {
	ClientRef string `json:"client_ref"`
	Title     string `json:"title"`
	IdeaID    string `json:"idea_id,omitempty"`
}

// Upload events

type UploadCompleted struct {
	BatchID     string `json:"batch_id,omitempty"`
	Filename    string `json:"filename"`
	IdeasCount  int    `json:"ideas_count"`
	ArchivedKey string `json:"archived_key,omitempty"`
}

type UploadDeleted struct {
	BatchID           string `json:"batch_id"`
	DeletedIdeasCount int    `json:"deleted_ideas_count"`
}

// Review events

type ReviewCreated struct {
	ReviewID int64 `json:"review_id"`
	IdeaID   int64 `json:"idea_id"`
	Rating   int   `json:"rating"`
}

type ReviewApproved struct {
	ReviewID int64 `json:"review_id"`
	IdeaID   int64 `json:"idea_id,omitempty"`
}

type ReviewDeleted struct {
	ReviewID int64 `json:"review_id"`
}

// CatalogUpdated is a coalesced notice that the remote catalog changed.
type CatalogUpdated struct {
	Reason string `json:"reason"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// PublishChange publishes event on topic and a CatalogUpdated notice, so
// that watchers subscribed only to the catalog topic also see the change.
func PublishChange(ctx context.Context, p Publisher, topic string, event any) error {
	if err := p.Publish(ctx, topic, event); err != nil {
		return err
	}
	return p.Publish(ctx, TopicCatalogUpdated, CatalogUpdated{Reason: topic})
}
