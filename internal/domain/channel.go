package domain

import (
	"context"
	"time"
)

type ChannelProfile struct {
	ID                string
	Username          string
	FullName          string
	AvatarURL         string
	CoverImageURL     string
	SubscriberCount   int
	SubscribedToCount int
	IsSubscribed      bool
}

type WatchedVideo struct {
	ID             string
	Title          string
	ThumbnailURL   string
	DurationSec    int
	Views          int
	OwnerUsername  string
	OwnerFullName  string
	OwnerAvatarURL string
	WatchedAt      time.Time
}

type ChannelRepository interface {
	GetChannelProfile(ctx context.Context, username, viewerID string) (*ChannelProfile, error)
	GetWatchHistory(ctx context.Context, userID string, limit int) ([]WatchedVideo, error)
	RecordWatch(ctx context.Context, userID, videoID string) error

	// ToggleSubscription subscribes the viewer to the channel, or removes
	// the subscription when it already exists. Returns the resulting state.
	ToggleSubscription(ctx context.Context, subscriberID, channelID string) (bool, error)
}
