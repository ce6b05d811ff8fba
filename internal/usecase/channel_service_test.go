package usecase_test

import (
	"context"
	"testing"

	"github.com/streamhub/account-server/internal/domain"
	"github.com/streamhub/account-server/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannelRepo struct {
	subscriptions map[string]bool
	watched       []string
}

func newFakeChannelRepo() *fakeChannelRepo {
	return &fakeChannelRepo{subscriptions: make(map[string]bool)}
}

func (f *fakeChannelRepo) GetChannelProfile(ctx context.Context, username, viewerID string) (*domain.ChannelProfile, error) {
	if username != "alice" {
		return nil, domain.ErrChannelNotFound
	}
	return &domain.ChannelProfile{
		ID:              "alice-id",
		Username:        "alice",
		SubscriberCount: len(f.subscriptions),
		IsSubscribed:    f.subscriptions[viewerID],
	}, nil
}

func (f *fakeChannelRepo) GetWatchHistory(ctx context.Context, userID string, limit int) ([]domain.WatchedVideo, error) {
	history := make([]domain.WatchedVideo, 0, len(f.watched))
	for _, id := range f.watched {
		history = append(history, domain.WatchedVideo{ID: id})
	}
	if len(history) > limit {
		history = history[:limit]
	}
	return history, nil
}

func (f *fakeChannelRepo) RecordWatch(ctx context.Context, userID, videoID string) error {
	f.watched = append(f.watched, videoID)
	return nil
}

func (f *fakeChannelRepo) ToggleSubscription(ctx context.Context, subscriberID, channelID string) (bool, error) {
	f.subscriptions[subscriberID] = !f.subscriptions[subscriberID]
	return f.subscriptions[subscriberID], nil
}

func TestToggleSubscriptionRoundtrip(t *testing.T) {
	t.Parallel()

	svc := usecase.NewChannelService(newFakeChannelRepo(), nopLogger{})

	subscribed, err := svc.ToggleSubscription(context.Background(), "bob-id", "alice-id")
	require.NoError(t, err)
	assert.True(t, subscribed)

	subscribed, err = svc.ToggleSubscription(context.Background(), "bob-id", "alice-id")
	require.NoError(t, err)
	assert.False(t, subscribed)
}

func TestToggleSubscriptionSelf(t *testing.T) {
	t.Parallel()

	svc := usecase.NewChannelService(newFakeChannelRepo(), nopLogger{})

	_, err := svc.ToggleSubscription(context.Background(), "alice-id", "alice-id")
	require.Error(t, err)

	var de *domain.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.ErrCodeValidation, de.Code)
}

func TestChannelProfileNotFound(t *testing.T) {
	t.Parallel()

	svc := usecase.NewChannelService(newFakeChannelRepo(), nopLogger{})

	profile, err := svc.GetChannelProfile(context.Background(), "ghost", "bob-id")
	assert.Nil(t, profile)
	assert.ErrorIs(t, err, domain.ErrChannelNotFound)
}

func TestWatchHistoryKeepsOrder(t *testing.T) {
	t.Parallel()

	repo := newFakeChannelRepo()
	svc := usecase.NewChannelService(repo, nopLogger{})

	require.NoError(t, svc.RecordWatch(context.Background(), "bob-id", "video-1"))
	require.NoError(t, svc.RecordWatch(context.Background(), "bob-id", "video-2"))

	history, err := svc.GetWatchHistory(context.Background(), "bob-id")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "video-1", history[0].ID)
}
