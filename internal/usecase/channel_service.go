package usecase

import (
	"context"

	"github.com/streamhub/account-server/internal/domain"
	"github.com/streamhub/account-server/internal/observability"
)

const watchHistoryLimit = 50

type ChannelService struct {
	Channels domain.ChannelRepository
	Logger   domain.LoggingRepository
}

func NewChannelService(channels domain.ChannelRepository, logger domain.LoggingRepository) *ChannelService {
	return &ChannelService{Channels: channels, Logger: logger}
}

func (s *ChannelService) GetChannelProfile(ctx context.Context, username, viewerID string) (*domain.ChannelProfile, error) {
	reqID := observability.GetRequestID(ctx)
	log := s.Logger.With("service.name", "channel-profile", "http.request.id", reqID)

	profile, err := s.Channels.GetChannelProfile(ctx, username, viewerID)
	if err != nil {
		log.Warn(
			"failed to load channel profile",
			"event.action", "get_channel_profile",
			"channel.username", username,
			"event.outcome", "failed",
			"error.message", err.Error())
		return nil, err
	}
	return profile, nil
}

func (s *ChannelService) GetWatchHistory(ctx context.Context, userID string) ([]domain.WatchedVideo, error) {
	reqID := observability.GetRequestID(ctx)
	log := s.Logger.With("service.name", "watch-history", "http.request.id", reqID, "user.id", userID)

	history, err := s.Channels.GetWatchHistory(ctx, userID, watchHistoryLimit)
	if err != nil {
		log.Error(
			"failed to load watch history",
			"event.action", "get_watch_history",
			"event.outcome", "failed",
			"error.message", err.Error())
		return nil, err
	}
	return history, nil
}

func (s *ChannelService) RecordWatch(ctx context.Context, userID, videoID string) error {
	return s.Channels.RecordWatch(ctx, userID, videoID)
}

func (s *ChannelService) ToggleSubscription(ctx context.Context, subscriberID, channelID string) (bool, error) {
	reqID := observability.GetRequestID(ctx)
	log := s.Logger.With("service.name", "subscription", "http.request.id", reqID, "user.id", subscriberID)

	if subscriberID == channelID {
		return false, domain.NewDomainError(domain.ErrCodeValidation, "cannot subscribe to your own channel", nil)
	}

	subscribed, err := s.Channels.ToggleSubscription(ctx, subscriberID, channelID)
	if err != nil {
		log.Error(
			"failed to toggle subscription",
			"event.action", "toggle_subscription",
			"channel.id", channelID,
			"event.outcome", "failed",
			"error.message", err.Error())
		return false, err
	}

	log.Info(
		"subscription toggled",
		"channel.id", channelID,
		"subscribed", subscribed,
		"event.outcome", "success")
	return subscribed, nil
}
