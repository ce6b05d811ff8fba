package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/streamhub/account-server/internal/domain"
)

type ChannelRepo struct {
	Db *pgxpool.Pool
}

func NewChannelRepo(db *pgxpool.Pool) *ChannelRepo {
	return &ChannelRepo{db}
}

func (c *ChannelRepo) GetChannelProfile(ctx context.Context, username, viewerID string) (*domain.ChannelProfile, error) {
	var profile domain.ChannelProfile

	query := `select u.id, u.username, u.full_name,
		coalesce(u.avatar_url, ''), coalesce(u.cover_image_url, ''),
		(select count(*) from subscriptions s where s.channel_id = u.id),
		(select count(*) from subscriptions s where s.subscriber_id = u.id),
		exists (select 1 from subscriptions s where s.channel_id = u.id and s.subscriber_id = $2)
		from users u where u.username = $1`
	row := c.Db.QueryRow(ctx, query, username, viewerID)
	err := row.Scan(&profile.ID, &profile.Username, &profile.FullName,
		&profile.AvatarURL, &profile.CoverImageURL,
		&profile.SubscriberCount, &profile.SubscribedToCount, &profile.IsSubscribed)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrChannelNotFound
	}
	if err != nil {
		return nil, domain.NewDomainError(domain.ErrCodeInternal, "query failed", err)
	}
	return &profile, nil
}

func (c *ChannelRepo) GetWatchHistory(ctx context.Context, userID string, limit int) ([]domain.WatchedVideo, error) {
	query := `select v.id, v.title, coalesce(v.thumbnail_url, ''), v.duration_sec, v.views,
		o.username, o.full_name, coalesce(o.avatar_url, ''), w.watched_at
		from watch_history w
		join videos v on v.id = w.video_id
		join users o on o.id = v.owner_id
		where w.user_id = $1
		order by w.watched_at desc
		limit $2`
	rows, err := c.Db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, domain.NewDomainError(domain.ErrCodeInternal, "query failed", err)
	}
	defer rows.Close()

	var history []domain.WatchedVideo
	for rows.Next() {
		var v domain.WatchedVideo
		err := rows.Scan(&v.ID, &v.Title, &v.ThumbnailURL, &v.DurationSec, &v.Views,
			&v.OwnerUsername, &v.OwnerFullName, &v.OwnerAvatarURL, &v.WatchedAt)
		if err != nil {
			return nil, domain.NewDomainError(domain.ErrCodeInternal, "query failed", err)
		}
		history = append(history, v)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewDomainError(domain.ErrCodeInternal, "query failed", err)
	}
	return history, nil
}

func (c *ChannelRepo) RecordWatch(ctx context.Context, userID, videoID string) error {
	// re-watching moves the entry to the top of the history
	query := `insert into watch_history (user_id, video_id, watched_at)
		values ($1, $2, now())
		on conflict (user_id, video_id) do update set watched_at = now()`
	_, err := c.Db.Exec(ctx, query, userID, videoID)
	if err != nil {
		return domain.NewDomainError(domain.ErrCodeInternal, "query failed", err)
	}
	return nil
}

func (c *ChannelRepo) ToggleSubscription(ctx context.Context, subscriberID, channelID string) (bool, error) {
	tag, err := c.Db.Exec(ctx,
		`delete from subscriptions where subscriber_id = $1 and channel_id = $2`,
		subscriberID, channelID)
	if err != nil {
		return false, domain.NewDomainError(domain.ErrCodeInternal, "query failed", err)
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}

	_, err = c.Db.Exec(ctx,
		`insert into subscriptions (subscriber_id, channel_id) values ($1, $2)
		on conflict do nothing`,
		subscriberID, channelID)
	if err != nil {
		return false, domain.NewDomainError(domain.ErrCodeInternal, "query failed", err)
	}
	return true, nil
}
