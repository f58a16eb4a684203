package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anoa.com/dailyguessr/internal/entity"
)

func newTestService() (*announcementService, *Hub) {
	return newTestServiceWithRedis(nil)
}

func newTestServiceWithRedis(rdb *redis.Client) (*announcementService, *Hub) {
	hub := NewHub()
	svc := NewAnnouncementService(hub, rdb, Options{
		GameName: "OSRSGuessr",
		GameURL:  "https://www.osrsguessr.com/",
	}).(*announcementService)
	svc.now = func() time.Time {
		return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	}
	return svc, hub
}

func TestPostDaily_BuildsAndStoresLatest(t *testing.T) {
	svc, _ := newTestService()

	_, ok := svc.Latest()
	assert.False(t, ok)

	posted, err := svc.PostDaily(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "🎮 Daily OSRSGuessr", posted.Title)
	assert.Equal(t, "Click the button below to play today's OSRSGuessr!", posted.Description)
	assert.Equal(t, "Play OSRSGuessr", posted.ButtonLabel)
	assert.Equal(t, "https://www.osrsguessr.com/", posted.URL)
	assert.Equal(t, time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC), posted.PostedAt)

	latest, ok := svc.Latest()
	require.True(t, ok)
	assert.Equal(t, posted, latest)
}

func TestPostDaily_EachPostHasItsOwnID(t *testing.T) {
	svc, _ := newTestService()

	first, err := svc.PostDaily(context.Background())
	require.NoError(t, err)
	second, err := svc.PostDaily(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	latest, _ := svc.Latest()
	assert.Equal(t, second.ID, latest.ID)
}

func TestPostDaily_ReachesSubscribers(t *testing.T) {
	svc, hub := newTestService()
	ch, unsubscribe := svc.Subscribe()
	defer unsubscribe()

	posted, err := svc.PostDaily(context.Background())
	require.NoError(t, err)

	select {
	case got := <-ch:
		assert.Equal(t, posted.ID, got.ID)
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive the announcement")
	}
	assert.Equal(t, 1, hub.Len())
}

func TestHub_UnsubscribeClosesAndIsIdempotent(t *testing.T) {
	hub := NewHub()
	ch, unsubscribe := hub.Subscribe()

	unsubscribe()
	unsubscribe()

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, hub.Len())
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	svc, hub := newTestService()
	_, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	for i := 0; i < subscriberBuffer+5; i++ {
		_, err := svc.PostDaily(context.Background())
		require.NoError(t, err)
	}
}

func TestDailyPostJob(t *testing.T) {
	svc, _ := newTestService()
	job := NewDailyPostJob(svc, "0 12 * * *")

	assert.Equal(t, "daily-link", job.Name())
	assert.Equal(t, "0 12 * * *", job.Schedule())
	require.NoError(t, job.Execute(context.Background()))

	_, ok := svc.Latest()
	assert.True(t, ok)
}

func TestPostDaily_PublishesToRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	ctx := context.Background()

	sub := rdb.Subscribe(ctx, DailyChannel)
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	svc, _ := newTestServiceWithRedis(rdb)
	posted, err := svc.PostDaily(ctx)
	require.NoError(t, err)

	recvCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	msg, err := sub.ReceiveMessage(recvCtx)
	require.NoError(t, err)

	var got entity.Announcement
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
	assert.Equal(t, posted.ID, got.ID)
}

func TestPostDaily_RedisFailureKeepsDeliveredPost(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close()
	mr.Close()

	svc, hub := newTestServiceWithRedis(rdb)
	ch, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	posted, err := svc.PostDaily(context.Background())

	require.NoError(t, err)
	latest, ok := svc.Latest()
	require.True(t, ok)
	assert.Equal(t, posted.ID, latest.ID)
	got := <-ch
	assert.Equal(t, posted.ID, got.ID)
}
