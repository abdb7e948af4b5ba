//go:build integration

package activity_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"statusline/internal/activity"
	"statusline/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *activity.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.store = activity.NewRedisStore(s.redis.Client.Client, 5)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestConcurrentAppendsStayCapped() {
	ctx := context.Background()
	done := make(chan error, 20)
	for i := 0; i < 20; i++ {
		go func() {
			done <- s.store.Append(ctx, activity.Event{ProjectID: "c1", Action: activity.ActionUpdated})
		}()
	}
	for i := 0; i < 20; i++ {
		s.Require().NoError(<-done)
	}

	events, err := s.store.ListByProject(ctx, "c1", 100)
	s.Require().NoError(err)
	s.Len(events, 5)
}
