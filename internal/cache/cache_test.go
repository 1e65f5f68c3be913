package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Workup/internal/workup"
)

func TestNopCache(t *testing.T) {
	var c Cache = NopCache{}
	ctx := context.Background()

	require.NoError(t, c.SetWorkup(ctx, "abc", &workup.Result{AssessmentID: "a"}, time.Minute))
	got, err := c.GetWorkup(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, c.Ping(ctx))
	assert.NoError(t, c.Close())
}

func TestWorkupKey(t *testing.T) {
	assert.Equal(t, "workup:result:stress-resilience@1.0.0:deadbeef", workupKey("stress-resilience@1.0.0:deadbeef"))
}

func TestRedisCacheRejectsEmptyKey(t *testing.T) {
	c := &RedisCache{}
	_, err := c.GetWorkup(context.Background(), "")
	assert.Error(t, err)
	assert.Error(t, c.SetWorkup(context.Background(), "", &workup.Result{}, time.Minute))
}
