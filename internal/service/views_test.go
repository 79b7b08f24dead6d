package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewService_IncrementIsMonotonic(t *testing.T) {
	_, client := newTestStore(t)
	log, collector := testDeps()
	svc := NewViewService(client, log, collector)
	ctx := context.Background()

	for i := int64(1); i <= 5; i++ {
		views := svc.Increment(ctx, "my-post")
		require.False(t, views.Degraded)
		assert.Equal(t, i, views.Value)
	}

	assert.Equal(t, int64(5), svc.Views(ctx, "my-post").Value)
}

func TestViewService_UntouchedSlugIsZero(t *testing.T) {
	_, client := newTestStore(t)
	log, collector := testDeps()
	svc := NewViewService(client, log, collector)

	views := svc.Views(context.Background(), "never-viewed")
	assert.False(t, views.Degraded)
	assert.Equal(t, int64(0), views.Value)
}

func TestViewService_DegradesWithoutStore(t *testing.T) {
	log, collector := testDeps()
	svc := NewViewService(nil, log, collector)

	assert.True(t, svc.Views(context.Background(), "my-post").Degraded)
	assert.True(t, svc.Increment(context.Background(), "my-post").Degraded)
}
