package services

import (
	"context"
	"testing"
	"time"

	"github.com/Rakhulsr/go-storefront/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// payloadAt encodes the revision in the quantity so pushes can be told apart.
func payloadAt(revision int) models.CartPayload {
	return models.CartPayload{Items: []models.LineItem{{ProductID: "p", Quantity: revision}}}
}

func pushedRevisions(api *fakeCartAPI) []int {
	var out []int
	for _, p := range api.Pushes() {
		out = append(out, p.Items[0].Quantity)
	}
	return out
}

func TestCartSyncer_CoalescesToNewest(t *testing.T) {
	api := &fakeCartAPI{started: make(chan struct{}, 10), gate: make(chan struct{})}
	syncer := NewCartSyncer(api, testLogger())

	syncer.Enqueue(1, payloadAt(1))
	<-api.started

	syncer.Enqueue(2, payloadAt(2))
	syncer.Enqueue(4, payloadAt(4))
	syncer.Enqueue(3, payloadAt(3))
	close(api.gate)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, syncer.Close(ctx))

	assert.Equal(t, []int{1, 4}, pushedRevisions(api))
}

func TestCartSyncer_DropsRevisionsOlderThanSent(t *testing.T) {
	api := &fakeCartAPI{started: make(chan struct{}, 10)}
	syncer := NewCartSyncer(api, testLogger())

	syncer.Enqueue(5, payloadAt(5))
	<-api.started
	require.Eventually(t, func() bool { return len(api.Pushes()) == 1 }, time.Second, 5*time.Millisecond)

	syncer.Enqueue(3, payloadAt(3))
	require.NoError(t, syncer.Close(context.Background()))

	assert.Equal(t, []int{5}, pushedRevisions(api))
}

func TestCartSyncer_CloseFlushesPending(t *testing.T) {
	api := &fakeCartAPI{}
	syncer := NewCartSyncer(api, testLogger())

	syncer.Enqueue(1, payloadAt(1))
	require.NoError(t, syncer.Close(context.Background()))
	assert.Equal(t, []int{1}, pushedRevisions(api))

	syncer.Enqueue(2, payloadAt(2))
	require.NoError(t, syncer.Close(context.Background()))
	assert.Equal(t, []int{1}, pushedRevisions(api))
}

func TestCartSyncer_CloseHonoursDeadline(t *testing.T) {
	api := &fakeCartAPI{started: make(chan struct{}, 1), gate: make(chan struct{})}
	syncer := NewCartSyncer(api, testLogger())

	syncer.Enqueue(1, payloadAt(1))
	<-api.started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := syncer.Close(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, api.Pushes())
}
