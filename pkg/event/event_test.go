package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedPublishOrder(t *testing.T) {
	var feed Feed[string]
	var got []string
	feed.Subscribe(func(ev Event[string]) { got = append(got, "a:"+ev.Payload) })
	feed.Subscribe(func(ev Event[string]) { got = append(got, "b:"+ev.Payload) })

	feed.Publish(Added, "x")

	assert.Equal(t, []string{"a:x", "b:x"}, got)
}

func TestFeedUnsubscribe(t *testing.T) {
	var feed Feed[int]
	count := 0
	sub := feed.Subscribe(func(Event[int]) { count++ })
	feed.Publish(Modified, 1)
	sub.Unsubscribe()
	sub.Unsubscribe()
	feed.Publish(Modified, 2)

	assert.Equal(t, 1, count)
	assert.Equal(t, 0, feed.Len())
}

func TestFeedUnsubscribeDuringPublish(t *testing.T) {
	var feed Feed[int]
	var calls []string
	var second *Subscription
	feed.Subscribe(func(Event[int]) {
		calls = append(calls, "first")
		second.Unsubscribe()
	})
	second = feed.Subscribe(func(Event[int]) { calls = append(calls, "second") })

	feed.Publish(Added, 0)
	feed.Publish(Added, 0)

	assert.Equal(t, []string{"first", "second", "first"}, calls)
}

func TestFeedCarriesKind(t *testing.T) {
	var feed Feed[*int]
	var got Event[*int]
	feed.Subscribe(func(ev Event[*int]) { got = ev })

	feed.Publish(Selected, nil)

	require.Equal(t, Selected, got.Kind)
	assert.Nil(t, got.Payload)
}

func TestNilListenerAndSubscription(t *testing.T) {
	var feed Feed[int]
	sub := feed.Subscribe(nil)
	assert.Equal(t, 0, feed.Len())
	sub.Unsubscribe()

	var nilSub *Subscription
	assert.NotPanics(t, nilSub.Unsubscribe)
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{Added, "added"},
		{Removed, "removed"},
		{Modified, "modified"},
		{Selected, "selected"},
		{Kind(9), "kind(9)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.String())
	}
}
