package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishDeliversInOrder(t *testing.T) {
	b := New()

	var got []int
	b.Subscribe("numbers", func(payload any) {
		got = append(got, payload.(int))
	})

	for i := 0; i < 10; i++ {
		b.Publish("numbers", i)
	}

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)
}

func TestPublishReachesEverySubscriber(t *testing.T) {
	b := New()

	var first, second []string
	b.Subscribe(TopicPriceUpdate, func(payload any) {
		first = append(first, payload.(string))
	})
	b.Subscribe(TopicPriceUpdate, func(payload any) {
		second = append(second, payload.(string))
	})

	b.Publish(TopicPriceUpdate, "a")
	b.Publish(TopicPriceUpdate, "b")

	assert.Equal(t, []string{"a", "b"}, first)
	assert.Equal(t, []string{"a", "b"}, second)
}

func TestTopicsAreIndependent(t *testing.T) {
	b := New()

	var chart, trade int
	b.Subscribe(TopicChartUpdate, func(any) { chart++ })
	b.Subscribe(TopicTradeUpdate, func(any) { trade++ })

	b.Publish(TopicChartUpdate, struct{}{})
	b.Publish(TopicChartUpdate, struct{}{})
	b.Publish(TopicTradeUpdate, struct{}{})

	assert.Equal(t, 2, chart)
	assert.Equal(t, 1, trade)
}

func TestPublishWithoutSubscribersIsANoop(t *testing.T) {
	b := New()
	assert.NotPanics(t, func() {
		b.Publish("nobody-listening", 42)
	})
}

func TestNoReplayForLateSubscribers(t *testing.T) {
	b := New()

	b.Publish(TopicPriceUpdate, "missed")

	var got []any
	b.Subscribe(TopicPriceUpdate, func(payload any) {
		got = append(got, payload)
	})

	assert.Empty(t, got)
}
