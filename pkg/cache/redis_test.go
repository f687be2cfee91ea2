package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew_UnreachableServer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	c, err := New(ctx,
		WithAddress("127.0.0.1:1"),
		WithDialTimeout(100*time.Millisecond),
	)

	assert.Nil(t, c)
	assert.ErrorContains(t, err, "ping redis at 127.0.0.1:1")
}

func TestCache_Key(t *testing.T) {
	c := &Cache{keyPrefix: "ta-grader:"}

	assert.Equal(t, "ta-grader:llm:completion:abc", c.key("llm:completion:abc"))
	assert.Equal(t, "plain", (&Cache{}).key("plain"))
}
