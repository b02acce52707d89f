package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalog(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	require.Len(t, c.Hottest, 10)
	assert.Len(t, c.Newest, 8)
	assert.Len(t, c.Trending, 6)

	assert.Equal(t, "ChatGPT", c.Hottest[0].Name)
	for i := 1; i < len(c.Hottest); i++ {
		assert.GreaterOrEqual(t, c.Hottest[i-1].Popularity, c.Hottest[i].Popularity)
	}
	assert.Equal(t, "Google's multimodal AI.", findTool(c.Hottest, "h6").Description)
}

func TestFilter(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	chat := c.Filter("chat")
	assert.Len(t, chat.Hottest, 3)
	assert.Empty(t, chat.Newest)
	assert.Len(t, chat.Trending, 6)

	assert.Same(t, c, c.Filter(" "))
}

func findTool(list []Tool, id string) Tool {
	for _, t := range list {
		if t.ID == id {
			return t
		}
	}
	return Tool{}
}
