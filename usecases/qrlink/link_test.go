package qrlink

import (
	"strings"
	"testing"

	qrcode "github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessageLink(t *testing.T) {
	testCases := []struct {
		name     string
		baseURL  string
		expected string
	}{
		{
			name:     "default base",
			baseURL:  DefaultLinkBaseURL,
			expected: "https://discord.com/channels/1011124058408112148/1290809227643977799/1299105987684339824",
		},
		{
			name:     "trailing slash trimmed",
			baseURL:  "https://ptb.discord.com/channels/",
			expected: "https://ptb.discord.com/channels/1011124058408112148/1290809227643977799/1299105987684339824",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, BuildMessageLink(tc.baseURL, testGuildID, testChannelID, testMessageID))
		})
	}
}

func TestRenderQRCode(t *testing.T) {
	link := BuildMessageLink(DefaultLinkBaseURL, testGuildID, testChannelID, testMessageID)

	rendered, err := RenderQRCode(link)
	require.NoError(t, err)

	code, err := qrcode.New(link, qrcode.Medium)
	require.NoError(t, err)
	assert.Equal(t, strings.TrimRight(code.ToSmallString(false), "\n"), rendered)

	lines := strings.Split(rendered, "\n")
	assert.Greater(t, len(lines), 10)
	assert.False(t, strings.HasSuffix(rendered, "\n"))

	again, err := RenderQRCode(link)
	require.NoError(t, err)
	assert.Equal(t, rendered, again, "rendering should be deterministic")

	other, err := RenderQRCode(BuildMessageLink(DefaultLinkBaseURL, testGuildID, testChannelID, testOtherMessage))
	require.NoError(t, err)
	assert.NotEqual(t, rendered, other)
}

func TestRenderQRCode_TooLong(t *testing.T) {
	_, err := RenderQRCode(strings.Repeat("x", 8000))
	assert.Error(t, err)
}

func TestFencedBlock(t *testing.T) {
	assert.Equal(t, "```\nabc\n```", FencedBlock("abc"))
	assert.Equal(t, "```\nline1\nline2\n```", FencedBlock("line1\nline2"))
}
