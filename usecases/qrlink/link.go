package qrlink

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const DefaultLinkBaseURL = "https://discord.com/channels"

// BuildMessageLink returns the jump link for a message,
// e.g. https://discord.com/channels/1011124058408112148/1290809227643977799/1299105987684339824
func BuildMessageLink(baseURL, guildID, channelID, messageID string) string {
	return fmt.Sprintf("%s/%s/%s/%s", strings.TrimRight(baseURL, "/"), guildID, channelID, messageID)
}

// RenderQRCode encodes content as a QR code drawn with unicode half blocks,
// two modules per character row so it stays readable in a chat code block.
func RenderQRCode(content string) (string, error) {
	code, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to encode QR code: %w", err)
	}
	return strings.TrimRight(code.ToSmallString(false), "\n"), nil
}

// FencedBlock wraps text in a markdown code fence
func FencedBlock(text string) string {
	return fmt.Sprintf("```\n%s\n```", text)
}
