package qrlink

// Unicode emoji used by the QR link plugin
const (
	EmojiMobilePhone = "📱" // Requests a QR code for the reacted message
)
