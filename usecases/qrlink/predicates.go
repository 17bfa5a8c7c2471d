package qrlink

import "qrlink/models"

// MatchesEmoji reports whether the reaction used exactly the expected emoji.
// Comparison is byte-exact; no normalization of variation selectors or case.
func MatchesEmoji(reaction models.IncomingReaction, expected string) bool {
	return reaction.With.Name == expected
}

// HasMessageID reports whether a routed message payload can be acted on
func HasMessageID(message models.IncomingMessage) bool {
	return message.ID != ""
}
