package ifacerun

import (
	"strings"

	"go.uber.org/zap"
)

func toLower(s string) string { return strings.ToLower(s) }

func join(words []string) string { return strings.Join(words, " ") }

// trySend posts msg onto the manager's control channel. The channel is a
// many-producer-one-consumer queue with no failure mode short of the
// consumer being gone for good, so this blocks rather than drops -
// unlike the broadcaster, which fans out to possibly-absent subscribers
// and must never block a publisher.
func trySend(control chan<- ControlMessage, msg ControlMessage, logger *zap.Logger) {
	control <- msg
}
