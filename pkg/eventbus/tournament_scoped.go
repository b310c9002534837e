package eventbus

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
)

// PublishWithTournamentScope publishes msg to baseTopic and a copy to the
// tournament-scoped topic {baseTopic}.{tournamentID}.
//
// Internal handlers subscribe to the base topic. Display clients follow a single
// tournament:
//   - "match.completed.v1.asl" catches ASL results only
func PublishWithTournamentScope(bus message.Publisher, baseTopic, tournamentID string, msg *message.Message) error {
	if tournamentID == "" {
		return fmt.Errorf("tournamentID cannot be empty for tournament-scoped publish")
	}

	if err := bus.Publish(baseTopic, msg); err != nil {
		return err
	}

	scoped := msg.Copy()
	return bus.Publish(FormatTournamentScopedTopic(baseTopic, tournamentID), scoped)
}

// FormatTournamentScopedTopic formats a topic with the tournament suffix without publishing.
func FormatTournamentScopedTopic(baseTopic, tournamentID string) string {
	return fmt.Sprintf("%s.%s", baseTopic, tournamentID)
}
