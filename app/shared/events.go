package shared

import "time"

// EventType identifies an entry in a group's audit history.
type EventType string

const (
	EventSeasonStarted EventType = "SEASON_STARTED"
	EventSeasonEnded   EventType = "SEASON_ENDED"
	EventSeasonUpdated EventType = "SEASON_UPDATED"
	EventSeasonReset   EventType = "SEASON_RESET"
	EventGameRecorded  EventType = "GAME_RECORDED"
	EventGameUndone    EventType = "GAME_UNDONE"
	EventDeckCreated   EventType = "DECK_CREATED"
	EventDeckDeleted   EventType = "DECK_DELETED"
)

// TopicGroupEvents is the bus topic all group audit events are published on.
const TopicGroupEvents = "group.events"

// GroupEventPayload is the wire payload published for every audit event.
type GroupEventPayload struct {
	GroupID    int64     `json:"group_id"`
	EventType  EventType `json:"event_type"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}
