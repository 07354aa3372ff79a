package riot

// Wire shapes for the match-v5 endpoints. Only the fields the scoring engine
// consumes are declared; the rest of the payload is ignored on decode.

type matchEnvelope struct {
	Metadata matchMetadata `json:"metadata"`
	Info     matchInfo     `json:"info"`
}

type matchMetadata struct {
	MatchID string `json:"matchId"`
}

type matchInfo struct {
	QueueID            int                `json:"queueId"`
	GameStartTimestamp int64              `json:"gameStartTimestamp"`
	GameDuration       int                `json:"gameDuration"`
	Participants       []participantEntry `json:"participants"`
}

type participantEntry struct {
	PUUID          string `json:"puuid"`
	Win            bool   `json:"win"`
	Kills          int    `json:"kills"`
	Deaths         int    `json:"deaths"`
	Assists        int    `json:"assists"`
	FirstBloodKill bool   `json:"firstBloodKill"`
	FirstTowerKill bool   `json:"firstTowerKill"`
}
