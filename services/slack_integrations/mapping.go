package slackintegrations

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"planbackend/models"
)

const untitledMessage = "(Starred Slack message)"

// MapStarredMessage builds the task candidate for a starred message
func MapStarredMessage(message models.SlackStarredMessage) models.SlackTaskCandidate {
	title := strings.TrimSpace(message.Text)
	if title == "" {
		title = untitledMessage
	}

	return models.SlackTaskCandidate{
		Title:       title,
		Notes:       fmt.Sprintf("Starred in Slack channel %s", message.Channel),
		ExternalURL: Permalink(message.Channel, message.TS),
		CreatedAt:   TimestampToTime(message.TS),
		Channel:     message.Channel,
		TS:          message.TS,
	}
}

// Permalink builds the archive link for a message, "1690000000.123456" becomes "p1690000000123456"
func Permalink(channel, ts string) string {
	return fmt.Sprintf("https://slack.com/archives/%s/p%s", channel, strings.ReplaceAll(ts, ".", ""))
}

// TimestampToTime converts a message ts to its millisecond instant. Unparseable values give the zero time.
func TimestampToTime(ts string) time.Time {
	secondsPart, fractionPart, _ := strings.Cut(ts, ".")
	seconds, err := strconv.ParseInt(secondsPart, 10, 64)
	if err != nil {
		return time.Time{}
	}

	var millis int64
	if fractionPart != "" {
		fractionPart = (fractionPart + "000")[:3]
		millis, err = strconv.ParseInt(fractionPart, 10, 64)
		if err != nil {
			return time.Time{}
		}
	}

	return time.UnixMilli(seconds*1000 + millis).UTC()
}
