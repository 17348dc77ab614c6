package budget

import "cash-flow/internal/finance"

type MessageKey string

const (
	MsgExceeded          MessageKey = "exceeded"
	MsgWithinLimit       MessageKey = "within_limit"
	MsgAlreadyNotified   MessageKey = "already_notified"
	MsgLimitUnavailable  MessageKey = "limit_unavailable"
	MsgAcknowledgeFailed MessageKey = "acknowledge_failed"
)

var messages = map[finance.Language]map[MessageKey]string{
	finance.English: {
		MsgExceeded:          "You have exceeded your daily cash out limit!",
		MsgWithinLimit:       "You are within your daily limit.",
		MsgAlreadyNotified:   "You have already been notified about today's limit.",
		MsgLimitUnavailable:  "Failed to retrieve the daily limit.",
		MsgAcknowledgeFailed: "Failed to mark notification as acknowledged.",
	},
	finance.Chinese: {
		MsgExceeded:          "您已超出今日支出限额！",
		MsgWithinLimit:       "您今日的支出仍在限额之内。",
		MsgAlreadyNotified:   "今日已提醒过支出超限。",
		MsgLimitUnavailable:  "获取每日限额失败。",
		MsgAcknowledgeFailed: "标记提醒状态失败。",
	},
}

// Message returns the localized text for key, falling back to English.
func Message(lang finance.Language, key MessageKey) string {
	if m, ok := messages[lang]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	return messages[finance.English][key]
}
