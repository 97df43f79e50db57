package domain

type NotificationLevel string

const (
	LevelSuccess NotificationLevel = "success"
	LevelError   NotificationLevel = "error"
)

type Notification struct {
	Level   NotificationLevel
	Message string
}

func Success(msg string) Notification {
	return Notification{Level: LevelSuccess, Message: msg}
}

func Failure(msg string) Notification {
	return Notification{Level: LevelError, Message: msg}
}
