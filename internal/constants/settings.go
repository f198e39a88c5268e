package constants

const (
	// Environment variables
	EnvConfig         = "DAYLOG_CONFIG"
	EnvDBConnection   = "DAYLOG_DB_CONNECTION"
	EnvDebug          = "DAYLOG_DEBUG"
	EnvTimezone       = "DAYLOG_TIMEZONE"
	EnvDebounceMs     = "DAYLOG_DEBOUNCE_MS"
	EnvLoadTimeout    = "DAYLOG_LOAD_TIMEOUT"
	EnvUser           = "DAYLOG_USER"
	EnvTelegramToken  = "DAYLOG_TELEGRAM_TOKEN"
	EnvTelegramChatID = "DAYLOG_TELEGRAM_CHAT_ID"
	EnvRemindAt       = "DAYLOG_REMIND_AT"

	// Default values
	DefaultTimezone  = "Local" // Use system local timezone by default
	DefaultHabitIcon = "dumbbell"

	// Mood is rated on a five point scale
	MinMood = 0
	MaxMood = 4

	// PackedTextSeparator joins "<artist> - <title>" and "<word> - <definition>"
	PackedTextSeparator = " - "
)

// DefaultAffirmations are shown to users who have not configured their own.
var DefaultAffirmations = []string{
	"I am disciplined and focused.",
	"I build quietly and consistently.",
	"Action over anxiety.",
	"One step at a time.",
	"Progress, not perfection.",
}
