package constants

import "time"

const (
	AppName            = "daylog"
	DefaultKeyringUser = "database-connection"
	IdentityKeyringKey = "current-user"
	DefaultConfigPath  = "~/.config/daylog/daylog.db"
	MemoryDatabase     = ":memory:"
	Version            = "v0.1.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Session constants
	DefaultDebounce    = 1 * time.Second
	DefaultLoadTimeout = 10 * time.Second

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "daylog-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifierLockfileName   = "daylog-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.daylog"
	TrayExecutable         = "daylog-tray"
	TraySecretHeader       = "X-Daylog-Secret"

	// Reminder constants
	DefaultRemindAt = "21:00"

	// How often the editor re-reads the signed-in user from the keyring
	IdentityRefreshInterval = 15 * time.Second

	// Realtime channel used by the postgres store for settings changes
	SettingsChannel = "daylog_settings"
)
