package log

// output name, default support console and file.
const (
	OutputConsole = "console"
	OutputFile    = "file"
)

// Config is the log config. Each log may have multiple outputs.
type Config []OutputConfig

// OutputConfig is the output config, includes console, file.
type OutputConfig struct {
	// Writer is the output of log, such as console or file.
	Writer      string      `yaml:"writer" toml:"writer" json:"writer"`
	WriteConfig WriteConfig `yaml:"writer_config" toml:"writer_config" json:"writer_config"`

	// Formatter is the format of log, such as console or json.
	Formatter    string       `yaml:"formatter" toml:"formatter" json:"formatter"`
	FormatConfig FormatConfig `yaml:"formatter_config" toml:"formatter_config" json:"formatter_config"`

	// Level controls the log level, like debug, info or error.
	Level string `yaml:"level" toml:"level" json:"level"`

	// EnableColor determines if the level is printed in color.
	EnableColor bool `yaml:"enable_color" toml:"enable_color" json:"enable_color"`
}

// WriteConfig is the local file config.
type WriteConfig struct {
	// LogPath is the log path like /usr/local/lifostack/log/.
	LogPath string `yaml:"log_path" toml:"log_path" json:"log_path"`
	// Filename is the file name like lifostack.log.
	Filename string `yaml:"filename" toml:"filename" json:"filename"`
	// TimeFormat is a strftime suffix of the file name, like ".%Y%m%d" for one file per day.
	TimeFormat string `yaml:"time_format" toml:"time_format" json:"time_format"`
	// MaxSize is the size in MB at which the file is backed up, 0 means never.
	MaxSize int `yaml:"max_size" toml:"max_size" json:"max_size"`
	// MaxBackups is the number of backups kept, 0 keeps all.
	MaxBackups int `yaml:"max_backups" toml:"max_backups" json:"max_backups"`
}

// FormatConfig is the log format config.
type FormatConfig struct {
	// TimeFmt is the time format of log output, default as "2006-01-02 15:04:05.000" on empty.
	// "seconds", "milliseconds" and "nanoseconds" print epoch timestamps.
	TimeFmt string `yaml:"time_fmt" toml:"time_fmt" json:"time_fmt"`

	// TimeKey is the time key of log output, default as "T".
	TimeKey    string `yaml:"time_key" toml:"time_key" json:"time_key"`
	// LevelKey is the level key of log output, default as "L".
	LevelKey   string `yaml:"level_key" toml:"level_key" json:"level_key"`
	// CallerKey is the caller key of log output, default as "C".
	CallerKey  string `yaml:"caller_key" toml:"caller_key" json:"caller_key"`
	// MessageKey is the message key of log output, default as "M".
	MessageKey string `yaml:"message_key" toml:"message_key" json:"message_key"`
}

var defaultConfig = Config{
	{
		Writer:    OutputConsole,
		Level:     "debug",
		Formatter: "console",
	},
}

// DefaultConfig returns a copy of the config of the default logger.
func DefaultConfig() Config {
	return append(Config(nil), defaultConfig...)
}
