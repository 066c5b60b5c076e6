package config

const (
	defaultOutputDir           = "~/.local/share/audex/output"
	defaultLogDir              = "~/.local/share/audex/logs"
	defaultFormat              = "parquet"
	defaultWorkers             = 3
	defaultAudioColumn         = "audio"
	defaultBytesColumn         = "bytes"
	defaultPathColumn          = "path"
	defaultTranscriptionColumn = "transcription"
	defaultLogFormat           = "auto"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		Extract: Extract{
			Format:  defaultFormat,
			Workers: defaultWorkers,
		},
		Columns: Columns{
			Audio:         defaultAudioColumn,
			Bytes:         defaultBytesColumn,
			Path:          defaultPathColumn,
			Transcription: defaultTranscriptionColumn,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
