package config

const (
	defaultTempDir     = "~/.cache/chronophoto"
	defaultLogDir      = "~/.local/share/chronophoto/logs"
	defaultCompression = "gzip/6"
	defaultSlicing     = "rows/4"
	defaultThreshold   = "abs/0.05/0.2"
	defaultBackground  = "first"
	defaultOutlier     = "extreme"
	defaultWeights     = "1/1/1"
	defaultQuality     = 95
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			TempDir: defaultTempDir,
			LogDir:  defaultLogDir,
		},
		Processing: Processing{
			Compression: defaultCompression,
			Slicing:     defaultSlicing,
		},
		Render: Render{
			Threshold:  defaultThreshold,
			Background: defaultBackground,
			Outlier:    defaultOutlier,
			Weights:    defaultWeights,
			Quality:    defaultQuality,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
