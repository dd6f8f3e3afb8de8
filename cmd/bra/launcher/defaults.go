package launcher

// Defaults bundles the baseline configuration values the launcher uses
// before presets, the config file and flags override them.

type Defaults struct {
	Reader  ReaderDefaults
	Logging LoggingDefaults
}

// ReaderDefaults selects the byte source and sizes the greedy reader.
type ReaderDefaults struct {
	Input        string //	Path of the file to read; "-" reads standard input.
	Repeat       int    //	When 0-255, read an endless stream of this byte instead of Input. -1 disables it.
	Preset       string //	Name of the integration preset applied before the config file and flags.
	Capacity     int    //	Initial buffer capacity; 0 lets the reader grow from 16 bytes by doubling.
	ChunkSize    int    //	Largest chunk the cat command writes per step.
	CompactAfter int    //	Consumed bytes after which cat calls Clear; 0 keeps the whole history addressable.
}

// LoggingDefaults controls log verbosity/format.
type LoggingDefaults struct {
	Verbosity int    //	logrus level numeric (0=panic, 1=fatal, 2=error, 3=warn, 4=info, 5=debug, 6=trace).
	Format    string //	Log output format (text vs json).
	Color     bool   //	Whether to force ANSI color codes in text logs.
	SentryDSN string //	When set, error level entries are also sent to Sentry.
}

// DefaultConfig returns a fully populated Defaults instance.

func DefaultConfig() Defaults {
	return Defaults{
		Reader: ReaderDefaults{
			Input:        "-",
			Repeat:       -1,
			Preset:       "default",
			Capacity:     0,
			ChunkSize:    4096,
			CompactAfter: 0,
		},
		Logging: LoggingDefaults{
			Verbosity: 3,
			Format:    "text",
			Color:     false,
		},
	}
}
