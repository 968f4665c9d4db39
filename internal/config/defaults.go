package config

const (
	defaultLogDir        = "~/.local/share/postshow/logs"
	defaultStateDir      = "~/.local/share/postshow"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
	defaultEncoderBinary = "lame"
)

// cbrBitrates lists the kbit/s values LAME accepts for constant bitrate
// MPEG-1 Layer III output.
var cbrBitrates = []int{32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320}

// Default produces the baseline configuration. Profiles have no default:
// every show must be configured explicitly.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:   defaultLogDir,
			StateDir: defaultStateDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Encoder: Encoder{
			Binary: defaultEncoderBinary,
		},
		Profiles: map[string]Profile{},
	}
}
