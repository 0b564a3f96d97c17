// Package config holds the small set of engine-wide settings that unit
// selection and interface activation consult: where units live on disk,
// and what working directory an interface runs in when its description
// doesn't override one.
package config

// Config is the engine's runtime configuration, built once in cmd/unitd
// from flags and handed by reference to the library and to every
// description's Select/Activate call, mirroring the teacher's pattern of
// threading a single *Config through container creation.
type Config struct {
	// WorkingDirectory is the default directory an interface process is
	// started in when its description has no WorkingDirectory override.
	WorkingDirectory string

	// UnitDirectories lists the directories scanned for unit description
	// files at startup and watched for changes thereafter.
	UnitDirectories []string

	// LogLevel is the zap level name ("debug", "info", "warn", "error").
	LogLevel string
}

// Default returns a Config usable when no flags are given: the process's
// own working directory, no unit directories (the caller must supply at
// least one to do anything useful), and info-level logging.
func Default() *Config {
	return &Config{
		WorkingDirectory: ".",
		LogLevel:         "info",
	}
}
