package config

import "flag"

// RegisterFlags binds the configuration flags to fs and returns the config path holder.
func RegisterFlags(fs *flag.FlagSet) *string {
	return fs.String("config", DefaultPath, "path to yaml config")
}
