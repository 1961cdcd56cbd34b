package config

import "os"

func IsDebug() bool {
	return os.Getenv("LINGOBOT_DEBUG") == "1"
}
