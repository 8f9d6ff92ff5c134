package server

import (
	"github.com/rs/zerolog/log"
)

// recoveryLogger routes panics caught by the recovery handler to zerolog.
type recoveryLogger struct{}

func (recoveryLogger) Println(v ...interface{}) {
	log.Error().Interface("panic", v).Msg("Recovered from handler panic")
}
