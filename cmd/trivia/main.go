package main

import (
	"os"

	"github.com/rs/zerolog/log"
)

func main() {
	os.Exit(exitCode(Execute()))
}

// exitCode логирует ошибку команды и возвращает код выхода процесса.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	log.Error().Err(err).Msg("trivia")
	return 1
}
