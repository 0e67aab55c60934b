package main

import (
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewDevelopment()
	defer logger.Sync() // flushes buffer, if any

	godotenv.Load()

	config, err := NewConfig()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	s := NewServer(config, logger)

	s.Run()
}
