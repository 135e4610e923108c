// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-inventory-sync/internal/client"
	"github.com/MKhiriev/go-inventory-sync/internal/config"
	"github.com/MKhiriev/go-inventory-sync/internal/logger"
	"github.com/MKhiriev/go-inventory-sync/models"
)

const role = "inventory-syncd"

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	fmt.Printf("Build version: %s\n", buildInfo.BuildVersion())
	fmt.Printf("Build date: %s\n", buildInfo.BuildDate())
	fmt.Printf("Build commit: %s\n", buildInfo.BuildCommit())

	cfg, err := config.GetClientConfig()
	if err != nil {
		logger.NewLogger(role).Fatal().Err(err).Msg("error getting configs")
	}

	log := logger.NewFileLogger(role, cfg.LogFile)
	log.Info().Stringer("build", buildInfo).Msg("starting sync daemon")
	log.Debug().Int("servers", len(cfg.Servers)).Any("sync", cfg.Sync).Msg("received configs")

	ctx := context.Background()
	app, err := client.NewApp(ctx, cfg, buildInfo, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init sync daemon error")
	}

	if err = app.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("sync daemon run error")
	}
}
