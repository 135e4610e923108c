// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds a host and port. It implements flag.Value.
type NetAddress struct {
	Host string
	Port int
}

// parseFlags parses the daemon flags from args.
//
// Flags:
//
//	-a status API address in format [host]:[port]
//	-d database DSN
//	-c/-config json file path with configs
//	-request-timeout remote request timeout (e.g., "30s", "1m")
//	-batch-size replication batch size
//	-batches-limit replication batches prefetched ahead of the writer
//	-grace-period background grace period (e.g., "5s")
//	-sync-disabled start with sync switched off
//	-log-file write logs to this file
func parseFlags(args []string) (*StructuredConfig, error) {
	var serverAddress NetAddress
	var databaseDSN string
	var jsonConfigPath string
	var requestTimeout time.Duration
	var batchSize int
	var batchesLimit int
	var gracePeriod time.Duration
	var syncDisabled bool
	var logFile string

	fs := flag.NewFlagSet("syncd", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.Var(&serverAddress, "a", "Status API address host:port")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Remote request timeout (e.g., 30s, 1m)")
	fs.IntVar(&batchSize, "batch-size", 0, "Replication batch size")
	fs.IntVar(&batchesLimit, "batches-limit", 0, "Replication batches prefetched ahead of the writer")
	fs.DurationVar(&gracePeriod, "grace-period", 0, "Background grace period (e.g., 5s)")
	fs.BoolVar(&syncDisabled, "sync-disabled", false, "Start with sync switched off")
	fs.StringVar(&logFile, "log-file", "", "Log file path")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		Storage: Storage{
			DB: DB{DSN: databaseDSN},
		},
		Server: Server{
			HTTPAddress: serverAddress.String(),
		},
		Adapter: Adapter{
			RequestTimeout: requestTimeout,
		},
		Sync: Sync{
			Disabled:     syncDisabled,
			BatchSize:    batchSize,
			BatchesLimit: batchesLimit,
			GracePeriod:  gracePeriod,
		},
		Log:          Log{FilePath: logFile},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns host:port, or "" when nothing is set.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses host:port. The host must be "localhost", empty or an IP.
func (a *NetAddress) Set(s string) error {
	host, portStr, found := strings.Cut(s, ":")
	if !found || strings.Contains(portStr, ":") {
		return errors.New("need address in a form `host:port`")
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return err
	}
	if port < 1 || port > 65535 {
		return errors.New("port number must be between 1 and 65535")
	}

	if host != "" && host != "localhost" && net.ParseIP(host) == nil {
		return errors.New("incorrect IP-address provided")
	}

	a.Host = host
	a.Port = port
	return nil
}
