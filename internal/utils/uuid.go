// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"strings"

	"github.com/google/uuid"
)

const shortIDLength = 8

type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a time-ordered UUIDv7, falling back to a random UUID.
func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}

// GenerateShort returns the first eight hex digits of a random UUID. Used
// for server ids, which end up in URLs and logs.
func (g *UUIDGenerator) GenerateShort() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:shortIDLength]
}
