// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package testutils

import (
	"io"
	"testing"

	"github.com/luxfi/appinstall/pkg/application"
	"github.com/luxfi/appinstall/pkg/config"
	"github.com/luxfi/appinstall/pkg/ux"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func SetupTest(t *testing.T) *require.Assertions {
	// use io.Discard to not print anything
	ux.NewUserLog(zap.NewNop(), io.Discard)
	return require.New(t)
}

func SetupTestInTempDir(t *testing.T) *application.App {
	testDir := t.TempDir()

	app := application.New()
	app.Setup(testDir, zap.NewNop(), config.New())
	ux.NewUserLog(zap.NewNop(), io.Discard)
	return app
}
