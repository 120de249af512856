// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package application

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/luxfi/appinstall/pkg/config"
	"github.com/luxfi/appinstall/pkg/constants"
	"go.uber.org/zap"
)

type App struct {
	Log     *zap.Logger
	Conf    *config.Config
	baseDir string
}

func New() *App {
	return &App{}
}

func (app *App) Setup(baseDir string, log *zap.Logger, conf *config.Config) {
	app.baseDir = baseDir
	app.Log = log
	app.Conf = conf
}

func (app *App) GetBaseDir() string {
	return app.baseDir
}

// GetAppsDir returns the managed install root. Installs below it are
// tracked with receipts.
func (app *App) GetAppsDir() string {
	return filepath.Join(app.baseDir, constants.AppsDirName)
}

func (app *App) GetReceiptsDir() string {
	return filepath.Join(app.baseDir, constants.ReceiptsDirName)
}

func (app *App) GetLogDir() string {
	return filepath.Join(app.baseDir, constants.LogDir)
}

// DefaultApps returns the application names to look for when none are
// given on the command line.
func (app *App) DefaultApps() []string {
	if app.Conf == nil {
		return nil
	}
	return app.Conf.GetConfigStringSliceValue(constants.ConfigAppsKey)
}

// InstallTimeout returns the configured timeout for platform installers.
func (app *App) InstallTimeout() time.Duration {
	if app.Conf != nil && app.Conf.ConfigValueIsSet(constants.ConfigInstallTimeoutKey) {
		return app.Conf.GetConfigDurationValue(constants.ConfigInstallTimeoutKey)
	}
	return constants.InstallTimeout
}

// Receipt records one managed install. It is written next to the install
// itself so `list` and `uninstall <name>` work without rescanning trees.
type Receipt struct {
	Version     string    `json:"version"`
	Name        string    `json:"name"`
	Source      string    `json:"source"`
	Format      string    `json:"format"`
	InstallDir  string    `json:"installDir"`
	Binary      string    `json:"binary,omitempty"`
	InstalledAt time.Time `json:"installedAt"`
}

func (app *App) GetReceiptPath(name string) string {
	return filepath.Join(app.GetReceiptsDir(), name+constants.ReceiptSuffix)
}

func (app *App) ReceiptExists(name string) bool {
	_, err := os.Stat(app.GetReceiptPath(name))
	return err == nil
}

func (app *App) CreateReceipt(rc *Receipt) error {
	if rc.Name == "" {
		return errors.New("receipt needs a name")
	}
	rc.Version = constants.ReceiptVersion
	if err := os.MkdirAll(app.GetReceiptsDir(), constants.DefaultPerms755); err != nil {
		return err
	}
	receiptBytes, err := json.MarshalIndent(rc, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(app.GetReceiptPath(rc.Name), receiptBytes, constants.WriteReadReadPerms)
}

func (app *App) LoadReceipt(name string) (Receipt, error) {
	receiptBytes, err := os.ReadFile(app.GetReceiptPath(name))
	if err != nil {
		return Receipt{}, err
	}
	var rc Receipt
	if err := json.Unmarshal(receiptBytes, &rc); err != nil {
		return Receipt{}, fmt.Errorf("failed to parse receipt for %s: %w", name, err)
	}
	return rc, nil
}

// LoadAllReceipts returns every receipt, sorted by name.
func (app *App) LoadAllReceipts() ([]Receipt, error) {
	entries, err := os.ReadDir(app.GetReceiptsDir())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var receipts []Receipt
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), constants.ReceiptSuffix) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), constants.ReceiptSuffix)
		rc, err := app.LoadReceipt(name)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, rc)
	}
	sort.Slice(receipts, func(i, j int) bool { return receipts[i].Name < receipts[j].Name })
	return receipts, nil
}

func (app *App) RemoveReceipt(name string) error {
	err := os.Remove(app.GetReceiptPath(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// FindReceiptByDir returns the receipt whose install dir matches dir, if any.
func (app *App) FindReceiptByDir(dir string) (Receipt, bool) {
	receipts, err := app.LoadAllReceipts()
	if err != nil {
		return Receipt{}, false
	}
	for _, rc := range receipts {
		if rc.InstallDir == dir {
			return rc, true
		}
	}
	return Receipt{}, false
}
