// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package constants

import (
	"time"
)

const (
	DefaultPerms755    = 0o755
	WriteReadReadPerms = 0o644

	BaseDirName     = ".appinstall"
	LogDir          = "logs"
	AppsDirName     = "apps"
	ReceiptsDirName = "receipts"

	LogFileName = "appinstall.log"

	SuffixSeparator = "_"
	ReceiptFileName = "receipt.json"
	ReceiptSuffix   = SuffixSeparator + ReceiptFileName

	ReceiptVersion = "1.0.0"

	DefaultConfigFileName = "config"
	DefaultConfigFileType = "json"

	// Silent platform installers can take a while on loaded CI machines.
	InstallTimeout   = 3 * time.Minute
	UninstallTimeout = 3 * time.Minute

	// NSIS convention used by the application packages this tool targets:
	// the installer drops its own uninstaller inside the install dir.
	UninstallHelperDir  = "uninstall"
	UninstallHelperName = "helper.exe"
	SilentFlag          = "/S"

	ConfigAppsKey           = "apps"
	ConfigInstallTimeoutKey = "install-timeout"

	EnvBaseDir = "APPINSTALL_HOME"
)
