// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"github.com/luxfi/appinstall/cmd/binarycmd"
	"github.com/luxfi/appinstall/cmd/installcmd"
	"github.com/luxfi/appinstall/cmd/listcmd"
	"github.com/luxfi/appinstall/cmd/uninstallcmd"
	"github.com/luxfi/appinstall/pkg/application"
	"github.com/luxfi/appinstall/pkg/config"
	"github.com/luxfi/appinstall/pkg/constants"
	"github.com/luxfi/appinstall/pkg/ux"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	app *application.App

	Version = "1.0.2"

	cfgFile     string
	logLevel    string
	baseDirFlag string
	verboseFlag bool
	quietFlag   bool
)

func NewRootCmd() *cobra.Command {
	// rootCmd represents the base command when called without any subcommands
	rootCmd := &cobra.Command{
		Use: "appinstall",
		Long: `appinstall - Install and uninstall desktop application packages.

appinstall abstracts heterogeneous package formats behind a uniform
install/uninstall/get-binary interface, for automation harnesses that
need a predictable install path and binary location on any platform.

SUPPORTED FORMATS:

  zip, tar.gz, tar.bz2, tar   extracted in-process
  exe (NSIS style)            run silently (windows)
  dmg                         mounted and copied (macOS)

COMMAND OVERVIEW:

  install    Install a package and print the binary path
  uninstall  Remove an installed application
  binary     Locate the binary inside an installed tree
  list       List managed installs

QUICK START:

  # Install a package into the managed apps dir
  appinstall install firefox-91.0.tar.bz2

  # Locate the binary of an existing tree
  appinstall binary ~/apps/firefox --app firefox

  # Remove it again
  appinstall uninstall firefox

For detailed command help, use: appinstall <command> --help`,
		PersistentPreRunE: createApp,
		Version:           Version,
	}

	// Disable printing the completion command
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.appinstall/config.json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "error", "log level for the application")
	rootCmd.PersistentFlags().StringVar(&baseDirFlag, "base-dir", "", "base directory for managed installs, logs and receipts")
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Show verbose output (info level logs)")
	rootCmd.PersistentFlags().BoolVar(&quietFlag, "quiet", false, "Show only errors (quiet mode)")

	// add sub commands
	rootCmd.AddCommand(installcmd.NewCmd(app))
	rootCmd.AddCommand(uninstallcmd.NewCmd(app))
	rootCmd.AddCommand(binarycmd.NewCmd(app))
	rootCmd.AddCommand(listcmd.NewCmd(app))

	return rootCmd
}

func createApp(_ *cobra.Command, _ []string) error {
	baseDir, err := setupEnv()
	if err != nil {
		return err
	}
	log, err := setupLogging(baseDir)
	if err != nil {
		return err
	}

	cf := config.New()
	app.Setup(baseDir, log, cf)
	ux.NewUserLog(log, os.Stdout)

	initConfig(baseDir)
	return nil
}

func setupEnv() (string, error) {
	baseDir := baseDirFlag
	if baseDir == "" {
		baseDir = os.Getenv(constants.EnvBaseDir)
	}
	if baseDir == "" {
		usr, err := user.Current()
		if err != nil {
			// no logger here yet
			fmt.Printf("unable to get system user %s\n", err)
			return "", err
		}
		baseDir = filepath.Join(usr.HomeDir, constants.BaseDirName)
	}

	// Create base dir if it doesn't exist
	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		// no logger here yet
		fmt.Printf("failed creating the basedir %s: %s\n", baseDir, err)
		return "", err
	}

	// Create apps dir if it doesn't exist
	appsDir := filepath.Join(baseDir, constants.AppsDirName)
	if err := os.MkdirAll(appsDir, 0o750); err != nil {
		fmt.Printf("failed creating the apps dir %s: %s\n", appsDir, err)
		return "", err
	}

	// Create receipts dir if it doesn't exist
	receiptsDir := filepath.Join(baseDir, constants.ReceiptsDirName)
	if err := os.MkdirAll(receiptsDir, 0o750); err != nil {
		fmt.Printf("failed creating the receipts dir %s: %s\n", receiptsDir, err)
		return "", err
	}

	return baseDir, nil
}

func setupLogging(baseDir string) (*zap.Logger, error) {
	logDir := filepath.Join(baseDir, constants.LogDir)
	if err := os.MkdirAll(logDir, 0o750); err != nil {
		return nil, err
	}
	logFile, err := os.OpenFile(
		filepath.Join(logDir, constants.LogFileName),
		os.O_CREATE|os.O_APPEND|os.O_WRONLY,
		constants.WriteReadReadPerms,
	)
	if err != nil {
		return nil, err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	// Everything at info and up goes to the log file; the console only
	// shows what the flags ask for.
	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.AddSync(logFile),
		zapcore.InfoLevel,
	)
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(os.Stderr),
		consoleLevel(),
	)
	return zap.New(zapcore.NewTee(fileCore, consoleCore)), nil
}

func consoleLevel() zapcore.Level {
	switch {
	case quietFlag:
		return zapcore.ErrorLevel
	case verboseFlag:
		return zapcore.InfoLevel
	}
	if level, err := zapcore.ParseLevel(logLevel); err == nil {
		return level
	}
	return zapcore.ErrorLevel
}

func initConfig(baseDir string) {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(baseDir)
		viper.SetConfigType(constants.DefaultConfigFileType)
		viper.SetConfigName(constants.DefaultConfigFileName)
	}

	viper.SetEnvPrefix("APPINSTALL")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		app.Log.Debug("using config file", zap.String("config-file", viper.ConfigFileUsed()))
	}
	// No config file is normal - most users don't have one, so we silently continue
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	app = application.New()
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
