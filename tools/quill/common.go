// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/Fantom-foundation/Quill/assembly"
	"github.com/Fantom-foundation/Quill/common"
	"github.com/Fantom-foundation/Quill/compiler"
	"github.com/Fantom-foundation/Quill/database"
)

var (
	dbDirectoryFlag = cli.StringFlag{
		Name:     "dir",
		Usage:    "the database directory",
		Required: true,
	}
	accountFlag = cli.StringFlag{
		Name:     "account",
		Usage:    "the 0x-prefixed id of the targeted account",
		Required: true,
	}
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "the compiler configuration to use",
		Value: compiler.DefaultConfig.Name,
	}
	verboseFlag = cli.BoolFlag{
		Name:  "verbose",
		Usage: "enables debug logging",
	}
)

func newLogger(ctx *cli.Context) zerolog.Logger {
	level := zerolog.InfoLevel
	if ctx.Bool(verboseFlag.Name) {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func parseAccount(ctx *cli.Context) (common.AccountId, error) {
	return common.ParseAccountId(ctx.String(accountFlag.Name))
}

func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read source: %w", err)
	}
	return string(data), nil
}

// withDatabase opens the database in the configured directory, runs the given
// operation on it and closes it again.
func withDatabase(ctx *cli.Context, op func(database.Database, zerolog.Logger) error) (err error) {
	log := newLogger(ctx)
	dir := ctx.String(dbDirectoryFlag.Name)
	log.Debug().Str("dir", dir).Msg("opening database")
	db, err := database.Open(dir)
	if err != nil {
		return err
	}
	defer func() {
		log.Debug().Str("dir", dir).Msg("closing database")
		if closeError := db.Close(); closeError != nil {
			if err == nil {
				err = closeError
			} else {
				log.Error().Err(closeError).Msg("failure closing database")
			}
		}
	}()
	return op(db, log)
}

// newCompiler creates a transaction compiler knowing all interfaces recorded
// in the given database.
func newCompiler(ctx *cli.Context, db database.Database, log zerolog.Logger) (*compiler.TransactionCompiler, error) {
	config, found := compiler.GetConfigByName(ctx.String(configFlag.Name))
	if !found {
		return nil, fmt.Errorf("unknown compiler configuration %q", ctx.String(configFlag.Name))
	}
	asm, err := assembly.NewTextAssembler(assembly.DefaultKernelModule)
	if err != nil {
		return nil, err
	}
	config.Logger = log
	res := compiler.NewTransactionCompiler(asm, config)
	count, err := res.LoadInterfaces(db)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("interfaces", count).Msg("account interfaces loaded")
	return res, nil
}
