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

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/Fantom-foundation/Quill/common"
	"github.com/Fantom-foundation/Quill/database"
)

var (
	codeFlag = cli.StringFlag{
		Name:  "code",
		Usage: "file containing the account code module",
	}
	proceduresFlag = cli.StringSliceFlag{
		Name:  "procedure",
		Usage: "0x-prefixed digest of an exported procedure, may be repeated",
	}
)

var registerCommand = cli.Command{
	Action: register,
	Name:   "register",
	Usage:  "registers the interface of an account, either from its code or from a list of procedures",
	Flags: []cli.Flag{
		&dbDirectoryFlag,
		&accountFlag,
		&codeFlag,
		&proceduresFlag,
		&configFlag,
	},
}

var listInterfacesCommand = cli.Command{
	Action: listInterfaces,
	Name:   "interfaces",
	Usage:  "lists the registered account interfaces",
	Flags: []cli.Flag{
		&dbDirectoryFlag,
	},
}

func register(ctx *cli.Context) error {
	id, err := parseAccount(ctx)
	if err != nil {
		return err
	}
	codeFile := ctx.String(codeFlag.Name)
	digests := ctx.StringSlice(proceduresFlag.Name)
	if (codeFile == "") == (len(digests) == 0) {
		return fmt.Errorf("either --%s or --%s must be provided", codeFlag.Name, proceduresFlag.Name)
	}

	return withDatabase(ctx, func(db database.Database, log zerolog.Logger) error {
		if codeFile == "" {
			procedures := make([]common.Digest, 0, len(digests))
			for _, digest := range digests {
				procedure, err := common.ParseDigest(digest)
				if err != nil {
					return err
				}
				procedures = append(procedures, procedure)
			}
			if err := db.PutInterface(id, procedures); err != nil {
				return err
			}
			log.Info().Str("account", id.String()).Int("procedures", len(procedures)).Msg("interface registered")
			return nil
		}

		source, err := readSource(codeFile)
		if err != nil {
			return err
		}
		txCompiler, err := newCompiler(ctx, db, log)
		if err != nil {
			return err
		}
		code, err := txCompiler.LoadAccount(id, source)
		if err != nil {
			return err
		}
		if err := db.PutCode(id, code); err != nil {
			return err
		}
		fmt.Printf("Code root: %v\n", code.Root())
		for i, procedure := range code.Procedures() {
			fmt.Printf("Procedure %d: %v\n", i, procedure)
		}
		return nil
	})
}

func listInterfaces(ctx *cli.Context) error {
	return withDatabase(ctx, func(db database.Database, _ zerolog.Logger) error {
		return db.ForEachInterface(func(id common.AccountId, procedures []common.Digest) error {
			fmt.Printf("Account %v: %d procedures\n", id, len(procedures))
			for _, procedure := range procedures {
				fmt.Printf("  %v\n", procedure)
			}
			return nil
		})
	})
}
