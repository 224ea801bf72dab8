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

	"github.com/Fantom-foundation/Quill/account"
	"github.com/Fantom-foundation/Quill/common"
	"github.com/Fantom-foundation/Quill/database"
)

var (
	slotFlag = cli.UintFlag{
		Name:     "slot",
		Usage:    "index of the updated storage slot",
		Required: true,
	}
	valueFlag = cli.StringFlag{
		Name:  "value",
		Usage: "0x-prefixed 32 byte word written to the slot, the slot is cleared if omitted",
	}
)

var storageCommand = cli.Command{
	Name:  "storage",
	Usage: "inspects and modifies account storages",
	Subcommands: []*cli.Command{
		{
			Action: storageInfo,
			Name:   "info",
			Usage:  "prints the root, the layout and the non-empty slots of an account storage",
			Flags: []cli.Flag{
				&dbDirectoryFlag,
				&accountFlag,
			},
		},
		{
			Action: storageSet,
			Name:   "set",
			Usage:  "writes a value slot of an account storage, creating a default storage if needed",
			Flags: []cli.Flag{
				&dbDirectoryFlag,
				&accountFlag,
				&slotFlag,
				&valueFlag,
			},
		},
		{
			Action: storageDelete,
			Name:   "delete",
			Usage:  "removes all records of an account",
			Flags: []cli.Flag{
				&dbDirectoryFlag,
				&accountFlag,
			},
		},
	},
}

func storageInfo(ctx *cli.Context) error {
	id, err := parseAccount(ctx)
	if err != nil {
		return err
	}
	return withDatabase(ctx, func(db database.Database, _ zerolog.Logger) error {
		storage, found, err := db.GetStorage(id)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("no storage recorded for account %v", id)
		}
		fmt.Printf("Root: %v\n", storage.Root())
		fmt.Printf("Layout commitment: %v\n", storage.LayoutCommitment())
		for i, slotType := range storage.Layout() {
			value := storage.GetItem(uint8(i))
			if slotType.IsDefault() && value.IsZero() {
				continue
			}
			fmt.Printf("Slot %3d: %-16v %v\n", i, slotType, value)
		}
		if maps := storage.Maps(); maps != nil {
			fmt.Printf("Maps: %d\n", len(maps))
		}
		return nil
	})
}

func storageSet(ctx *cli.Context) error {
	id, err := parseAccount(ctx)
	if err != nil {
		return err
	}
	slot := ctx.Uint(slotFlag.Name)
	if slot > 255 {
		return fmt.Errorf("invalid slot index %d", slot)
	}
	delta := &account.StorageDelta{}
	if ctx.IsSet(valueFlag.Name) {
		value, err := common.ParseWord(ctx.String(valueFlag.Name))
		if err != nil {
			return err
		}
		delta.AppendUpdate(uint8(slot), value)
	} else {
		delta.AppendClear(uint8(slot))
	}

	return withDatabase(ctx, func(db database.Database, log zerolog.Logger) error {
		storage, found, err := db.GetStorage(id)
		if err != nil {
			return err
		}
		if !found {
			log.Info().Str("account", id.String()).Msg("creating default storage")
			if storage, err = account.NewStorage(nil, nil); err != nil {
				return err
			}
		}
		if err := storage.ApplyDelta(delta); err != nil {
			return err
		}
		if err := db.PutStorage(id, storage); err != nil {
			return err
		}
		fmt.Printf("Root: %v\n", storage.Root())
		return nil
	})
}

func storageDelete(ctx *cli.Context) error {
	id, err := parseAccount(ctx)
	if err != nil {
		return err
	}
	return withDatabase(ctx, func(db database.Database, _ zerolog.Logger) error {
		return db.DeleteAccount(id)
	})
}
