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

	"github.com/urfave/cli/v2"

	"github.com/Fantom-foundation/Quill/assembly"
	"github.com/Fantom-foundation/Quill/compiler"
)

var getInfoCommand = cli.Command{
	Action: getInfo,
	Name:   "info",
	Usage:  "prints the identity of the transaction kernel program",
	Flags: []cli.Flag{
		&configFlag,
	},
}

func getInfo(ctx *cli.Context) error {
	config, found := compiler.GetConfigByName(ctx.String(configFlag.Name))
	if !found {
		return fmt.Errorf("unknown compiler configuration %q", ctx.String(configFlag.Name))
	}
	asm, err := assembly.NewTextAssembler(assembly.DefaultKernelModule)
	if err != nil {
		return err
	}
	config.Logger = newLogger(ctx)
	info := compiler.NewTransactionCompiler(asm, config).ProgramInfo()

	fmt.Printf("Kernel program: %v\n", info.ProgramHash)
	fmt.Printf("Kernel commitment: %v\n", info.Kernel.Commitment())
	for i, procedure := range info.Kernel.Procedures() {
		fmt.Printf("Kernel procedure %d: %v\n", i, procedure)
	}
	return nil
}
