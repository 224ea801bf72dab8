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

	"github.com/Fantom-foundation/Quill/assembly"
	"github.com/Fantom-foundation/Quill/common"
	"github.com/Fantom-foundation/Quill/compiler"
	"github.com/Fantom-foundation/Quill/database"
	"github.com/Fantom-foundation/Quill/note"
)

var (
	scriptFlag = cli.StringFlag{
		Name:  "script",
		Usage: "file containing a script",
	}
	noteFlag = cli.StringSliceFlag{
		Name:  "note",
		Usage: "file containing the script of a consumed note, may be repeated",
	}
	targetFlag = cli.StringSliceFlag{
		Name:  "target",
		Usage: "0x-prefixed id of an account the note script must be compatible with, may be repeated",
	}
	senderFlag = cli.StringFlag{
		Name:  "sender",
		Usage: "0x-prefixed id of the account sending the consumed notes",
		Value: "0x0",
	}
)

var compileNoteCommand = cli.Command{
	Action: compileNote,
	Name:   "compile-note",
	Usage:  "compiles a note script and checks it against the interfaces of the target accounts",
	Flags: []cli.Flag{
		&dbDirectoryFlag,
		&scriptFlag,
		&targetFlag,
		&proceduresFlag,
		&configFlag,
	},
}

var compileTxCommand = cli.Command{
	Action: compileTx,
	Name:   "compile-tx",
	Usage:  "compiles a transaction consuming notes and running an optional script against an account",
	Flags: []cli.Flag{
		&dbDirectoryFlag,
		&accountFlag,
		&noteFlag,
		&scriptFlag,
		&senderFlag,
		&configFlag,
	},
}

func compileNote(ctx *cli.Context) error {
	source, err := readSource(ctx.String(scriptFlag.Name))
	if err != nil {
		return err
	}
	var targets []compiler.NoteTarget
	for _, target := range ctx.StringSlice(targetFlag.Name) {
		id, err := common.ParseAccountId(target)
		if err != nil {
			return err
		}
		targets = append(targets, compiler.AccountTarget(id))
	}
	if digests := ctx.StringSlice(proceduresFlag.Name); len(digests) > 0 {
		procedures := make([]common.Digest, 0, len(digests))
		for _, digest := range digests {
			procedure, err := common.ParseDigest(digest)
			if err != nil {
				return err
			}
			procedures = append(procedures, procedure)
		}
		targets = append(targets, compiler.ProceduresTarget(procedures))
	}

	return withDatabase(ctx, func(db database.Database, log zerolog.Logger) error {
		txCompiler, err := newCompiler(ctx, db, log)
		if err != nil {
			return err
		}
		script, err := txCompiler.CompileNoteScript(source, targets)
		if err != nil {
			return err
		}
		fmt.Printf("Note script: %v\n", script.Hash())
		return nil
	})
}

func compileTx(ctx *cli.Context) error {
	id, err := parseAccount(ctx)
	if err != nil {
		return err
	}
	sender, err := common.ParseAccountId(ctx.String(senderFlag.Name))
	if err != nil {
		return err
	}
	var txScript *string
	if path := ctx.String(scriptFlag.Name); path != "" {
		source, err := readSource(path)
		if err != nil {
			return err
		}
		txScript = &source
	}

	asm, err := assembly.NewTextAssembler(assembly.DefaultKernelModule)
	if err != nil {
		return err
	}
	var notes []*note.Note
	for i, path := range ctx.StringSlice(noteFlag.Name) {
		source, err := readSource(path)
		if err != nil {
			return err
		}
		script, _, err := note.NewScript(source, asm)
		if err != nil {
			return fmt.Errorf("failed to compile script of note %d: %w", i, err)
		}
		serialNum := common.Word{common.NewFelt(uint64(i))}
		consumed, err := note.NewNote(script, nil, serialNum, sender, note.Public)
		if err != nil {
			return err
		}
		notes = append(notes, consumed)
	}

	return withDatabase(ctx, func(db database.Database, log zerolog.Logger) error {
		txCompiler, err := newCompiler(ctx, db, log)
		if err != nil {
			return err
		}
		res, scriptHash, err := txCompiler.CompileTransaction(id, notes, txScript)
		if err != nil {
			return err
		}
		fmt.Printf("Program: %v\n", res.Hash())
		fmt.Printf("Program commitment: %v\n", res.Commitment())
		fmt.Printf("Code blocks: %d\n", res.CodeBlocks().Len())
		for i, n := range notes {
			fmt.Printf("Note %d: %v\n", i, n.Hash())
		}
		if scriptHash != nil {
			fmt.Printf("Transaction script: %v\n", *scriptHash)
		}
		return nil
	})
}
