// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package compiler

import (
	"errors"
	"fmt"
	"time"

	"github.com/gammazero/workerpool"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/Fantom-foundation/Quill/account"
	"github.com/Fantom-foundation/Quill/assembly"
	"github.com/Fantom-foundation/Quill/common"
	"github.com/Fantom-foundation/Quill/note"
	"github.com/Fantom-foundation/Quill/program"
)

// TransactionCompiler builds the executable programs of transactions. A
// transaction program wraps the scripts of the consumed notes and an optional
// transaction script into the kernel entry program. Every script is verified
// against the interface of the account executing the transaction.
//
// Account interfaces have to be registered with the compiler before
// transactions targeting the account can be compiled. A TransactionCompiler
// is not safe for concurrent use.
type TransactionCompiler struct {
	assembler         assembly.Assembler
	accountProcedures map[common.AccountId][]common.Digest
	kernelMain        program.Node
	verified          *lru.Cache[verificationKey, bool]
	workers           int
	metrics           Metrics
	log               zerolog.Logger
}

// NewTransactionCompiler creates a compiler on top of the given assembler.
// The kernel entry program of the configuration is compiled once; since it is
// part of the build, a failure to compile it is a defect and panics.
func NewTransactionCompiler(assembler assembly.Assembler, config Config) *TransactionCompiler {
	kernelMain, err := assembler.CompileInContext(config.KernelMain, assembly.NewContext())
	if err != nil {
		panic(fmt.Sprintf("failed to compile transaction kernel entry program: %v", err))
	}

	var verified *lru.Cache[verificationKey, bool]
	if config.VerificationCacheSize > 0 {
		verified, err = lru.New[verificationKey, bool](config.VerificationCacheSize)
		if err != nil {
			panic(fmt.Sprintf("failed to create verification cache: %v", err))
		}
	}

	metrics := config.Metrics
	if metrics == nil {
		metrics = NoopMetrics{}
	}

	log := config.Logger.With().Str("component", "tx_compiler").Logger()
	log.Debug().
		Str("kernel_main", kernelMain.Hash().Hex()).
		Int("kernel_procedures", len(assembler.Kernel().Procedures())).
		Msg("transaction compiler initialized")

	return &TransactionCompiler{
		assembler:         assembler,
		accountProcedures: map[common.AccountId][]common.Digest{},
		kernelMain:        kernelMain,
		verified:          verified,
		workers:           config.Workers,
		metrics:           metrics,
		log:               log,
	}
}

// LoadAccount compiles the given module into account code and registers its
// exported procedures as the interface of the given account.
func (c *TransactionCompiler) LoadAccount(id common.AccountId, moduleSource string) (*account.Code, error) {
	code, err := account.NewCode(moduleSource, c.assembler)
	if err != nil {
		return nil, LoadAccountError{id, err}
	}
	c.accountProcedures[id] = code.Procedures()
	c.log.Debug().
		Str("account", id.String()).
		Str("code_root", code.Root().Hex()).
		Int("procedures", len(code.Procedures())).
		Msg("account code loaded")
	return code, nil
}

// LoadAccountInterface registers the given procedures as the interface of the
// given account. The previously registered interface is returned, if any.
func (c *TransactionCompiler) LoadAccountInterface(id common.AccountId, procedures []common.Digest) ([]common.Digest, bool) {
	previous, found := c.accountProcedures[id]
	c.accountProcedures[id] = slices.Clone(procedures)
	c.log.Debug().
		Str("account", id.String()).
		Int("procedures", len(procedures)).
		Bool("replaced", found).
		Msg("account interface loaded")
	return previous, found
}

// AccountInterface returns the interface registered for the given account.
func (c *TransactionCompiler) AccountInterface(id common.AccountId) ([]common.Digest, bool) {
	procedures, found := c.accountProcedures[id]
	return slices.Clone(procedures), found
}

// Accounts lists all accounts with a registered interface in ascending order.
func (c *TransactionCompiler) Accounts() []common.AccountId {
	res := maps.Keys(c.accountProcedures)
	slices.Sort(res)
	return res
}

// InterfaceSource provides account interfaces, e.g. from a database.
type InterfaceSource interface {
	ForEachInterface(func(id common.AccountId, procedures []common.Digest) error) error
}

// LoadInterfaces registers all interfaces provided by the given source. It
// returns the number of registered interfaces.
func (c *TransactionCompiler) LoadInterfaces(source InterfaceSource) (int, error) {
	count := 0
	err := source.ForEachInterface(func(id common.AccountId, procedures []common.Digest) error {
		c.LoadAccountInterface(id, procedures)
		count++
		return nil
	})
	if err != nil {
		return count, fmt.Errorf("failed to load account interfaces: %w", err)
	}
	return count, nil
}

// CompileNoteScript compiles the given source into a note script and checks,
// to the extent possible, that the note could be consumed by accounts with
// each of the given interfaces.
func (c *TransactionCompiler) CompileNoteScript(source string, targets []NoteTarget) (*note.Script, error) {
	script, code, err := note.NewScript(source, c.assembler)
	if err != nil {
		return nil, NoteScriptCompileError{-1, err}
	}
	for _, target := range targets {
		procedures, err := c.targetInterface(target)
		if err != nil {
			return nil, err
		}
		if err := c.verify(code, procedures, programKindNote); err != nil {
			return nil, NoteIncompatibleError{-1, code.Hash()}
		}
	}
	return script, nil
}

// CompileTransaction builds the program executing the given notes and the
// optional transaction script against the given account. Besides the program
// the hash of the transaction script is returned, nil if none was provided.
func (c *TransactionCompiler) CompileTransaction(
	accountId common.AccountId,
	notes []*note.Note,
	txScript *string,
) (*program.Program, *common.Digest, error) {
	start := time.Now()
	res, scriptHash, err := c.compileTransaction(accountId, notes, txScript)
	if err != nil {
		c.metrics.TransactionRejected(rejectionReason(err))
		c.log.Warn().
			Err(err).
			Str("account", accountId.String()).
			Int("notes", len(notes)).
			Msg("transaction rejected")
		return nil, nil, err
	}
	c.metrics.TransactionCompiled(time.Since(start), len(notes))
	c.log.Debug().
		Str("account", accountId.String()).
		Int("notes", len(notes)).
		Bool("script", scriptHash != nil).
		Str("program", res.Commitment().Hex()).
		Msg("transaction compiled")
	return res, scriptHash, nil
}

func (c *TransactionCompiler) compileTransaction(
	accountId common.AccountId,
	notes []*note.Note,
	txScript *string,
) (*program.Program, *common.Digest, error) {
	procedures, found := c.accountProcedures[accountId]
	if !found {
		return nil, nil, AccountInterfaceNotFoundError{accountId}
	}
	if len(notes) == 0 && txScript == nil {
		return nil, nil, ErrInvalidTransactionInputs
	}

	// All scripts of a transaction share the same context.
	ctx := assembly.NewContext()

	notePrograms, err := c.compileNotes(procedures, notes, ctx)
	if err != nil {
		return nil, nil, err
	}

	scriptProgram, scriptHash, err := c.compileTxScript(procedures, txScript, ctx)
	if err != nil {
		return nil, nil, err
	}

	table, err := c.assembler.BuildCodeBlockTable(ctx)
	if err != nil {
		return nil, nil, BuildCodeBlockTableError{err}
	}
	for _, code := range notePrograms {
		table.Insert(code)
	}
	table.Insert(scriptProgram)

	return program.NewProgramWithKernel(c.kernelMain, c.assembler.Kernel(), table), scriptHash, nil
}

// ProgramInfo describes the kernel entry program every transaction program
// is based on.
func (c *TransactionCompiler) ProgramInfo() program.ProgramInfo {
	return program.ProgramInfo{
		ProgramHash: c.kernelMain.Hash(),
		Kernel:      c.assembler.Kernel(),
	}
}

// compileNotes compiles the scripts of the given notes in order and verifies
// each of them against the given interface. The first failing note, in note
// order, determines the reported error.
func (c *TransactionCompiler) compileNotes(
	procedures []common.Digest,
	notes []*note.Note,
	ctx *assembly.Context,
) ([]program.Node, error) {
	// Compilation shares the context and is thus sequential.
	programs := make([]program.Node, 0, len(notes))
	var compileErr error
	for i, n := range notes {
		code, err := c.assembler.CompileInContext(n.Script().Source(), ctx)
		if err != nil {
			compileErr = NoteScriptCompileError{i, err}
			break
		}
		programs = append(programs, code)
	}

	results := c.verifyAll(programs, procedures)
	for i, err := range results {
		if err != nil {
			return nil, NoteIncompatibleError{i, programs[i].Hash()}
		}
	}
	if compileErr != nil {
		return nil, compileErr
	}
	return programs, nil
}

// verifyAll checks the given programs against the given interface, using the
// configured number of workers. The results are in program order.
func (c *TransactionCompiler) verifyAll(programs []program.Node, procedures []common.Digest) []error {
	results := make([]error, len(programs))
	if c.workers < 2 || len(programs) < 2 {
		for i, code := range programs {
			results[i] = c.verify(code, procedures, programKindNote)
		}
		return results
	}

	pool := workerpool.New(c.workers)
	for i, code := range programs {
		i, code := i, code
		pool.Submit(func() {
			results[i] = c.verify(code, procedures, programKindNote)
		})
	}
	pool.StopWait()
	return results
}

func (c *TransactionCompiler) compileTxScript(
	procedures []common.Digest,
	txScript *string,
	ctx *assembly.Context,
) (program.Node, *common.Digest, error) {
	var code program.Node = program.NewLeaf(program.Noop)
	if txScript != nil {
		var err error
		if code, err = c.assembler.CompileInContext(*txScript, ctx); err != nil {
			return nil, nil, TxScriptCompileError{err}
		}
	}
	if err := c.verify(code, procedures, programKindScript); err != nil {
		return nil, nil, TxScriptIncompatibleError{code.Hash()}
	}
	if txScript == nil {
		return code, nil, nil
	}
	hash := code.Hash()
	return code, &hash, nil
}

func (c *TransactionCompiler) targetInterface(target NoteTarget) ([]common.Digest, error) {
	id, isAccount := target.Account()
	if !isAccount {
		return target.Procedures(), nil
	}
	procedures, found := c.accountProcedures[id]
	if !found {
		return nil, AccountInterfaceNotFoundError{id}
	}
	return procedures, nil
}

// verify checks that at least one execution branch of the given program only
// calls procedures of the given interface.
func (c *TransactionCompiler) verify(code program.Node, procedures []common.Digest, kind string) error {
	compatible := c.isCompatible(code, procedures)
	c.metrics.ProgramVerified(kind, compatible)
	if !compatible {
		c.log.Warn().
			Str("program", code.Hash().Hex()).
			Str("kind", kind).
			Msg("program incompatible with account interface")
		return ProgramIncompatibleError{code.Hash()}
	}
	return nil
}

// verificationKey identifies a compatibility check by the program and the
// interface it was checked against.
type verificationKey struct {
	program common.Digest
	iface   common.Digest
}

// isCompatible checks the given program, reusing earlier results for the same
// program and interface. Partial programs share their hash with the complete
// program they stand for and are never cached.
func (c *TransactionCompiler) isCompatible(code program.Node, procedures []common.Digest) bool {
	if c.verified == nil || program.IsPartial(code) {
		c.metrics.CompatibilityAnalysis(false)
		return IsCompatible(code, procedures)
	}
	key := verificationKey{code.Hash(), interfaceCommitment(procedures)}
	if compatible, found := c.verified.Get(key); found {
		c.metrics.CompatibilityAnalysis(true)
		return compatible
	}
	c.metrics.CompatibilityAnalysis(false)
	compatible := IsCompatible(code, procedures)
	c.verified.Add(key, compatible)
	return compatible
}

func interfaceCommitment(procedures []common.Digest) common.Digest {
	data := make([][]byte, 0, len(procedures))
	for _, procedure := range procedures {
		data = append(data, procedure.ToBytes())
	}
	return common.HashBytes(data...)
}

func rejectionReason(err error) string {
	var (
		notFound       AccountInterfaceNotFoundError
		noteCompile    NoteScriptCompileError
		noteIncompat   NoteIncompatibleError
		scriptCompile  TxScriptCompileError
		scriptIncompat TxScriptIncompatibleError
		table          BuildCodeBlockTableError
	)
	switch {
	case errors.As(err, &notFound):
		return "interface_not_found"
	case errors.Is(err, ErrInvalidTransactionInputs):
		return "invalid_inputs"
	case errors.As(err, &noteCompile):
		return "note_compile"
	case errors.As(err, &noteIncompat):
		return "note_incompatible"
	case errors.As(err, &scriptCompile):
		return "tx_script_compile"
	case errors.As(err, &scriptIncompat):
		return "tx_script_incompatible"
	case errors.As(err, &table):
		return "code_block_table"
	}
	return "other"
}
