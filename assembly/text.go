// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package assembly

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/Fantom-foundation/Quill/common"
	"github.com/Fantom-foundation/Quill/program"
)

// DefaultKernelModule is the source of the kernel procedures available to
// programs through syscall instructions.
const DefaultKernelModule = `
export.account_get_item sload end
export.account_set_item sstore end
export.account_incr_nonce push.1 add end
export.note_get_assets mem_load end
export.tx_create_note mem_store end
`

// TextAssembler compiles a small block language into program trees.
//
// A program consists of optional procedure definitions followed by a main
// block:
//
//	proc.helper push.1 add end
//	begin
//	    exec.helper                 # inline a local procedure
//	    call.helper                 # invoke a local procedure by digest
//	    call.0x<digest>             # invoke an external procedure
//	    syscall.account_get_item    # invoke a kernel procedure
//	    if.true ... else ... end    # conditional, else part is optional
//	    while.true ... end          # loop
//	    dyncall                     # dynamic invocation
//	    proxy.0x<digest>            # opaque sub-tree
//	end
//
// A module consists of proc. and export. definitions only. Any other word is
// treated as an opaque straight-line operation; # starts a comment.
type TextAssembler struct {
	kernel      program.Kernel
	kernelProcs map[string]common.Digest
}

// NewTextAssembler creates an assembler for programs running against the
// kernel defined by the given module source. An empty source results in an
// empty kernel.
func NewTextAssembler(kernelModule string) (*TextAssembler, error) {
	res := &TextAssembler{kernelProcs: map[string]common.Digest{}}
	if strings.TrimSpace(kernelModule) == "" {
		return res, nil
	}
	module, err := res.CompileModule(kernelModule)
	if err != nil {
		return nil, fmt.Errorf("failed to compile kernel: %w", err)
	}
	for _, proc := range module.Procedures {
		res.kernelProcs[proc.Name] = proc.Body.Hash()
	}
	res.kernel = program.NewKernel(module.Digests())
	return res, nil
}

func (a *TextAssembler) Kernel() program.Kernel {
	return a.kernel
}

func (a *TextAssembler) CompileModule(source string) (*Module, error) {
	p := a.newParser(source, nil)
	exports, err := p.parseDefinitions(true)
	if err != nil {
		return nil, err
	}
	if tok, ok := p.peek(); ok {
		return nil, p.errorAt(tok, "unexpected token in module")
	}
	if len(exports) == 0 {
		return nil, &SyntaxError{Msg: "module exports no procedures"}
	}
	return &Module{Procedures: exports}, nil
}

func (a *TextAssembler) Compile(source string) (program.Node, error) {
	return a.compile(source, nil)
}

func (a *TextAssembler) CompileInContext(source string, ctx *Context) (program.Node, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	return a.compile(source, ctx)
}

func (a *TextAssembler) BuildCodeBlockTable(ctx *Context) (*program.CodeBlockTable, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if err := ctx.Finalize(); err != nil {
		return nil, err
	}
	table := program.NewCodeBlockTable()
	for _, proc := range ctx.Procedures() {
		table.Insert(proc)
	}
	return table, nil
}

func (a *TextAssembler) compile(source string, ctx *Context) (program.Node, error) {
	p := a.newParser(source, ctx)
	if _, err := p.parseDefinitions(false); err != nil {
		return nil, err
	}
	tok, ok := p.next()
	if !ok {
		return nil, &SyntaxError{Msg: "missing begin"}
	}
	if tok.text != "begin" {
		return nil, p.errorAt(tok, "expected begin")
	}
	main, err := p.parseBlock("end")
	if err != nil {
		return nil, err
	}
	if tok, ok := p.peek(); ok {
		return nil, p.errorAt(tok, "unexpected token after end of program")
	}
	return main, nil
}

// SyntaxError describes a source text that could not be assembled.
type SyntaxError struct {
	Line  int
	Token string
	Msg   string
}

func (e *SyntaxError) Error() string {
	if e.Line == 0 {
		return e.Msg
	}
	return fmt.Sprintf("line %d: %s at %q", e.Line, e.Msg, e.Token)
}

type token struct {
	text string
	line int
}

func tokenize(source string) []token {
	var res []token
	for i, line := range strings.Split(source, "\n") {
		if pos := strings.IndexByte(line, '#'); pos >= 0 {
			line = line[:pos]
		}
		for _, word := range strings.Fields(line) {
			res = append(res, token{text: word, line: i + 1})
		}
	}
	return res
}

type parser struct {
	asm    *TextAssembler
	ctx    *Context
	tokens []token
	pos    int
	procs  map[string]program.Node
}

func (a *TextAssembler) newParser(source string, ctx *Context) *parser {
	return &parser{
		asm:    a,
		ctx:    ctx,
		tokens: tokenize(source),
		procs:  map[string]program.Node{},
	}
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.tokens) {
		return token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) next() (token, bool) {
	tok, ok := p.peek()
	if ok {
		p.pos++
	}
	return tok, ok
}

func (p *parser) errorAt(tok token, msg string) error {
	return &SyntaxError{Line: tok.line, Token: tok.text, Msg: msg}
}

// parseDefinitions consumes procedure definitions and returns the exported
// ones. It stops at the first token not starting a definition.
func (p *parser) parseDefinitions(allowExport bool) ([]Procedure, error) {
	var exports []Procedure
	for {
		tok, ok := p.peek()
		if !ok {
			return exports, nil
		}
		name, exported := "", false
		switch {
		case strings.HasPrefix(tok.text, "proc."):
			name = strings.TrimPrefix(tok.text, "proc.")
		case strings.HasPrefix(tok.text, "export."):
			if !allowExport {
				return nil, p.errorAt(tok, "exports are only allowed in modules")
			}
			name, exported = strings.TrimPrefix(tok.text, "export."), true
		default:
			return exports, nil
		}
		p.pos++
		if !isIdentifier(name) {
			return nil, p.errorAt(tok, "invalid procedure name")
		}
		if _, found := p.procs[name]; found {
			return nil, p.errorAt(tok, "duplicate procedure")
		}
		body, err := p.parseBlock("end")
		if err != nil {
			return nil, err
		}
		p.procs[name] = body
		if exported {
			exports = append(exports, Procedure{Name: name, Body: body})
		}
	}
}

// parseBlock parses instructions up to one of the given terminators, which is
// consumed.
func (p *parser) parseBlock(terminators ...string) (program.Node, error) {
	node, _, err := p.parseBlockTerm(terminators...)
	return node, err
}

func (p *parser) parseBlockTerm(terminators ...string) (program.Node, string, error) {
	var nodes []program.Node
	var ops []program.Operation
	flush := func() {
		if len(ops) > 0 {
			nodes = append(nodes, program.NewLeaf(ops...))
			ops = nil
		}
	}
	for {
		tok, ok := p.next()
		if !ok {
			return nil, "", &SyntaxError{Msg: fmt.Sprintf("unexpected end of input, missing %s", terminators[0])}
		}
		if slices.Contains(terminators, tok.text) {
			flush()
			return combine(nodes), tok.text, nil
		}

		var node program.Node
		var err error
		switch {
		case tok.text == "if.true":
			node, err = p.parseConditional()
		case tok.text == "while.true":
			var body program.Node
			if body, err = p.parseBlock("end"); err == nil {
				node = program.NewLoop(body)
			}
		case tok.text == "dyncall":
			node = program.NewDynamic()
		case strings.HasPrefix(tok.text, "exec."):
			node, err = p.resolveLocal(tok, "exec.")
		case strings.HasPrefix(tok.text, "call."):
			node, err = p.resolveCall(tok)
		case strings.HasPrefix(tok.text, "syscall."):
			node, err = p.resolveKernelCall(tok)
		case strings.HasPrefix(tok.text, "proxy."):
			node, err = p.resolveProxy(tok)
		case isReserved(tok.text):
			err = p.errorAt(tok, "unexpected token")
		default:
			ops = append(ops, program.Operation(tok.text))
			continue
		}
		if err != nil {
			return nil, "", err
		}
		flush()
		nodes = append(nodes, node)
	}
}

func (p *parser) parseConditional() (program.Node, error) {
	onTrue, term, err := p.parseBlockTerm("end", "else")
	if err != nil {
		return nil, err
	}
	var onFalse program.Node = program.NewLeaf(program.Noop)
	if term == "else" {
		if onFalse, err = p.parseBlock("end"); err != nil {
			return nil, err
		}
	}
	return program.NewBranch(onFalse, onTrue), nil
}

func (p *parser) resolveLocal(tok token, prefix string) (program.Node, error) {
	name := strings.TrimPrefix(tok.text, prefix)
	body, found := p.procs[name]
	if !found {
		return nil, p.errorAt(tok, "unknown procedure")
	}
	return body, nil
}

func (p *parser) resolveCall(tok token) (program.Node, error) {
	target := strings.TrimPrefix(tok.text, "call.")
	if strings.HasPrefix(target, "0x") {
		hash, err := common.ParseDigest(target)
		if err != nil {
			return nil, p.errorAt(tok, err.Error())
		}
		return program.NewCall(hash), nil
	}
	body, err := p.resolveLocal(tok, "call.")
	if err != nil {
		return nil, err
	}
	if p.ctx != nil {
		p.ctx.AddProcedure(body)
	}
	return program.NewCall(body.Hash()), nil
}

func (p *parser) resolveProxy(tok token) (program.Node, error) {
	hash, err := common.ParseDigest(strings.TrimPrefix(tok.text, "proxy."))
	if err != nil {
		return nil, p.errorAt(tok, err.Error())
	}
	return program.NewOpaque(hash), nil
}

func (p *parser) resolveKernelCall(tok token) (program.Node, error) {
	target := strings.TrimPrefix(tok.text, "syscall.")
	if strings.HasPrefix(target, "0x") {
		hash, err := common.ParseDigest(target)
		if err != nil {
			return nil, p.errorAt(tok, err.Error())
		}
		if !p.asm.kernel.Contains(hash) {
			return nil, p.errorAt(tok, "procedure is not part of the kernel")
		}
		return program.NewKernelCall(hash), nil
	}
	hash, found := p.asm.kernelProcs[target]
	if !found {
		return nil, p.errorAt(tok, "unknown kernel procedure")
	}
	return program.NewKernelCall(hash), nil
}

// combine joins the given nodes into a balanced tree of sequences.
func combine(nodes []program.Node) program.Node {
	switch len(nodes) {
	case 0:
		return program.NewLeaf(program.Noop)
	case 1:
		return nodes[0]
	}
	mid := len(nodes) / 2
	return program.NewSequence(combine(nodes[:mid]), combine(nodes[mid:]))
}

func isReserved(word string) bool {
	return word == "begin" || word == "end" || word == "else" ||
		strings.HasPrefix(word, "proc.") || strings.HasPrefix(word, "export.")
}

func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for _, c := range name {
		if !(c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}
