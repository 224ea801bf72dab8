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
	"github.com/rs/zerolog"
)

// DefaultKernelMain is the entry program of the transaction kernel. It runs
// the prologue, invokes every note script and the transaction script through
// dynamic calls and finishes with the epilogue.
const DefaultKernelMain = `
proc.prologue push.0 drop end
proc.epilogue push.1 drop end
begin
    exec.prologue
    while.true
        dyncall
    end
    dyncall
    exec.epilogue
end
`

// Config parameterizes a TransactionCompiler.
type Config struct {
	// Name identifies the configuration.
	Name string

	// Source of the kernel entry program wrapping every compiled transaction.
	KernelMain string

	// Logger receives diagnostics of the compiler.
	Logger zerolog.Logger

	// Number of workers verifying the notes of a transaction in parallel.
	// Values smaller than 2 verify notes sequentially.
	Workers int

	// Number of compatibility check results retained, identified by program
	// and interface. Zero disables caching.
	VerificationCacheSize int

	// Metrics observes the compiler. If nil, nothing is recorded.
	Metrics Metrics
}

var DefaultConfig = Config{
	Name:                  "Default",
	KernelMain:            DefaultKernelMain,
	Logger:                zerolog.Nop(),
	Workers:               4,
	VerificationCacheSize: 1024,
}

var SequentialConfig = Config{
	Name:                  "Sequential",
	KernelMain:            DefaultKernelMain,
	Logger:                zerolog.Nop(),
	Workers:               1,
	VerificationCacheSize: 0,
}

var allConfigs = []Config{DefaultConfig, SequentialConfig}

// GetConfigByName attempts to locate a configuration with the given name.
func GetConfigByName(name string) (Config, bool) {
	for _, config := range allConfigs {
		if config.Name == name {
			return config, true
		}
	}
	return Config{}, false
}
