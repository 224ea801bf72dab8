// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package smt

import (
	"fmt"

	"github.com/Fantom-foundation/Quill/common"
)

// ReduceHashes computes the root of a binary tree with numLeaves digests on
// the leaf level. Digests for leaves are fetched on demand through the source
// function. Levels of odd length are padded with zero digests.
func ReduceHashes(numLeaves int, source func(int) (common.Digest, error)) (common.Digest, error) {
	if numLeaves < 0 {
		return common.Digest{}, fmt.Errorf("invalid number of leaves: %d", numLeaves)
	}

	// If there are no leaves, the procedure is simple.
	if numLeaves == 0 {
		return common.Digest{}, nil
	}

	if numLeaves == 1 {
		return source(0)
	}

	paddedSize := numLeaves + numLeaves%2

	hashes := make([]common.Digest, paddedSize)
	for i := 0; i < numLeaves; i++ {
		hash, err := source(i)
		if err != nil {
			return common.Digest{}, err
		}
		hashes[i] = hash
	}

	for len(hashes) > 1 {
		for i := 0; i < len(hashes); i += 2 {
			hashes[i/2] = common.Merge(hashes[i], hashes[i+1])
		}
		hashes = hashes[0 : len(hashes)/2]
		if len(hashes) > 1 && len(hashes)%2 != 0 {
			hashes = append(hashes, common.Digest{})
		}
	}

	return hashes[0], nil
}
