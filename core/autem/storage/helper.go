package storage

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"

	"github.com/zircuit-labs/autem/core/autem/model"
)

func bookmarksFromAddresses(chainID uint64, kind model.BookmarkKind, addresses []common.Address) []*model.Bookmark {
	entries := make([]*model.Bookmark, 0, len(addresses))
	for _, address := range addresses {
		entries = append(entries, &model.Bookmark{ChainID: chainID, Address: address.Hex(), Kind: kind})
	}
	return entries
}

func addressesFromBookmarks(entries []*model.Bookmark) []common.Address {
	addresses := make([]common.Address, 0, len(entries))
	for _, entry := range entries {
		addresses = append(addresses, common.HexToAddress(entry.Address))
	}
	return addresses
}

// dedup keeps the first occurrence of every address.
func dedup(addresses []common.Address) []common.Address {
	seen := mapset.NewThreadUnsafeSetWithSize[common.Address](len(addresses))
	out := make([]common.Address, 0, len(addresses))
	for _, address := range addresses {
		if seen.Add(address) {
			out = append(out, address)
		}
	}
	return out
}
