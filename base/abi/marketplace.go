package abi

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

var MarketplaceABI abi.ABI

var marketplaceABI = `[{"type":"function","name":"totalListingsByCollection","constant":true,"stateMutability":"view","payable":false,"inputs":[{"type":"address","name":"assetContract"}],"outputs":[{"type":"uint256"}]},{"type":"function","name":"getListingsByCollection","constant":true,"stateMutability":"view","payable":false,"inputs":[{"type":"address","name":"assetContract"},{"type":"uint256","name":"startIndex"},{"type":"uint256","name":"count"}],"outputs":[{"type":"tuple[]","name":"listings","components":[{"type":"uint256","name":"listingId"},{"type":"address","name":"listingCreator"},{"type":"address","name":"assetContract"},{"type":"uint256","name":"tokenId"},{"type":"uint256","name":"quantity"},{"type":"address","name":"currency"},{"type":"uint256","name":"pricePerToken"},{"type":"uint128","name":"startTimestamp"},{"type":"uint128","name":"endTimestamp"},{"type":"bool","name":"reserved"},{"type":"uint8","name":"tokenType"},{"type":"uint8","name":"status"}]}]},{"type":"function","name":"createListing","constant":false,"stateMutability":"nonpayable","payable":false,"inputs":[{"type":"tuple","name":"params","components":[{"type":"address","name":"assetContract"},{"type":"uint256","name":"tokenId"},{"type":"uint256","name":"quantity"},{"type":"address","name":"currency"},{"type":"uint256","name":"pricePerToken"},{"type":"uint128","name":"startTimestamp"},{"type":"uint128","name":"endTimestamp"},{"type":"bool","name":"reserved"}]}],"outputs":[{"type":"uint256","name":"listingId"}]},{"type":"function","name":"cancelListing","constant":false,"stateMutability":"nonpayable","payable":false,"inputs":[{"type":"uint256","name":"listingId"}],"outputs":[]},{"type":"function","name":"buyFromListing","constant":false,"stateMutability":"payable","payable":true,"inputs":[{"type":"uint256","name":"listingId"},{"type":"address","name":"buyFor"},{"type":"uint256","name":"quantity"},{"type":"address","name":"currency"},{"type":"uint256","name":"expectedTotalPrice"}],"outputs":[]}]`

func init() {
	_abi, err := abi.JSON(strings.NewReader(marketplaceABI))
	if err != nil {
		panic("Failed to parse marketplace abi")
	}
	MarketplaceABI = _abi
}
